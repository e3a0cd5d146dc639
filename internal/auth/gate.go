package auth

import "sync"

// State is the position of a Gate. The only transition is Anonymous to
// Authenticated; there is no logout.
type State string

const (
	Anonymous     State = "anonymous"
	Authenticated State = "authenticated"
)

// Gate decides whether a visitor sees the login screen or the dashboard.
type Gate struct {
	mu    sync.RWMutex
	state State
}

func NewGate() *Gate {
	return &Gate{state: Anonymous}
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.state
}

func (g *Gate) IsAuthenticated() bool {
	return g.State() == Authenticated
}

// Authenticate opens the gate for any pair of non-empty credentials. No
// credential is checked against anything.
func (g *Gate) Authenticate(areaID, password string) {
	if areaID == "" || password == "" {
		return
	}

	g.mu.Lock()
	g.state = Authenticated
	g.mu.Unlock()
}
