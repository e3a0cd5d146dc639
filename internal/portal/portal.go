// Package portal ties one visitor's session gate, login form and area registry
// together and keeps them for as long as the visitor stays active.
package portal

import (
	"sync"
	"time"

	"wasteportal/internal/areas"
	"wasteportal/internal/auth"
	"wasteportal/internal/models"
)

type Options struct {
	LoginDelay time.Duration
	// Seed replaces the sample areas a new registry starts with.
	Seed        []models.Area
	AreaOptions []areas.Option
}

// Portal is the state behind one visitor's pages. The login form reports
// completed submissions to the gate; nothing else reaches the gate.
type Portal struct {
	Gate  *auth.Gate
	Login *auth.LoginForm
	Areas *areas.Registry

	mu      sync.Mutex
	notices []models.Notice
}

func New(opts Options) *Portal {
	seed := opts.Seed
	if seed == nil {
		seed = models.SampleAreas()
	}

	gate := auth.NewGate()
	return &Portal{
		Gate:  gate,
		Login: auth.NewLoginForm(opts.LoginDelay, gate.Authenticate),
		Areas: areas.NewRegistry(seed, opts.AreaOptions...),
	}
}

// AddNotice queues n for the visitor's next page.
func (p *Portal) AddNotice(n models.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, n)
}

// Notices returns and clears the queued notices.
func (p *Portal) Notices() []models.Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	notices := p.notices
	p.notices = nil
	return notices
}

// Dashboard is a read-only snapshot for rendering.
type Dashboard struct {
	Areas      []models.Area
	Selected   *models.Area
	Statistics models.Statistics
}

func (p *Portal) Dashboard() Dashboard {
	d := Dashboard{
		Areas:      p.Areas.List(),
		Statistics: models.CityStatistics(),
	}
	if selected, ok := p.Areas.Selected(); ok {
		d.Selected = &selected
	}
	return d
}
