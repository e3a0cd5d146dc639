package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"wasteportal/internal/crypto"
)

const (
	sessionName = "wasteportal"
	visitorKey  = "visitor"
)

// Sessions keeps the visitor id in a signed, encrypted cookie. Everything else
// about the visitor stays on the server.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(keys crypto.CookieKeys, secure bool) *Sessions {
	store := sessions.NewCookieStore(keys.Hash, keys.Block)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// Visit is one request's view of the visitor cookie.
type Visit struct {
	ID string
	// Reset is set when the incoming cookie could not be decoded and a new
	// visitor id was issued in its place.
	Reset bool

	session *sessions.Session
}

// Visitor loads the cookie session for r, issuing a visitor id on first contact.
func (s *Sessions) Visitor(r *http.Request) *Visit {
	visit := &Visit{}

	session, err := s.store.Get(r, sessionName)
	if err != nil {
		opts := *s.store.Options
		session = sessions.NewSession(s.store, sessionName)
		session.Options = &opts
		session.IsNew = true
		visit.Reset = true
	}
	visit.session = session

	id, ok := session.Values[visitorKey].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		session.Values[visitorKey] = id
	}
	visit.ID = id

	return visit
}

func (v *Visit) Save(r *http.Request, w http.ResponseWriter) error {
	return v.session.Save(r, w)
}
