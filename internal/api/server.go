package api

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/gertd/go-pluralize"
	"github.com/sirupsen/logrus"

	"wasteportal/internal/auth"
	"wasteportal/internal/portal"
)

// Server renders the portal pages for each visitor's Portal.
type Server struct {
	log      logrus.FieldLogger
	sessions *auth.Sessions
	portals  *portal.Store
	pages    map[string]*template.Template
	plural   *pluralize.Client
}

func NewServer(log logrus.FieldLogger, sessions *auth.Sessions, portals *portal.Store) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Server{
		log:      log,
		sessions: sessions,
		portals:  portals,
		pages:    pages,
		plural:   pluralize.NewClient(),
	}, nil
}

// portalHandler is a handler that has already resolved the visitor and their portal.
type portalHandler func(w http.ResponseWriter, r *http.Request, visit *auth.Visit, p *portal.Portal)

// withPortal resolves the visitor cookie and portal for h. Handlers that need an
// authenticated gate send anonymous visitors back to the login screen.
func (s *Server) withPortal(h portalHandler, authenticated bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visit := s.sessions.Visitor(r)
		if visit.Reset {
			s.log.WithField("visitor", visit.ID).Info("unreadable session cookie replaced")
		}
		setVisitor(r, visit.ID)

		p := s.portals.Get(visit.ID)
		if authenticated && !p.Gate.IsAuthenticated() {
			s.redirect(w, r, visit, "/")
			return
		}
		h(w, r, visit, p)
	}
}

// redirect saves the visitor cookie and answers with 303 See Other.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, visit *auth.Visit, target string) {
	if err := visit.Save(r, w); err != nil {
		s.internalError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.WithError(err).Debug("response write failed")
	}
}

// internalError logs err and answers with a generic 500.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithField("path", r.URL.Path).Error("internal error")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = withVisitorSlot(r)

		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
			"visitor":  visitorOf(r),
		}).Info("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
