package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintln(w, "OK"); err != nil {
			s.log.WithError(err).Debug("health write failed")
		}
	}).Methods("GET")

	r.HandleFunc("/", s.withPortal(s.IndexHandler, false)).Methods("GET")
	r.HandleFunc("/login", s.withPortal(s.LoginHandler, false)).Methods("POST")
	r.HandleFunc("/areas", s.withPortal(s.AddAreaHandler, true)).Methods("POST")
	r.HandleFunc("/areas/{id}/select", s.withPortal(s.SelectAreaHandler, true)).Methods("POST")
	r.HandleFunc("/support", s.withPortal(s.SupportHandler, true)).Methods("POST")
	r.HandleFunc("/survey", s.withPortal(s.SurveyHandler, true)).Methods("POST")
	r.HandleFunc("/api/areas", s.withPortal(s.ListAreasHandler, false)).Methods("GET")

	// Unmatched requests bypass r.Use, so they get the request log here.
	notFound := s.logRequests(http.HandlerFunc(s.NotFoundHandler))
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound
	return r
}
