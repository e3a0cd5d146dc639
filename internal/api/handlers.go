package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"wasteportal/internal/areas"
	"wasteportal/internal/auth"
	"wasteportal/internal/forms"
	"wasteportal/internal/models"
	"wasteportal/internal/portal"
	"wasteportal/internal/utils"
)

// IndexHandler shows the login screen or, once the gate is open, the dashboard.
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request, visit *auth.Visit, p *portal.Portal) {
	notices := p.Notices()
	if err := visit.Save(r, w); err != nil {
		s.internalError(w, r, err)
		return
	}

	if !p.Gate.IsAuthenticated() {
		s.render(w, r, http.StatusOK, "login", loginPage{
			layoutData: layoutData{Title: "Area Login", Notices: notices},
			Submitting: p.Login.Submitting(),
		})
		return
	}

	dashboard := p.Dashboard()
	s.render(w, r, http.StatusOK, "dashboard", dashboardPage{
		layoutData:        layoutData{Title: "Dashboard", Notices: notices},
		Tab:               tabOrDefault(r.URL.Query().Get("tab")),
		Tabs:              dashboardTabs,
		Dashboard:         dashboard,
		AreaCount:         s.plural.Pluralize("area", len(dashboard.Areas), true),
		IssueOptions:      forms.IssueOptions(),
		Contacts:          forms.EmergencyContacts(),
		Questions:         forms.SurveyQuestions(),
		SuggestionsPrompt: forms.SuggestionsPrompt,
		RewardPoints:      forms.RewardPoints,
	})
}

// LoginHandler waits out the login delay for the submitted credentials. If
// the request goes away first, nothing changes.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request, visit *auth.Visit, p *portal.Portal) {
	req := auth.LoginRequest{
		AreaID:   r.PostFormValue("areaId"),
		Password: r.PostFormValue("password"),
	}

	err := p.Login.Submit(r.Context(), req)
	if verr, ok := utils.AsValidation(err); ok {
		p.AddNotice(models.Notice{
			Title:       "Validation Error",
			Description: verr.Message,
			Severity:    models.SeverityDestructive,
		})
	} else if err != nil {
		s.log.WithError(err).WithField("visitor", visit.ID).Debug("login abandoned")
		return
	} else {
		s.log.WithField("visitor", visit.ID).Info("visitor logged in")
	}

	s.redirect(w, r, visit, "/")
}

func (s *Server) AddAreaHandler(w http.ResponseWriter, r *http.Request, visit *auth.Visit, p *portal.Portal) {
	name := r.PostFormValue("name")

	area, err := p.Areas.Add(name)
	if verr, ok := utils.AsValidation(err); ok {
		p.AddNotice(models.Notice{
			Title:       "Error",
			Description: verr.Message,
			Severity:    models.SeverityDestructive,
		})
	} else if err != nil {
		s.internalError(w, r, err)
		return
	} else {
		p.AddNotice(models.Notice{
			Title:       "Success",
			Description: `Area "` + area.Name + `" has been added successfully`,
			Severity:    models.SeveritySuccess,
		})
	}

	s.redirect(w, r, visit, "/?tab=areas")
}

func (s *Server) SelectAreaHandler(w http.ResponseWriter, r *http.Request, visit *auth.Visit, p *portal.Portal) {
	_, err := p.Areas.Select(mux.Vars(r)["id"])
	if errors.Is(err, areas.ErrAreaNotFound) {
		s.NotFoundHandler(w, r)
		return
	} else if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.redirect(w, r, visit, "/?tab=areas#area-detail")
}

func (s *Server) SupportHandler(w http.ResponseWriter, r *http.Request, visit *auth.Visit, p *portal.Portal) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	req, err := forms.ParseSupportRequest(r.PostForm)
	if !s.noticeValidation(w, r, p, err) {
		return
	}
	if err == nil {
		p.AddNotice(req.Acknowledge())
	}

	s.redirect(w, r, visit, "/?tab=support")
}

func (s *Server) SurveyHandler(w http.ResponseWriter, r *http.Request, visit *auth.Visit, p *portal.Portal) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	resp, err := forms.ParseSurveyResponse(r.PostForm)
	if !s.noticeValidation(w, r, p, err) {
		return
	}
	if err == nil {
		p.AddNotice(resp.Acknowledge())
	}

	s.redirect(w, r, visit, "/?tab=survey")
}

// noticeValidation turns a validation error into a notice. It answers with a
// 500 and returns false for any other error.
func (s *Server) noticeValidation(w http.ResponseWriter, r *http.Request, p *portal.Portal, err error) bool {
	if err == nil {
		return true
	}
	if verr, ok := utils.AsValidation(err); ok {
		p.AddNotice(models.Notice{
			Title:       "Validation Error",
			Description: verr.Message,
			Severity:    models.SeverityDestructive,
		})
		return true
	}
	s.internalError(w, r, err)
	return false
}

type areasResponse struct {
	Areas      []models.Area `json:"areas"`
	SelectedID string        `json:"selected_id,omitempty"`
}

// ListAreasHandler returns the visitor's areas as JSON.
func (s *Server) ListAreasHandler(w http.ResponseWriter, r *http.Request, visit *auth.Visit, p *portal.Portal) {
	w.Header().Set("Content-Type", "application/json")

	if !p.Gate.IsAuthenticated() {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "login required"})
		return
	}

	resp := areasResponse{Areas: p.Areas.List()}
	if selected, ok := p.Areas.Selected(); ok {
		resp.SelectedID = selected.ID
	}
	json.NewEncoder(w).Encode(resp)
}

// NotFoundHandler renders the not found page and logs the path that was asked for.
func (s *Server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.log.WithField("path", r.URL.Path).Warn("404 Error: User attempted to access non-existent route")

	s.render(w, r, http.StatusNotFound, "notfound", notFoundPage{
		layoutData: layoutData{Title: "Page not found"},
		Path:       r.URL.Path,
	})
}
