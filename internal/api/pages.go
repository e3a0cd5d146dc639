package api

import (
	"embed"
	"html/template"
	"time"

	"github.com/pkg/errors"

	"wasteportal/internal/forms"
	"wasteportal/internal/models"
	"wasteportal/internal/portal"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "dashboard", "notfound"}

var templateFuncs = template.FuncMap{
	"year": func() int { return time.Now().Year() },
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s page", name)
		}
		pages[name] = t
	}
	return pages, nil
}

type layoutData struct {
	Title   string
	Notices []models.Notice
}

type loginPage struct {
	layoutData
	Submitting bool
}

type tab struct {
	ID    string
	Label string
}

var dashboardTabs = []tab{
	{ID: "areas", Label: "Areas"},
	{ID: "statistics", Label: "Statistics"},
	{ID: "support", Label: "Support"},
	{ID: "survey", Label: "Survey"},
}

func tabOrDefault(id string) string {
	for _, t := range dashboardTabs {
		if t.ID == id {
			return id
		}
	}
	return dashboardTabs[0].ID
}

type dashboardPage struct {
	layoutData
	portal.Dashboard

	Tab       string
	Tabs      []tab
	AreaCount string

	IssueOptions      []forms.IssueOption
	Contacts          []forms.Contact
	Questions         []forms.Question
	SuggestionsPrompt string
	RewardPoints      int
}

type notFoundPage struct {
	layoutData
	Path string
}
