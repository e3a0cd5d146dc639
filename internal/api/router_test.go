package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wasteportal/internal/auth"
	"wasteportal/internal/crypto"
	"wasteportal/internal/models"
	"wasteportal/internal/portal"
)

func newTestServer(t *testing.T, opts portal.Options) *httptest.Server {
	t.Helper()
	ts, _ := newLoggedTestServer(t, opts)
	return ts
}

func newLoggedTestServer(t *testing.T, opts portal.Options) (*httptest.Server, *logtest.Hook) {
	t.Helper()

	keys, err := crypto.DeriveCookieKeys(bytes.Repeat([]byte("t"), crypto.SecretSize))
	require.NoError(t, err)

	log, hook := logtest.NewNullLogger()

	store := portal.NewStore(time.Minute, opts)
	t.Cleanup(store.Close)

	srv, err := NewServer(log, auth.NewSessions(keys, false), store)
	require.NoError(t, err)

	ts := httptest.NewServer(NewRouter(srv))
	t.Cleanup(ts.Close)
	return ts, hook
}

type visitor struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newVisitor(t *testing.T, ts *httptest.Server) *visitor {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &visitor{t: t, base: ts.URL, client: &http.Client{Jar: jar}}
}

func (v *visitor) get(path string) (*http.Response, *goquery.Document) {
	resp, err := v.client.Get(v.base + path)
	require.NoError(v.t, err)
	return resp, parse(v.t, resp)
}

func (v *visitor) post(path string, values url.Values) (*http.Response, *goquery.Document) {
	resp, err := v.client.PostForm(v.base+path, values)
	require.NoError(v.t, err)
	return resp, parse(v.t, resp)
}

func (v *visitor) login() *goquery.Document {
	_, doc := v.post("/login", url.Values{"areaId": {"area001"}, "password": {"secret"}})
	require.Equal(v.t, 1, doc.Find("nav.tabs").Length(), "dashboard expected after login")
	return doc
}

func parse(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func noticeText(doc *goquery.Document, severity string) string {
	return strings.TrimSpace(doc.Find(".notice-" + severity).Text())
}

func areaNames(doc *goquery.Document) []string {
	return doc.Find(".area .area-name").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
}

func TestIndexShowsLoginToAnonymousVisitor(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)

	resp, doc := v.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, doc.Find("form[action='/login']").Length())
	assert.Equal(t, 0, doc.Find("nav.tabs").Length())
	assert.Equal(t, "Login", strings.TrimSpace(doc.Find("#login button").Text()))
}

func TestLoginWithEmptyFieldShowsNotice(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)

	for _, values := range []url.Values{
		{"areaId": {""}, "password": {"x"}},
		{"areaId": {"area001"}, "password": {"   "}},
	} {
		_, doc := v.post("/login", values)

		assert.Contains(t, noticeText(doc, "destructive"), "Please enter both Area ID and Password")
		assert.Equal(t, 1, doc.Find("#login").Length())
	}

	// the notice is shown once
	_, doc := v.get("/")
	assert.Equal(t, 0, doc.Find(".notice").Length())
}

func TestLoginAcceptsAnyCredentials(t *testing.T) {
	ts := newTestServer(t, portal.Options{LoginDelay: 10 * time.Millisecond})

	for _, creds := range [][2]string{{"area001", "x"}, {"zzz", "1"}} {
		v := newVisitor(t, ts)
		_, doc := v.post("/login", url.Values{"areaId": {creds[0]}, "password": {creds[1]}})

		assert.Equal(t, "active", doc.Find("#tab-areas").AttrOr("class", ""))
		assert.Equal(t, []string{"Shivajinagar", "Kothrud", "Aundh"}, areaNames(doc))
		assert.Contains(t, doc.Find("#areas .count").Text(), "3 areas")
	}
}

func TestAbandonedLoginLeavesGateClosed(t *testing.T) {
	ts := newTestServer(t, portal.Options{LoginDelay: time.Hour})
	v := newVisitor(t, ts)
	v.get("/")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.URL+"/login",
		strings.NewReader(url.Values{"areaId": {"area001"}, "password": {"x"}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err = v.client.Do(req)
	require.Error(t, err)

	assert.Eventually(t, func() bool {
		_, doc := v.get("/")
		return doc.Find("#login button[disabled]").Length() == 0
	}, time.Second, 10*time.Millisecond)

	_, doc := v.get("/")
	assert.Equal(t, 1, doc.Find("#login").Length())
}

func TestAddArea(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)
	v.login()

	_, doc := v.post("/areas", url.Values{"name": {"Baner"}})
	assert.Equal(t, []string{"Shivajinagar", "Kothrud", "Aundh", "Baner"}, areaNames(doc))
	assert.Contains(t, noticeText(doc, "success"), `Area "Baner" has been added successfully`)

	card := doc.Find(".area").Last()
	assert.Contains(t, card.Text(), "Wet: 25% Dry: 25%")
	assert.Contains(t, card.Text(), "Hazardous: 25% Recycled: 25%")
}

func TestAddAreaWithLongName(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)
	v.login()
	name := strings.Repeat("B", 3000)

	v.client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := v.client.PostForm(v.base+"/areas", url.Values{"name": {name}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?tab=areas", resp.Header.Get("Location"))
	v.client.CheckRedirect = nil

	_, doc := v.get("/?tab=areas")
	assert.Contains(t, noticeText(doc, "success"), `Area "`+name+`" has been added successfully`)
	assert.Equal(t, name, areaNames(doc)[3])
}

func TestAddAreaRejectsBlankName(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)
	v.login()

	for _, name := range []string{"", "   "} {
		_, doc := v.post("/areas", url.Values{"name": {name}})
		assert.Len(t, areaNames(doc), 3)
		assert.Contains(t, noticeText(doc, "destructive"), "Please enter an area name")
	}
}

func TestEmptyRegistryMessage(t *testing.T) {
	ts := newTestServer(t, portal.Options{Seed: []models.Area{}})
	v := newVisitor(t, ts)
	doc := v.login()

	assert.Contains(t, doc.Find("#areas .empty").Text(), "No areas found")
	assert.Contains(t, doc.Find("#areas .count").Text(), "0 areas")
}

func TestSelectArea(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)
	v.login()

	_, doc := v.post("/areas/area002/select", nil)
	detail := doc.Find("#area-detail")
	require.Equal(t, 1, detail.Length())
	assert.Equal(t, "Kothrud - Waste Segregation", detail.Find("h2").Text())
	assert.Equal(t, "10%", detail.Find("[data-kind=hazardous] .percent").Text())
	assert.Equal(t, "width: 40%", detail.Find("[data-kind=wet] .bar").AttrOr("style", ""))

	_, doc = v.post("/areas/area003/select", nil)
	_, doc = v.post("/areas/area003/select", nil)
	assert.Equal(t, 1, doc.Find("#area-detail").Length())
	assert.Equal(t, "Aundh - Waste Segregation", doc.Find("#area-detail h2").Text())

	selected := doc.Find(".area.selected")
	require.Equal(t, 1, selected.Length())
	assert.Equal(t, "area003", selected.AttrOr("data-id", ""))
}

func TestSelectUnknownArea(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)
	v.login()

	resp, doc := v.post("/areas/area999/select", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, doc.Find("#not-found").Length())
}

func TestDashboardActionsNeedLogin(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)

	_, doc := v.post("/areas", url.Values{"name": {"Baner"}})
	assert.Equal(t, 1, doc.Find("#login").Length())

	doc = v.login()
	assert.Len(t, areaNames(doc), 3)
}

func TestFormsOnlyAcknowledge(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)
	v.login()
	v.post("/areas/area001/select", nil)
	before := v.areasJSON()

	_, doc := v.post("/support", url.Values{
		"name": {"Asha"}, "email": {"asha@example.com"}, "issue": {"technical"}, "message": {"help"},
	})
	assert.Equal(t, "active", doc.Find("#tab-support").AttrOr("class", ""))
	assert.Contains(t, noticeText(doc, "default"), "We will get back to you within 24 hours.")

	_, doc = v.post("/survey", url.Values{"q1": {"always"}, "q2": {"space", "time"}, "q3": {"neutral"}})
	assert.Equal(t, "active", doc.Find("#tab-survey").AttrOr("class", ""))
	assert.Contains(t, noticeText(doc, "default"), "You've earned 50 reward points.")

	assert.Equal(t, before, v.areasJSON())
	_, doc = v.get("/")
	assert.Equal(t, 1, doc.Find("nav.tabs").Length())
}

func TestFormsRejectUnknownValues(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)
	v.login()

	_, doc := v.post("/support", url.Values{"issue": {"billing"}})
	assert.NotEmpty(t, noticeText(doc, "destructive"))

	_, doc = v.post("/survey", url.Values{"q1": {"always", "never"}})
	assert.NotEmpty(t, noticeText(doc, "destructive"))
}

func TestTabsRender(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)
	v.login()

	_, doc := v.get("/?tab=statistics")
	values := doc.Find("#statistics .metric .value").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"25%", "15 tons", "85%"}, values)
	assert.Equal(t, 4, doc.Find("#statistics .share").Length())

	_, doc = v.get("/?tab=support")
	assert.Equal(t, 5, doc.Find("#issue option").Length())
	assert.Contains(t, doc.Find("#contacts").Text(), "1800-123-4567")

	_, doc = v.get("/?tab=survey")
	assert.Equal(t, 3, doc.Find("#survey .question").Length())
	assert.Equal(t, 5, doc.Find("#survey input[type=checkbox]").Length())
	assert.Equal(t, 10, doc.Find("#survey input[type=radio]").Length())

	_, doc = v.get("/?tab=bogus")
	assert.Equal(t, "active", doc.Find("#tab-areas").AttrOr("class", ""))
}

func (v *visitor) areasJSON() areasResponse {
	resp, err := v.client.Get(v.base + "/api/areas")
	require.NoError(v.t, err)
	defer resp.Body.Close()
	require.Equal(v.t, http.StatusOK, resp.StatusCode)

	var out areasResponse
	require.NoError(v.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListAreasAPI(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)

	resp, err := v.client.Get(ts.URL + "/api/areas")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	v.login()
	v.post("/areas/area003/select", nil)

	out := v.areasJSON()
	assert.Len(t, out.Areas, 3)
	assert.Equal(t, "area003", out.SelectedID)
}

func TestVisitorsAreIsolated(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	a := newVisitor(t, ts)
	b := newVisitor(t, ts)

	a.login()
	a.post("/areas", url.Values{"name": {"Baner"}})

	_, doc := b.get("/")
	assert.Equal(t, 1, doc.Find("#login").Length())
	assert.Len(t, areaNames(b.login()), 3)
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)

	resp, doc := v.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "404", doc.Find("#not-found h1").Text())
	assert.Equal(t, "/", doc.Find("#not-found a").AttrOr("href", ""))
}

func TestWrongMethodShowsNotFound(t *testing.T) {
	ts := newTestServer(t, portal.Options{})
	v := newVisitor(t, ts)

	for _, path := range []string{"/login", "/areas", "/support", "/survey"} {
		resp, doc := v.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "404", doc.Find("#not-found h1").Text(), path)
	}
}

func TestUnmatchedRequestsAreLogged(t *testing.T) {
	ts, hook := newLoggedTestServer(t, portal.Options{})
	v := newVisitor(t, ts)

	v.get("/no/such/page")
	v.get("/login")

	logged := func(path string) bool {
		for _, e := range hook.AllEntries() {
			if e.Message == "request" && e.Data["path"] == path && e.Data["status"] == http.StatusNotFound {
				return true
			}
		}
		return false
	}
	assert.Eventually(t, func() bool {
		return logged("/no/such/page") && logged("/login")
	}, time.Second, 10*time.Millisecond)

	warned := hook.AllEntries()
	assert.Condition(t, func() bool {
		for _, e := range warned {
			if e.Level == logrus.WarnLevel && e.Data["path"] == "/login" {
				return true
			}
		}
		return false
	})
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, portal.Options{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK\n", string(body))
}
