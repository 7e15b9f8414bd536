package http_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/cisboard/pkg/controller/http"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/export"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/xuri/excelize/v2"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func fixedClock() time.Time {
	return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
}

type testEnv struct {
	uc     *usecase.UseCases
	server *httpctrl.Server
	org    *model.Organization
}

// newNoAuthEnv serves as a synthesized platform admin
func newNoAuthEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithAuth(usecase.NewNoAuthnUseCase(repo, "admin@example.com")))
	return newEnv(t, uc)
}

func newAuthEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memory.New()
	auth, err := usecase.NewAuthUseCase(repo, testSecret)
	gt.NoError(t, err).Required()
	uc := usecase.New(repo, usecase.WithAuth(auth))
	return newEnv(t, uc)
}

func newEnv(t *testing.T, uc *usecase.UseCases) *testEnv {
	t.Helper()
	server, err := httpctrl.New(uc, httpctrl.WithClock(fixedClock))
	gt.NoError(t, err).Required()

	org, err := uc.Organization.CreateOrganization(context.Background(), "Acme Corp", "acme")
	gt.NoError(t, err).Required()
	return &testEnv{uc: uc, server: server, org: org}
}

func (e *testEnv) addAssessment(t *testing.T, date string, scores map[int]int) *model.Assessment {
	t.Helper()
	d, err := model.ParseDate(date)
	gt.NoError(t, err).Required()
	a := &model.Assessment{OrganizationID: e.org.ID, AssessmentDate: d}
	for n, v := range scores {
		a.Controls.Set(n, cis18.Score(v))
	}
	created, err := e.uc.Assessment.CreateAssessment(context.Background(), a)
	gt.NoError(t, err).Required()
	return created
}

func (e *testEnv) addUser(t *testing.T, email string, role types.UserRole) *model.User {
	t.Helper()
	input := usecase.CreateUserInput{Email: email, Name: email, Password: "correct-horse", Role: role}
	if role != types.UserRolePlatformAdmin {
		input.OrganizationID = e.org.ID
	}
	u, err := e.uc.User.CreateUser(context.Background(), input)
	gt.NoError(t, err).Required()
	return u
}

// login returns the session cookie of email
func (e *testEnv) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	w := e.do(nil, http.MethodPost, "/login", url.Values{"email": {email}, "password": {"correct-horse"}})
	gt.Value(t, w.Code).Equal(http.StatusSeeOther)
	for _, c := range w.Result().Cookies() {
		if c.Name == usecase.SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie was not set")
	return nil
}

func (e *testEnv) do(cookie *http.Cookie, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(cookie *http.Cookie, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func TestNewRequiresAuth(t *testing.T) {
	_, err := httpctrl.New(usecase.New(memory.New()))
	gt.Value(t, err).NotNil()
}

func TestHealthz(t *testing.T) {
	env := newNoAuthEnv(t)
	w := env.do(nil, http.MethodGet, "/healthz", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains(`"success":true`)
}

func TestAuthentication(t *testing.T) {
	env := newAuthEnv(t)
	env.addUser(t, "mia@example.com", types.UserRoleMember)
	dashboard := "/orgs/" + env.org.ID.String() + "/"

	t.Run("page without session redirects to login", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, dashboard, nil)
		gt.Value(t, w.Code).Equal(http.StatusSeeOther)
		gt.String(t, w.Header().Get("Location")).Contains("/login?next=")
	})

	t.Run("api without session is 401", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, "/api/me", nil)
		gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
		gt.String(t, w.Body.String()).Contains("Authentication required")
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, "/login", url.Values{"email": {"mia@example.com"}, "password": {"nope-nope"}})
		gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
		gt.String(t, w.Body.String()).Contains("Invalid email or password.")
	})

	t.Run("session grants access", func(t *testing.T) {
		cookie := env.login(t, "mia@example.com")
		gt.Bool(t, cookie.HttpOnly).True()

		w := env.do(cookie, http.MethodGet, "/", nil)
		gt.Value(t, w.Code).Equal(http.StatusSeeOther)
		gt.Value(t, w.Header().Get("Location")).Equal("/orgs/" + env.org.ID.String())

		w = env.do(cookie, http.MethodGet, dashboard, nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains("Acme Corp")

		w = env.do(cookie, http.MethodGet, "/api/me", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		var me map[string]string
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &me)).Required()
		gt.Value(t, me["email"]).Equal("mia@example.com")
		gt.Value(t, me["role"]).Equal("member")
	})

	t.Run("tampered session is rejected", func(t *testing.T) {
		cookie := &http.Cookie{Name: usecase.SessionCookieName, Value: "not-a-token"}
		w := env.do(cookie, http.MethodGet, "/api/me", nil)
		gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("login keeps the next path on this site", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, "/login", url.Values{
			"email": {"mia@example.com"}, "password": {"correct-horse"}, "next": {"//evil.example.com/"},
		})
		gt.Value(t, w.Code).Equal(http.StatusSeeOther)
		gt.Value(t, w.Header().Get("Location")).Equal("/")
	})
}

func TestAuthorization(t *testing.T) {
	env := newAuthEnv(t)
	env.addUser(t, "member@example.com", types.UserRoleMember)
	env.addUser(t, "owner@example.com", types.UserRoleOrgAdmin)
	other, err := env.uc.Organization.CreateOrganization(context.Background(), "Other", "other")
	gt.NoError(t, err).Required()

	member := env.login(t, "member@example.com")
	owner := env.login(t, "owner@example.com")
	orgPath := "/orgs/" + env.org.ID.String()

	t.Run("other organization is forbidden", func(t *testing.T) {
		w := env.do(member, http.MethodGet, "/orgs/"+other.ID.String()+"/", nil)
		gt.Value(t, w.Code).Equal(http.StatusForbidden)
	})

	t.Run("malformed organization id is not found", func(t *testing.T) {
		w := env.do(member, http.MethodGet, "/orgs/%20/", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})

	t.Run("members cannot open the entry form", func(t *testing.T) {
		w := env.do(member, http.MethodGet, orgPath+"/assessments/new", nil)
		gt.Value(t, w.Code).Equal(http.StatusForbidden)
		w = env.do(owner, http.MethodGet, orgPath+"/assessments/new", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
	})

	t.Run("members cannot create through the api", func(t *testing.T) {
		w := env.doJSON(member, http.MethodPost, "/api"+orgPath+"/assessments", `{"assessment_date":"2025-03-01","controls":{"1":50}}`)
		gt.Value(t, w.Code).Equal(http.StatusForbidden)
	})

	t.Run("admin pages need a platform admin", func(t *testing.T) {
		w := env.do(owner, http.MethodGet, "/admin/", nil)
		gt.Value(t, w.Code).Equal(http.StatusForbidden)
	})
}

func TestDashboardModes(t *testing.T) {
	env := newNoAuthEnv(t)
	env.addAssessment(t, "2025-01-15", map[int]int{1: 40, 2: 60})
	env.addAssessment(t, "2025-03-01", map[int]int{1: 70, 2: 80})
	base := "/orgs/" + env.org.ID.String() + "/"

	t.Run("cards", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base, nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		body := w.Body.String()
		gt.String(t, body).Contains("2025-03-01")
		gt.String(t, body).Contains("Basic Controls")
		gt.String(t, body).Contains("trend-up")
	})

	t.Run("table", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base+"?mode=table&sort=totalScore&dir=asc", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		body := w.Body.String()
		gt.String(t, body).Contains("2 of 2 assessments")
		gt.String(t, body).Contains("sorted asc")
		gt.String(t, body).Contains("format=csv")
	})

	t.Run("table filter", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base+"?mode=table&q=2025-01", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains("1 of 2 assessments")
	})

	t.Run("comparison", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base+"?mode=comparison", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		body := w.Body.String()
		gt.String(t, body).Contains("2 improved")
		gt.String(t, body).Contains("+30")
		gt.String(t, body).Contains(`<td class="bar"><span style="width: 40%"></span></td>`)
		gt.String(t, body).Contains(`<td class="bar"><span style="width: 70%"></span></td>`)
	})

	t.Run("unknown mode falls back to cards", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base+"?mode=bogus", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains("Basic Controls")
	})
}

func TestEmptyDashboard(t *testing.T) {
	env := newNoAuthEnv(t)
	w := env.do(nil, http.MethodGet, "/orgs/"+env.org.ID.String()+"/?mode=comparison", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains("No assessments yet.")
}

func TestExport(t *testing.T) {
	env := newNoAuthEnv(t)
	env.addAssessment(t, "2025-03-01", map[int]int{1: 70, 2: 80, 3: 60})
	base := "/orgs/" + env.org.ID.String() + "/export"

	t.Run("csv", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base+"?format=csv", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Header().Get("Content-Type")).Contains("text/csv")
		gt.Value(t, w.Header().Get("Content-Disposition")).
			Equal(`attachment; filename="cis18-assessment-2025-04-01.csv"`)
		gt.String(t, w.Body.String()).Contains(`"2025-03-01","70","70","80","60"`)
	})

	t.Run("xlsx", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base+"?format=xlsx", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Header().Get("Content-Disposition")).Contains("cis18-assessment-2025-04-01.xlsx")
		gt.Value(t, w.Body.Len() > 0).Equal(true)
	})

	t.Run("unknown format", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base+"?format=pdf", nil)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})
}

func TestColumnToggle(t *testing.T) {
	env := newNoAuthEnv(t)
	path := "/orgs/" + env.org.ID.String() + "/columns"

	w := env.do(nil, http.MethodPost, path, url.Values{"column": {"control1"}, "return": {"sort=totalScore&dir=asc"}})
	gt.Value(t, w.Code).Equal(http.StatusSeeOther)
	gt.String(t, w.Header().Get("Location")).Contains("mode=table")
	gt.String(t, w.Header().Get("Location")).Contains("sort=totalScore")

	w = env.do(nil, http.MethodGet, "/api/me/columns", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).NotContains(`"control1"`)
	gt.String(t, w.Body.String()).Contains(`"control2"`)

	w = env.do(nil, http.MethodPost, path, url.Values{"column": {"control18"}, "visible": {"1"}})
	gt.Value(t, w.Code).Equal(http.StatusSeeOther)
	w = env.do(nil, http.MethodGet, "/api/me/columns", nil)
	gt.String(t, w.Body.String()).Contains(`"control18"`)

	w = env.do(nil, http.MethodPost, path, url.Values{"column": {"control99"}, "visible": {"1"}})
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
}

func TestTableActions(t *testing.T) {
	env := newNoAuthEnv(t)
	first := env.addAssessment(t, "2025-01-15", map[int]int{1: 40, 2: 60})
	env.addAssessment(t, "2025-03-01", map[int]int{1: 70, 2: 80})
	orgPath := "/orgs/" + env.org.ID.String()

	w := env.doJSON(nil, http.MethodPut, "/api/me/columns", `{"visible_columns":["totalScore","control1","control2"]}`)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	t.Run("every row has an actions cell", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, orgPath+"/?mode=table", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		body := w.Body.String()
		gt.Value(t, strings.Count(body, `<td class="actions">`)).Equal(2)
		gt.Value(t, strings.Count(body, `<th class="actions">`)).Equal(1)
		gt.String(t, body).Contains(`data-href="` + orgPath + "/assessments/" + first.ID.String() + `"`)
		gt.String(t, body).Contains(`action="` + orgPath + "/assessments/" + first.ID.String() + `/delete"`)
		gt.String(t, body).Contains("data-confirm")
	})

	t.Run("csv header has only the visible columns", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, orgPath+"/export?format=csv", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(3)
		gt.Array(t, records[0]).Length(4)
		for _, rec := range records {
			gt.Array(t, rec).Length(4)
		}
	})

	t.Run("xlsx header has only the visible columns", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, orgPath+"/export?format=xlsx", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		f, err := excelize.OpenReader(w.Body)
		gt.NoError(t, err).Required()
		defer func() { _ = f.Close() }()
		rows, err := f.GetRows(export.SheetAssessments)
		gt.NoError(t, err).Required()
		gt.Array(t, rows).Length(3)
		gt.Array(t, rows[0]).Length(4)
	})
}

func TestTableActionsForMembers(t *testing.T) {
	env := newAuthEnv(t)
	env.addUser(t, "member@example.com", types.UserRoleMember)
	env.addAssessment(t, "2025-03-01", map[int]int{1: 70})
	member := env.login(t, "member@example.com")

	w := env.do(member, http.MethodGet, "/orgs/"+env.org.ID.String()+"/?mode=table", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	body := w.Body.String()
	gt.Value(t, strings.Count(body, `<td class="actions">`)).Equal(1)
	gt.String(t, body).NotContains("/delete")
}

func TestEntryForm(t *testing.T) {
	env := newNoAuthEnv(t)
	base := "/orgs/" + env.org.ID.String()

	t.Run("defaults", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base+"/assessments/new", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		body := w.Body.String()
		gt.String(t, body).Contains(`value="2025-04-01"`)
		gt.String(t, body).Contains(`name="control18"`)
	})

	t.Run("submit", func(t *testing.T) {
		form := url.Values{"assessmentDate": {"2025-03-15"}}
		for i := 1; i <= types.ControlCount; i++ {
			form.Set(types.ControlColumn(i).String(), "80")
		}
		form.Set("control1", "150")
		w := env.do(nil, http.MethodPost, base+"/assessments", form)
		gt.Value(t, w.Code).Equal(http.StatusSeeOther)
		gt.String(t, w.Header().Get("Location")).Contains("notice=created")

		latest, err := env.uc.Assessment.GetLatestAssessment(context.Background(), env.org.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, latest.DateString()).Equal("2025-03-15")
		gt.Value(t, *latest.Controls.Get(1)).Equal(100)
		gt.Value(t, latest.ImportMethod).Equal(types.ImportMethodManual)
	})
}

func TestAssessmentPages(t *testing.T) {
	env := newNoAuthEnv(t)
	a := env.addAssessment(t, "2025-03-01", map[int]int{1: 70})
	base := "/orgs/" + env.org.ID.String() + "/assessments/"

	w := env.do(nil, http.MethodGet, base+a.ID.String(), nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains("Assessment 2025-03-01")

	w = env.do(nil, http.MethodPost, base+a.ID.String()+"/delete", nil)
	gt.Value(t, w.Code).Equal(http.StatusSeeOther)

	w = env.do(nil, http.MethodGet, base+a.ID.String(), nil)
	gt.Value(t, w.Code).Equal(http.StatusNotFound)
}

func TestAssessmentAPI(t *testing.T) {
	env := newNoAuthEnv(t)
	base := "/api/orgs/" + env.org.ID.String() + "/assessments"

	w := env.do(nil, http.MethodGet, base+"/latest", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains(`"assessment":null`)

	w = env.doJSON(nil, http.MethodPost, base, `{"assessment_date":"2025-03-01","controls":{"1":60,"2":80}}`)
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	var created struct {
		ID         string `json:"id"`
		TotalScore *int   `json:"total_score"`
		Controls   []*int `json:"controls"`
	}
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &created)).Required()
	gt.Value(t, *created.TotalScore).Equal(70)
	gt.Array(t, created.Controls).Length(types.ControlCount)
	gt.Value(t, created.Controls[2]).Nil()

	t.Run("patch clears a control with null", func(t *testing.T) {
		w := env.doJSON(nil, http.MethodPatch, base+"/"+created.ID, `{"controls":{"1":null,"3":40}}`)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		var updated struct {
			TotalScore *int   `json:"total_score"`
			Controls   []*int `json:"controls"`
		}
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated)).Required()
		gt.Value(t, updated.Controls[0]).Nil()
		gt.Value(t, *updated.TotalScore).Equal(60)
	})

	t.Run("out of range score", func(t *testing.T) {
		w := env.doJSON(nil, http.MethodPatch, base+"/"+created.ID, `{"controls":{"1":101}}`)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unknown control", func(t *testing.T) {
		w := env.doJSON(nil, http.MethodPatch, base+"/"+created.ID, `{"controls":{"19":10}}`)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := env.doJSON(nil, http.MethodPost, base, `{"assessment_date":`)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("list and latest", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, base, nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains(created.ID)

		w = env.do(nil, http.MethodGet, base+"/latest", nil)
		gt.String(t, w.Body.String()).Contains(`"assessment_date":"2025-03-01"`)
	})

	t.Run("delete", func(t *testing.T) {
		w := env.do(nil, http.MethodDelete, base+"/"+created.ID, nil)
		gt.Value(t, w.Code).Equal(http.StatusNoContent)

		w = env.do(nil, http.MethodGet, base+"/"+created.ID, nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})
}

func TestChatDisabled(t *testing.T) {
	env := newNoAuthEnv(t)
	w := env.doJSON(nil, http.MethodPost, "/api/orgs/"+env.org.ID.String()+"/chat", `{"message":"hi"}`)
	gt.Value(t, w.Code).Equal(http.StatusServiceUnavailable)
}

func TestPublicLeadForm(t *testing.T) {
	env := newNoAuthEnv(t)

	t.Run("unknown slug", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, "/public/orgs/nobody/leads", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})

	t.Run("form", func(t *testing.T) {
		w := env.do(nil, http.MethodGet, "/public/orgs/acme/leads", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains(`value="201-1000"`)
	})

	t.Run("invalid email keeps the values", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, "/public/orgs/acme/leads", url.Values{"name": {"Ken"}, "email": {"not-an-email"}})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		gt.String(t, w.Body.String()).Contains(`value="Ken"`)
	})

	t.Run("submit", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, "/public/orgs/acme/leads", url.Values{
			"name": {"Ken"}, "email": {"ken@example.com"}, "company_size": {"51-200"}, "security_maturity": {"basic"},
		})
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains("Thank you")

		leads, err := env.uc.Lead.ListScoredLeads(context.Background(), env.org.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, leads).Length(1)
		gt.Value(t, leads[0].Status).Equal(model.LeadStatusNew)

		w = env.do(nil, http.MethodGet, "/orgs/"+env.org.ID.String()+"/leads", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains("ken@example.com")
	})
}

func TestContactForm(t *testing.T) {
	env := newNoAuthEnv(t)

	w := env.do(nil, http.MethodPost, "/contact", url.Values{"name": {"Ken"}, "email": {"ken@example.com"}})
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)

	w = env.do(nil, http.MethodPost, "/contact", url.Values{
		"name": {"Ken"}, "email": {"ken@example.com"}, "subject": {"Pricing"}, "body": {"How much?"},
	})
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains("Your message has been sent.")

	w = env.do(nil, http.MethodGet, "/admin/messages", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains("Pricing")
}

func TestAdmin(t *testing.T) {
	env := newNoAuthEnv(t)

	t.Run("create organization", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, "/admin/orgs", url.Values{"name": {"Beta"}, "slug": {"beta"}})
		gt.Value(t, w.Code).Equal(http.StatusSeeOther)

		w = env.do(nil, http.MethodGet, "/admin/", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains("Beta")
	})

	t.Run("duplicated slug", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, "/admin/orgs", url.Values{"name": {"Acme 2"}, "slug": {"acme"}})
		gt.Value(t, w.Code).Equal(http.StatusConflict)
		gt.String(t, w.Body.String()).Contains("The slug is already in use.")
	})

	t.Run("create user", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, "/admin/users", url.Values{
			"email": {"new@example.com"}, "name": {"New"}, "password": {"long-enough"},
			"role": {"member"}, "organization_id": {env.org.ID.String()},
		})
		gt.Value(t, w.Code).Equal(http.StatusSeeOther)

		w = env.do(nil, http.MethodGet, "/admin/users", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.String(t, w.Body.String()).Contains("new@example.com")
	})

	t.Run("weak password", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, "/admin/users", url.Values{
			"email": {"weak@example.com"}, "password": {"short"}, "role": {"platform_admin"},
		})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		gt.String(t, w.Body.String()).Contains("The password is too short.")
	})
}

func TestServiceRequests(t *testing.T) {
	env := newAuthEnv(t)
	env.addUser(t, "member@example.com", types.UserRoleMember)
	env.addUser(t, "owner@example.com", types.UserRoleOrgAdmin)
	member := env.login(t, "member@example.com")
	owner := env.login(t, "owner@example.com")
	base := "/orgs/" + env.org.ID.String() + "/service-requests"

	w := env.do(member, http.MethodPost, base, url.Values{"service": {"training"}, "details": {"Phishing drill"}})
	gt.Value(t, w.Code).Equal(http.StatusSeeOther)

	w = env.do(member, http.MethodPost, base, url.Values{"service": {"catering"}})
	gt.Value(t, w.Code).Equal(http.StatusBadRequest)

	reqs, err := env.uc.ServiceRequest.ListServiceRequests(context.Background(), env.org.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, reqs).Length(1)
	statusPath := base + "/" + reqs[0].ID.String() + "/status"

	w = env.do(member, http.MethodPost, statusPath, url.Values{"status": {"done"}})
	gt.Value(t, w.Code).Equal(http.StatusForbidden)

	w = env.do(owner, http.MethodPost, statusPath, url.Values{"status": {"done"}})
	gt.Value(t, w.Code).Equal(http.StatusSeeOther)

	w = env.do(member, http.MethodGet, base, nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains("Phishing drill")
}

func TestEmailSettings(t *testing.T) {
	env := newNoAuthEnv(t)
	base := "/orgs/" + env.org.ID.String() + "/settings/email"

	w := env.do(nil, http.MethodGet, base, nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	w = env.do(nil, http.MethodPost, base, url.Values{
		"kind": {"sendgrid"}, "from_address": {"noreply@example.com"}, "api_key": {"SG.secret"},
	})
	gt.Value(t, w.Code).Equal(http.StatusSeeOther)

	w = env.do(nil, http.MethodGet, base, nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).NotContains("SG.secret")
	gt.String(t, w.Body.String()).Contains(model.MaskedSecret)

	t.Run("missing api key", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, base, url.Values{"kind": {"resend"}, "from_address": {"noreply@example.com"}})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("test without sender", func(t *testing.T) {
		w := env.do(nil, http.MethodPost, base+"/test", url.Values{"to": {"ops@example.com"}})
		gt.Value(t, w.Code).Equal(http.StatusConflict)
	})
}
