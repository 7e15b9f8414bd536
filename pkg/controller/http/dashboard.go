package http

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/export"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/errutil"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"github.com/secmon-lab/cisboard/pkg/utils/safe"
	"github.com/secmon-lab/cisboard/pkg/view"
	"golang.org/x/sync/errgroup"
)

type accessCheck func(*model.User, types.OrganizationID) error

// orgAccess resolves {orgID} and applies check to the current user
func (s *Server) orgAccess(r *http.Request, check accessCheck) (*model.User, types.OrganizationID, error) {
	orgID := types.OrganizationID(chi.URLParam(r, "orgID"))
	if err := orgID.Validate(); err != nil {
		return nil, "", goerr.Wrap(usecase.ErrNotFound, "malformed organization id", goerr.V(usecase.OrganizationIDKey, orgID))
	}
	u := userFrom(r.Context())
	if err := check(u, orgID); err != nil {
		return nil, "", err
	}
	return u, orgID, nil
}

type dashboardData struct {
	Dashboard   *view.Dashboard
	TableQuery  string
	CanAdmin    bool
	ChatEnabled bool
}

func (s *Server) dashboardPage(w http.ResponseWriter, r *http.Request) {
	u, orgID, err := s.orgAccess(r, usecase.RequireOrgMember)
	if err != nil {
		errorPage(w, r, err)
		return
	}

	var (
		org     *model.Organization
		list    []*model.Assessment
		visible []types.ColumnID
	)
	eg, ctx := errgroup.WithContext(r.Context())
	eg.Go(func() error {
		var err error
		org, err = s.uc.Organization.GetOrganization(ctx, orgID)
		return err
	})
	eg.Go(func() error {
		var err error
		list, err = s.uc.Assessment.ListAssessments(ctx, orgID)
		return err
	})
	eg.Go(func() error {
		var err error
		visible, err = s.uc.Preference.VisibleColumns(ctx, u.ID)
		return err
	})
	if err := eg.Wait(); err != nil {
		errorPage(w, r, err)
		return
	}

	q := r.URL.Query()
	tq := view.ParseTableQuery(q)
	d := view.BuildDashboard(view.DashboardInput{
		Mode:        types.ParseViewMode(q.Get("mode")),
		Assessments: list,
		Visible:     visible,
		Query:       tq,
		LeftID:      types.AssessmentID(q.Get("left")),
		RightID:     types.AssessmentID(q.Get("right")),
		Locale:      s.locale,
	})

	s.render.page(w, r, http.StatusOK, "dashboard.html", &pageData{
		Title:  org.Name,
		Org:    org,
		Notice: noticeOf(r),
		Data: dashboardData{
			Dashboard:   d,
			TableQuery:  tq.Values().Encode(),
			CanAdmin:    u.CanAdmin(orgID),
			ChatEnabled: s.uc.Chat.Enabled(),
		},
	})
}

// columnToggle persists one column visibility change and returns to the table
func (s *Server) columnToggle(w http.ResponseWriter, r *http.Request) {
	u, orgID, err := s.orgAccess(r, usecase.RequireOrgMember)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		errorPage(w, r, goerr.Wrap(model.ErrInvalidFormat, "malformed form", goerr.V("error", err.Error())))
		return
	}

	col, err := types.ParseColumnID(r.PostForm.Get("column"))
	if err != nil {
		errorPage(w, r, err)
		return
	}
	visible := r.PostForm.Get("visible") == "1"
	if _, err := s.uc.Preference.SetColumnVisible(r.Context(), u.ID, col, visible); err != nil {
		errorPage(w, r, err)
		return
	}

	back := view.DefaultTableQuery()
	if v, err := url.ParseQuery(r.PostForm.Get("return")); err == nil {
		back = view.ParseTableQuery(v)
	}
	http.Redirect(w, r, orgPath(orgID, "?mode=table&"+back.Values().Encode()), http.StatusSeeOther)
}

// exportDownload serves the table projection of the current user as a file
func (s *Server) exportDownload(w http.ResponseWriter, r *http.Request) {
	u, orgID, err := s.orgAccess(r, usecase.RequireOrgMember)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		errorPage(w, r, goerr.Wrap(model.ErrInvalidFormat, "unsupported export format", goerr.V("format", q.Get("format"))))
		return
	}

	list, err := s.uc.Assessment.ListAssessments(r.Context(), orgID)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	visible, err := s.uc.Preference.VisibleColumns(r.Context(), u.ID)
	if err != nil {
		errorPage(w, r, err)
		return
	}

	table := view.BuildTable(list, visible, view.ParseTableQuery(q), s.locale)
	var buf bytes.Buffer
	if err := export.Write(&buf, format, table, s.locale); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	logging.From(r.Context()).Info("assessments exported", "organization_id", orgID, "format", format, "rows", len(table.Rows))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(format, s.now())+`"`)
	safe.Write(r.Context(), w, buf.Bytes())
}

type entryData struct {
	Form     *view.EntryForm
	Sections []view.EntrySection
}

func (s *Server) renderEntry(w http.ResponseWriter, r *http.Request, status int, org *model.Organization, form *view.EntryForm) {
	s.render.page(w, r, status, "entry.html", &pageData{
		Title: "New assessment",
		Org:   org,
		Error: form.Error,
		Data:  entryData{Form: form, Sections: form.Sections(s.locale)},
	})
}

func (s *Server) entryPage(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	org, err := s.uc.Organization.GetOrganization(r.Context(), orgID)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	s.renderEntry(w, r, http.StatusOK, org, view.NewEntryForm(s.now()))
}

// entrySubmit creates a manual assessment. Failures re-render the form with every
// value kept.
func (s *Server) entrySubmit(w http.ResponseWriter, r *http.Request) {
	u, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	org, err := s.uc.Organization.GetOrganization(r.Context(), orgID)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		errorPage(w, r, goerr.Wrap(model.ErrInvalidFormat, "malformed form", goerr.V("error", err.Error())))
		return
	}

	form := view.ParseEntryForm(r.PostForm, s.now())
	a, err := form.Submit(orgID, u.ID)
	if err != nil {
		errorPage(w, r, err)
		return
	}

	if _, err := s.uc.Assessment.CreateAssessment(r.Context(), a); err != nil {
		status := statusOf(err)
		logRejected(r, err, status)
		_ = form.Fail(userMessage(err))
		s.renderEntry(w, r, status, org, form)
		return
	}
	_ = form.Succeed()
	http.Redirect(w, r, orgPath(orgID, "?notice=created"), http.StatusSeeOther)
}

func (s *Server) generateTestAssessment(w http.ResponseWriter, r *http.Request) {
	u, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if _, err := s.uc.Assessment.GenerateTestAssessment(r.Context(), orgID, u.ID, s.now()); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, orgPath(orgID, "?notice=generated"), http.StatusSeeOther)
}

type assessmentData struct {
	Card     view.Card
	CanAdmin bool
}

func (s *Server) assessmentPage(w http.ResponseWriter, r *http.Request) {
	u, orgID, err := s.orgAccess(r, usecase.RequireOrgMember)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	id := types.AssessmentID(chi.URLParam(r, "assessmentID"))

	org, err := s.uc.Organization.GetOrganization(r.Context(), orgID)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	list, err := s.uc.Assessment.ListAssessments(r.Context(), orgID)
	if err != nil {
		errorPage(w, r, err)
		return
	}

	idx := -1
	for i, a := range list {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		errorPage(w, r, goerr.Wrap(usecase.ErrNotFound, "assessment not found", goerr.V(usecase.AssessmentIDKey, id)))
		return
	}

	// the following entry is the previous assessment for the trend
	end := min(idx+2, len(list))
	card := view.BuildCards(list[idx:end], s.locale)[0]

	s.render.page(w, r, http.StatusOK, "assessment.html", &pageData{
		Title: "Assessment " + card.Assessment.DateString(),
		Org:   org,
		Data:  assessmentData{Card: card, CanAdmin: u.CanAdmin(orgID)},
	})
}

func (s *Server) assessmentDelete(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	id := types.AssessmentID(chi.URLParam(r, "assessmentID"))
	if err := s.uc.Assessment.DeleteAssessment(r.Context(), orgID, id); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, orgPath(orgID, "?notice=deleted"), http.StatusSeeOther)
}
