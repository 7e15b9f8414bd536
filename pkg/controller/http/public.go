package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

type leadFormData struct {
	Slug               string
	Lead               *model.Lead
	CompanySizes       []string
	SecurityMaturities []string
	Submitted          bool
}

func parseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return goerr.Wrap(model.ErrInvalidFormat, "malformed form", goerr.V("error", err.Error()))
	}
	return nil
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostForm.Get(key))
}

func (s *Server) renderLeadForm(w http.ResponseWriter, r *http.Request, status int, org *model.Organization, data leadFormData, errMsg string) {
	data.Slug = org.Slug
	data.CompanySizes = model.CompanySizes()
	data.SecurityMaturities = model.SecurityMaturities()
	if data.Lead == nil {
		data.Lead = &model.Lead{}
	}
	s.render.page(w, r, status, "lead_form.html", &pageData{
		Title: "CIS Controls assessment for " + org.Name,
		Org:   org,
		Error: errMsg,
		Data:  data,
	})
}

func (s *Server) publicLeadPage(w http.ResponseWriter, r *http.Request) {
	org, err := s.uc.Organization.GetOrganizationBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		errorPage(w, r, err)
		return
	}
	s.renderLeadForm(w, r, http.StatusOK, org, leadFormData{}, "")
}

func (s *Server) publicLeadSubmit(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	org, err := s.uc.Organization.GetOrganizationBySlug(r.Context(), slug)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}

	lead := &model.Lead{
		Name:             formValue(r, "name"),
		Email:            formValue(r, "email"),
		Phone:            formValue(r, "phone"),
		Role:             formValue(r, "role"),
		CompanySize:      formValue(r, "company_size"),
		SecurityMaturity: formValue(r, "security_maturity"),
		Message:          formValue(r, "message"),
	}
	created, err := s.uc.Lead.CreatePublicLead(r.Context(), slug, lead)
	if err != nil {
		status := statusOf(err)
		logRejected(r, err, status)
		s.renderLeadForm(w, r, status, org, leadFormData{Lead: lead}, userMessage(err))
		return
	}

	logging.From(r.Context()).Info("lead captured", "organization_id", org.ID, "lead_id", created.ID)
	s.renderLeadForm(w, r, http.StatusOK, org, leadFormData{Lead: created, Submitted: true}, "")
}

type contactData struct {
	Message   *model.ContactMessage
	Submitted bool
}

func (s *Server) contactPage(w http.ResponseWriter, r *http.Request) {
	s.render.page(w, r, http.StatusOK, "contact.html", &pageData{
		Title: "Contact us",
		Data:  contactData{Message: &model.ContactMessage{}},
	})
}

func (s *Server) contactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}
	msg := &model.ContactMessage{
		Name:    formValue(r, "name"),
		Email:   formValue(r, "email"),
		Subject: formValue(r, "subject"),
		Body:    strings.TrimSpace(r.PostForm.Get("body")),
	}
	if _, err := s.uc.Contact.CreateContactMessage(r.Context(), msg); err != nil {
		status := statusOf(err)
		logRejected(r, err, status)
		s.render.page(w, r, status, "contact.html", &pageData{
			Title: "Contact us",
			Error: userMessage(err),
			Data:  contactData{Message: msg},
		})
		return
	}
	s.render.page(w, r, http.StatusOK, "contact.html", &pageData{
		Title: "Contact us",
		Data:  contactData{Message: &model.ContactMessage{}, Submitted: true},
	})
}
