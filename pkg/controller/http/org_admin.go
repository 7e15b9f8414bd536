package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/usecase"
)

// loadOrg checks access and loads the organization of {orgID}
func (s *Server) loadOrg(r *http.Request, check accessCheck) (*model.User, *model.Organization, error) {
	u, orgID, err := s.orgAccess(r, check)
	if err != nil {
		return nil, nil, err
	}
	org, err := s.uc.Organization.GetOrganization(r.Context(), orgID)
	if err != nil {
		return nil, nil, err
	}
	return u, org, nil
}

type leadsData struct {
	Leads    []*usecase.ScoredLead
	FormPath string
}

func (s *Server) leadsPage(w http.ResponseWriter, r *http.Request) {
	_, org, err := s.loadOrg(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	leads, err := s.uc.Lead.ListScoredLeads(r.Context(), org.ID)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	s.render.page(w, r, http.StatusOK, "leads.html", &pageData{
		Title:  "Leads",
		Org:    org,
		Notice: noticeOf(r),
		Data:   leadsData{Leads: leads, FormPath: "/public/orgs/" + org.Slug + "/leads"},
	})
}

func (s *Server) leadStatus(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}
	id := types.LeadID(chi.URLParam(r, "leadID"))
	if _, err := s.uc.Lead.UpdateLeadStatus(r.Context(), orgID, id, formValue(r, "status")); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, orgPath(orgID, "/leads?notice=saved"), http.StatusSeeOther)
}

func (s *Server) leadDelete(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := s.uc.Lead.DeleteLead(r.Context(), orgID, types.LeadID(chi.URLParam(r, "leadID"))); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, orgPath(orgID, "/leads?notice=deleted"), http.StatusSeeOther)
}

type serviceRequestsData struct {
	Requests []*model.ServiceRequest
	Kinds    []types.ServiceKind
	Statuses []types.ServiceRequestStatus
	CanAdmin bool
}

func (s *Server) serviceRequestsPage(w http.ResponseWriter, r *http.Request) {
	u, org, err := s.loadOrg(r, usecase.RequireOrgMember)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	reqs, err := s.uc.ServiceRequest.ListServiceRequests(r.Context(), org.ID)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	s.render.page(w, r, http.StatusOK, "service_requests.html", &pageData{
		Title:  "Services",
		Org:    org,
		Notice: noticeOf(r),
		Data: serviceRequestsData{
			Requests: reqs,
			Kinds:    types.AllServiceKinds(),
			Statuses: types.AllServiceRequestStatuses(),
			CanAdmin: u.CanAdmin(org.ID),
		},
	})
}

func (s *Server) serviceRequestSubmit(w http.ResponseWriter, r *http.Request) {
	u, orgID, err := s.orgAccess(r, usecase.RequireOrgMember)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}
	kind := types.ServiceKind(formValue(r, "service"))
	if _, err := s.uc.ServiceRequest.CreateServiceRequest(r.Context(), u, orgID, kind, r.PostForm.Get("details")); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, orgPath(orgID, "/service-requests?notice=created"), http.StatusSeeOther)
}

func (s *Server) serviceRequestStatus(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}
	id := types.ServiceRequestID(chi.URLParam(r, "requestID"))
	status := types.ServiceRequestStatus(formValue(r, "status"))
	if _, err := s.uc.ServiceRequest.UpdateServiceRequestStatus(r.Context(), orgID, id, status); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, orgPath(orgID, "/service-requests?notice=saved"), http.StatusSeeOther)
}

func (s *Server) serviceRequestDelete(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	id := types.ServiceRequestID(chi.URLParam(r, "requestID"))
	if err := s.uc.ServiceRequest.DeleteServiceRequest(r.Context(), orgID, id); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, orgPath(orgID, "/service-requests?notice=deleted"), http.StatusSeeOther)
}

type emailSettingsData struct {
	Config     *model.EmailProviderConfig
	Configured bool
	Kinds      []types.EmailProviderKind
}

func (s *Server) renderEmailSettings(w http.ResponseWriter, r *http.Request, status int, org *model.Organization, cfg *model.EmailProviderConfig, configured bool, errMsg string) {
	if cfg == nil {
		cfg = &model.EmailProviderConfig{Kind: types.EmailProviderSMTP, SMTP: model.SMTPSettings{Port: 587, TLS: true}}
	}
	s.render.page(w, r, status, "email_settings.html", &pageData{
		Title:  "Email settings",
		Org:    org,
		Notice: noticeOf(r),
		Error:  errMsg,
		Data: emailSettingsData{
			Config:     cfg,
			Configured: configured,
			Kinds:      types.AllEmailProviderKinds(),
		},
	})
}

func (s *Server) emailSettingsPage(w http.ResponseWriter, r *http.Request) {
	_, org, err := s.loadOrg(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	cfg, err := s.uc.Email.GetEmailConfig(r.Context(), org.ID)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	s.renderEmailSettings(w, r, http.StatusOK, org, cfg, cfg != nil, "")
}

// emailConfigFromForm reads the provider settings. Secrets left masked are resolved
// by the use case.
func emailConfigFromForm(r *http.Request, orgID types.OrganizationID) *model.EmailProviderConfig {
	port, _ := strconv.Atoi(formValue(r, "smtp_port"))
	return &model.EmailProviderConfig{
		OrganizationID: orgID,
		Kind:           types.EmailProviderKind(formValue(r, "kind")),
		SMTP: model.SMTPSettings{
			Host:     formValue(r, "smtp_host"),
			Port:     port,
			Username: formValue(r, "smtp_username"),
			Password: r.PostForm.Get("smtp_password"),
			TLS:      r.PostForm.Get("smtp_tls") == "1",
		},
		APIKey:      formValue(r, "api_key"),
		FromAddress: formValue(r, "from_address"),
		FromName:    formValue(r, "from_name"),
	}
}

func (s *Server) emailSettingsSubmit(w http.ResponseWriter, r *http.Request) {
	_, org, err := s.loadOrg(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}

	cfg := emailConfigFromForm(r, org.ID)
	if _, err := s.uc.Email.SaveEmailConfig(r.Context(), cfg); err != nil {
		status := statusOf(err)
		logRejected(r, err, status)
		prev, _ := s.uc.Email.GetEmailConfig(r.Context(), org.ID)
		s.renderEmailSettings(w, r, status, org, cfg.Masked(), prev != nil, userMessage(err))
		return
	}
	http.Redirect(w, r, orgPath(org.ID, "/settings/email?notice=saved"), http.StatusSeeOther)
}

func (s *Server) emailSettingsTest(w http.ResponseWriter, r *http.Request) {
	u, org, err := s.loadOrg(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}
	to := formValue(r, "to")
	if to == "" {
		to = u.Email
	}

	if err := s.uc.Email.TestEmail(r.Context(), org.ID, to); err != nil {
		status := statusOf(err)
		logRejected(r, err, status)
		cfg, _ := s.uc.Email.GetEmailConfig(r.Context(), org.ID)
		msg := userMessage(err)
		if status >= http.StatusInternalServerError {
			msg = "The test email could not be sent. Check the provider settings."
		}
		s.renderEmailSettings(w, r, status, org, cfg, cfg != nil, msg)
		return
	}
	http.Redirect(w, r, orgPath(org.ID, "/settings/email?notice=sent"), http.StatusSeeOther)
}

func (s *Server) emailSettingsDelete(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if err := s.uc.Email.DeleteEmailConfig(r.Context(), orgID); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, orgPath(orgID, "/settings/email?notice=deleted"), http.StatusSeeOther)
}
