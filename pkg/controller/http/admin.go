package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

type adminData struct {
	Organizations []*model.Organization
	Form          *model.Organization
}

func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, status int, form *model.Organization, errMsg string) {
	orgs, err := s.uc.Organization.ListOrganizations(r.Context())
	if err != nil {
		errorPage(w, r, err)
		return
	}
	if form == nil {
		form = &model.Organization{}
	}
	s.render.page(w, r, status, "admin.html", &pageData{
		Title:  "Organizations",
		Notice: noticeOf(r),
		Error:  errMsg,
		Data:   adminData{Organizations: orgs, Form: form},
	})
}

func (s *Server) adminPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdmin(w, r, http.StatusOK, nil, "")
}

func (s *Server) adminOrgCreate(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}
	name, slug := formValue(r, "name"), formValue(r, "slug")
	org, err := s.uc.Organization.CreateOrganization(r.Context(), name, slug)
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			errorPage(w, r, err)
			return
		}
		logRejected(r, err, status)
		s.renderAdmin(w, r, status, &model.Organization{Name: name, Slug: slug}, userMessage(err))
		return
	}
	logging.From(r.Context()).Info("organization created", "organization_id", org.ID, "slug", org.Slug)
	http.Redirect(w, r, "/admin/?notice=created", http.StatusSeeOther)
}

func (s *Server) adminOrgDelete(w http.ResponseWriter, r *http.Request) {
	id := types.OrganizationID(chi.URLParam(r, "orgID"))
	if err := s.uc.Organization.DeleteOrganization(r.Context(), id); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/?notice=deleted", http.StatusSeeOther)
}

type adminUsersData struct {
	Users         []*model.User
	Organizations []*model.Organization
	OrgNames      map[types.OrganizationID]string
	Roles         []types.UserRole
	Form          usecase.CreateUserInput
}

func (s *Server) renderAdminUsers(w http.ResponseWriter, r *http.Request, status int, form usecase.CreateUserInput, errMsg string) {
	users, err := s.uc.User.ListUsers(r.Context(), "")
	if err != nil {
		errorPage(w, r, err)
		return
	}
	orgs, err := s.uc.Organization.ListOrganizations(r.Context())
	if err != nil {
		errorPage(w, r, err)
		return
	}
	names := make(map[types.OrganizationID]string, len(orgs))
	for _, o := range orgs {
		names[o.ID] = o.Name
	}
	form.Password = ""
	s.render.page(w, r, status, "admin_users.html", &pageData{
		Title:  "Users",
		Notice: noticeOf(r),
		Error:  errMsg,
		Data: adminUsersData{
			Users:         users,
			Organizations: orgs,
			OrgNames:      names,
			Roles:         types.AllUserRoles(),
			Form:          form,
		},
	})
}

func (s *Server) adminUsersPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdminUsers(w, r, http.StatusOK, usecase.CreateUserInput{Role: types.UserRoleMember}, "")
}

func (s *Server) adminUserCreate(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}
	input := usecase.CreateUserInput{
		Email:          formValue(r, "email"),
		Name:           formValue(r, "name"),
		Password:       r.PostForm.Get("password"),
		Role:           types.UserRole(formValue(r, "role")),
		OrganizationID: types.OrganizationID(formValue(r, "organization_id")),
	}
	u, err := s.uc.User.CreateUser(r.Context(), input)
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			errorPage(w, r, err)
			return
		}
		logRejected(r, err, status)
		s.renderAdminUsers(w, r, status, input, userMessage(err))
		return
	}
	logging.From(r.Context()).Info("user created", "created_user_id", u.ID, "role", u.Role)
	http.Redirect(w, r, "/admin/users?notice=created", http.StatusSeeOther)
}

func (s *Server) adminUserDelete(w http.ResponseWriter, r *http.Request) {
	id := types.UserID(chi.URLParam(r, "userID"))
	if id == userFrom(r.Context()).ID {
		errorPage(w, r, goerr.Wrap(usecase.ErrPermissionDenied, "cannot delete own account", goerr.V(usecase.UserIDKey, id)))
		return
	}
	if err := s.uc.User.DeleteUser(r.Context(), id); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/users?notice=deleted", http.StatusSeeOther)
}

func (s *Server) adminMessagesPage(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.uc.Contact.ListContactMessages(r.Context())
	if err != nil {
		errorPage(w, r, err)
		return
	}
	s.render.page(w, r, http.StatusOK, "admin_messages.html", &pageData{
		Title:  "Messages",
		Notice: noticeOf(r),
		Data:   msgs,
	})
}

func (s *Server) adminMessageRead(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		errorPage(w, r, err)
		return
	}
	id := types.ContactMessageID(chi.URLParam(r, "messageID"))
	if _, err := s.uc.Contact.MarkRead(r.Context(), id, r.PostForm.Get("read") != "0"); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/messages?notice=saved", http.StatusSeeOther)
}

func (s *Server) adminMessageDelete(w http.ResponseWriter, r *http.Request) {
	id := types.ContactMessageID(chi.URLParam(r, "messageID"))
	if err := s.uc.Contact.DeleteContactMessage(r.Context(), id); err != nil {
		errorPage(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/messages?notice=deleted", http.StatusSeeOther)
}

type adminServiceRequestsData struct {
	Requests []*model.ServiceRequest
	OrgNames map[types.OrganizationID]string
}

func (s *Server) adminServiceRequestsPage(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.uc.ServiceRequest.ListServiceRequests(r.Context(), "")
	if err != nil {
		errorPage(w, r, err)
		return
	}
	orgs, err := s.uc.Organization.ListOrganizations(r.Context())
	if err != nil {
		errorPage(w, r, err)
		return
	}
	names := make(map[types.OrganizationID]string, len(orgs))
	for _, o := range orgs {
		names[o.ID] = o.Name
	}
	s.render.page(w, r, http.StatusOK, "admin_service_requests.html", &pageData{
		Title: "Service requests",
		Data:  adminServiceRequestsData{Requests: reqs, OrgNames: names},
	})
}
