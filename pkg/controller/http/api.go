package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/usecase"
)

const maxRequestBody = 1 << 20

type assessmentResponse struct {
	ID             string                   `json:"id"`
	OrganizationID string                   `json:"organization_id"`
	AssessmentDate string                   `json:"assessment_date"`
	Controls       [types.ControlCount]*int `json:"controls"`
	TotalScore     *int                     `json:"total_score"`
	ImportMethod   string                   `json:"import_method,omitempty"`
	ImportedBy     string                   `json:"imported_by,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

func toAssessmentResponse(a *model.Assessment) *assessmentResponse {
	if a == nil {
		return nil
	}
	return &assessmentResponse{
		ID:             a.ID.String(),
		OrganizationID: a.OrganizationID.String(),
		AssessmentDate: a.DateString(),
		Controls:       a.Controls,
		TotalScore:     a.TotalScore,
		ImportMethod:   a.ImportMethod.String(),
		ImportedBy:     a.ImportedBy,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// assessmentRequest is the body of create and patch. Controls are keyed by control
// number; on patch a null value clears the control.
type assessmentRequest struct {
	AssessmentDate *string         `json:"assessment_date"`
	Controls       map[string]*int `json:"controls"`
	ImportMethod   *string         `json:"import_method"`
	ImportedBy     *string         `json:"imported_by"`
}

func (req *assessmentRequest) patch() (*model.AssessmentPatch, error) {
	p := &model.AssessmentPatch{}
	if req.AssessmentDate != nil {
		d, err := model.ParseDate(*req.AssessmentDate)
		if err != nil {
			return nil, err
		}
		p.AssessmentDate = &d
	}
	if len(req.Controls) > 0 {
		p.Controls = make(map[int]*int, len(req.Controls))
		for k, v := range req.Controls {
			n, err := strconv.Atoi(k)
			if err != nil {
				return nil, goerr.Wrap(model.ErrInvalidFormat, "control key must be a number", goerr.V(model.FieldKey, k))
			}
			p.Controls[n] = v
		}
	}
	if req.ImportMethod != nil {
		m := types.ImportMethod(*req.ImportMethod)
		p.ImportMethod = &m
	}
	p.ImportedBy = req.ImportedBy
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(model.ErrInvalidFormat, "malformed JSON body", goerr.V("error", err.Error()))
	}
	return nil
}

func (s *Server) apiListAssessments(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgMember)
	if err != nil {
		apiError(w, r, err)
		return
	}
	list, err := s.uc.Assessment.ListAssessments(r.Context(), orgID)
	if err != nil {
		apiError(w, r, err)
		return
	}
	resp := struct {
		Assessments []*assessmentResponse `json:"assessments"`
	}{Assessments: make([]*assessmentResponse, 0, len(list))}
	for _, a := range list {
		resp.Assessments = append(resp.Assessments, toAssessmentResponse(a))
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) apiLatestAssessment(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgMember)
	if err != nil {
		apiError(w, r, err)
		return
	}
	latest, err := s.uc.Assessment.GetLatestAssessment(r.Context(), orgID)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, struct {
		Assessment *assessmentResponse `json:"assessment"`
	}{Assessment: toAssessmentResponse(latest)})
}

func (s *Server) apiGetAssessment(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgMember)
	if err != nil {
		apiError(w, r, err)
		return
	}
	a, err := s.uc.Assessment.GetAssessment(r.Context(), orgID, types.AssessmentID(chi.URLParam(r, "assessmentID")))
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toAssessmentResponse(a))
}

func (s *Server) apiCreateAssessment(w http.ResponseWriter, r *http.Request) {
	u, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		apiError(w, r, err)
		return
	}
	var req assessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, r, err)
		return
	}
	p, err := req.patch()
	if err != nil {
		apiError(w, r, err)
		return
	}

	a := &model.Assessment{
		OrganizationID: orgID,
		ImportMethod:   types.ImportMethodManual,
		ImportedBy:     u.ID.String(),
	}
	p.Apply(a)

	created, err := s.uc.Assessment.CreateAssessment(r.Context(), a)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toAssessmentResponse(created))
}

func (s *Server) apiUpdateAssessment(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		apiError(w, r, err)
		return
	}
	var req assessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, r, err)
		return
	}
	p, err := req.patch()
	if err != nil {
		apiError(w, r, err)
		return
	}

	updated, err := s.uc.Assessment.UpdateAssessment(r.Context(), orgID, types.AssessmentID(chi.URLParam(r, "assessmentID")), p)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toAssessmentResponse(updated))
}

func (s *Server) apiDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	_, orgID, err := s.orgAccess(r, usecase.RequireOrgAdmin)
	if err != nil {
		apiError(w, r, err)
		return
	}
	if err := s.uc.Assessment.DeleteAssessment(r.Context(), orgID, types.AssessmentID(chi.URLParam(r, "assessmentID"))); err != nil {
		apiError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type columnsBody struct {
	VisibleColumns []types.ColumnID `json:"visible_columns"`
}

func (s *Server) apiGetColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := s.uc.Preference.VisibleColumns(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, columnsBody{VisibleColumns: cols})
}

func (s *Server) apiPutColumns(w http.ResponseWriter, r *http.Request) {
	var req columnsBody
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, r, err)
		return
	}
	pref, err := s.uc.Preference.SaveColumnPreference(r.Context(), userFrom(r.Context()).ID, req.VisibleColumns)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, columnsBody{VisibleColumns: pref.VisibleColumns})
}

type chatRequest struct {
	Message string                `json:"message"`
	History []usecase.ChatMessage `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) apiChat(w http.ResponseWriter, r *http.Request) {
	if !s.uc.Chat.Enabled() {
		apiError(w, r, goerr.Wrap(usecase.ErrChatDisabled, "chat requested without LLM"))
		return
	}
	u, orgID, err := s.orgAccess(r, usecase.RequireOrgMember)
	if err != nil {
		apiError(w, r, err)
		return
	}
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apiError(w, r, err)
		return
	}

	reply, err := s.uc.Chat.Chat(r.Context(), u, orgID, req.Message, req.History)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, chatResponse{Reply: reply})
}
