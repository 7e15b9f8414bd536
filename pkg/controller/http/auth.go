package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/errutil"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type userMeResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type loginData struct {
	Email string
	Next  string
}

// safeNext keeps redirects on this site
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if s.authUC.IsNoAuthn() {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	s.render.page(w, r, http.StatusOK, "login.html", &pageData{
		Title: "Sign in",
		Data:  loginData{Next: next},
	})
}

func (s *Server) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errorPage(w, r, err)
		return
	}
	email := r.PostForm.Get("email")
	next := safeNext(r.PostForm.Get("next"))

	user, token, err := s.authUC.Login(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		status := http.StatusInternalServerError
		msg := errutil.GenericMessage
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			msg = "Invalid email or password."
			logging.From(r.Context()).Info("login failed", "email", email)
		} else {
			_ = errutil.Handle(r.Context(), err, "login failed")
		}
		s.render.page(w, r, status, "login.html", &pageData{
			Title: "Sign in",
			Error: msg,
			Data:  loginData{Email: email, Next: next},
		})
		return
	}

	if token != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     usecase.SessionCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.behindTLS || r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			Expires:  s.now().Add(s.authUC.SessionTTL()),
		})
	}
	logging.From(r.Context()).Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// logout clears the session cookie. Tokens are stateless and expire on their own.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     usecase.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.behindTLS || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// apiMe returns current user information
func (s *Server) apiMe(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
		ID:             u.ID.String(),
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role.String(),
		OrganizationID: u.OrganizationID.String(),
	})
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}
