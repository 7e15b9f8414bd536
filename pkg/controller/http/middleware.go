package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

type ctxUserKey struct{}

func contextWithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// userFrom returns the authenticated user, or nil outside authMiddleware
func userFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(ctxUserKey{}).(*model.User)
	return u
}

// authMiddleware resolves the session cookie into a user. Pages redirect to the
// login form on failure; API routes answer 401.
func authMiddleware(authUC AuthUseCase, api bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func() {
				if api {
					writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
					return
				}
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			}

			var token string
			if !authUC.IsNoAuthn() {
				cookie, err := r.Cookie(usecase.SessionCookieName)
				if err != nil || cookie.Value == "" {
					reject()
					return
				}
				token = cookie.Value
			}

			user, err := authUC.ValidateToken(r.Context(), token)
			if err != nil {
				logging.From(r.Context()).Debug("session rejected", "error", err)
				reject()
				return
			}

			logger := logging.From(r.Context()).With("user_id", user.ID)
			ctx := logging.With(contextWithUser(r.Context(), user), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requirePlatformAdmin answers 403 for everyone but platform admins
func requirePlatformAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := usecase.RequirePlatformAdmin(userFrom(r.Context())); err != nil {
			errorPage(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func orgPath(orgID types.OrganizationID, suffix string) string {
	return "/orgs/" + url.PathEscape(orgID.String()) + suffix
}
