package http

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

type Server struct {
	router    *chi.Mux
	uc        *usecase.UseCases
	authUC    AuthUseCase
	render    *renderer
	locale    cis18.Locale
	now       func() time.Time
	behindTLS bool
}

type Options func(*Server)

// WithClock replaces the time source used for form defaults and export file names
func WithClock(now func() time.Time) Options {
	return func(s *Server) {
		s.now = now
	}
}

// WithSecureCookie forces the Secure flag on the session cookie, for deployments
// behind a TLS terminating proxy
func WithSecureCookie(enabled bool) Options {
	return func(s *Server) {
		s.behindTLS = enabled
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil || uc.Auth == nil {
		return nil, goerr.New("use cases with an authenticator are required")
	}

	render, err := newRenderer(uc.Locale())
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	s := &Server{
		router: r,
		uc:     uc,
		authUC: uc.Auth,
		render: render,
		locale: uc.Locale(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to bind static dir")
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	})

	// Public pages
	r.Get("/login", s.loginPage)
	r.Post("/login", s.loginSubmit)
	r.Post("/logout", s.logout)
	r.Get("/public/orgs/{slug}/leads", s.publicLeadPage)
	r.Post("/public/orgs/{slug}/leads", s.publicLeadSubmit)
	r.Get("/contact", s.contactPage)
	r.Post("/contact", s.contactSubmit)

	// Dashboard pages
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(s.authUC, false))

		r.Get("/", s.home)
		r.Route("/orgs/{orgID}", func(r chi.Router) {
			r.Get("/", s.dashboardPage)
			r.Get("/export", s.exportDownload)
			r.Post("/columns", s.columnToggle)

			r.Get("/assessments/new", s.entryPage)
			r.Post("/assessments", s.entrySubmit)
			r.Post("/assessments/generate", s.generateTestAssessment)
			r.Get("/assessments/{assessmentID}", s.assessmentPage)
			r.Post("/assessments/{assessmentID}/delete", s.assessmentDelete)

			r.Get("/leads", s.leadsPage)
			r.Post("/leads/{leadID}/status", s.leadStatus)
			r.Post("/leads/{leadID}/delete", s.leadDelete)

			r.Get("/service-requests", s.serviceRequestsPage)
			r.Post("/service-requests", s.serviceRequestSubmit)
			r.Post("/service-requests/{requestID}/status", s.serviceRequestStatus)
			r.Post("/service-requests/{requestID}/delete", s.serviceRequestDelete)

			r.Get("/settings/email", s.emailSettingsPage)
			r.Post("/settings/email", s.emailSettingsSubmit)
			r.Post("/settings/email/test", s.emailSettingsTest)
			r.Post("/settings/email/delete", s.emailSettingsDelete)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requirePlatformAdmin)
			r.Get("/", s.adminPage)
			r.Post("/orgs", s.adminOrgCreate)
			r.Post("/orgs/{orgID}/delete", s.adminOrgDelete)
			r.Get("/users", s.adminUsersPage)
			r.Post("/users", s.adminUserCreate)
			r.Post("/users/{userID}/delete", s.adminUserDelete)
			r.Get("/messages", s.adminMessagesPage)
			r.Post("/messages/{messageID}/read", s.adminMessageRead)
			r.Post("/messages/{messageID}/delete", s.adminMessageDelete)
			r.Get("/service-requests", s.adminServiceRequestsPage)
		})
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC, true))
		r.Get("/me", s.apiMe)
		r.Get("/me/columns", s.apiGetColumns)
		r.Put("/me/columns", s.apiPutColumns)
		r.Route("/orgs/{orgID}", func(r chi.Router) {
			r.Get("/assessments", s.apiListAssessments)
			r.Post("/assessments", s.apiCreateAssessment)
			r.Get("/assessments/latest", s.apiLatestAssessment)
			r.Get("/assessments/{assessmentID}", s.apiGetAssessment)
			r.Patch("/assessments/{assessmentID}", s.apiUpdateAssessment)
			r.Delete("/assessments/{assessmentID}", s.apiDeleteAssessment)
			r.Post("/chat", s.apiChat)
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.With(r.Context(), logger))

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// home sends users to their organization and platform admins to the admin page
func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	if u.IsPlatformAdmin() {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, orgPath(u.OrganizationID, ""), http.StatusSeeOther)
}
