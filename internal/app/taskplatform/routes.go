// Package taskplatform собирает HTTP API платформы заданий.
package taskplatform

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Описание API для /docs.
	_ "github.com/magabrotheeeer/task-platform/docs"
	"github.com/magabrotheeeer/task-platform/internal/config"
	"github.com/magabrotheeeer/task-platform/internal/grpc/client"
	adminprofilecreate "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/profile/create"
	adminprofilelist "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/profile/list"
	adminprofileread "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/profile/read"
	adminprofileremove "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/profile/remove"
	adminprofileupdate "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/profile/update"
	adminsubmissionlist "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/submission/list"
	adminsubmissionread "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/submission/read"
	adminsubmissionremove "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/submission/remove"
	"github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/submission/review"
	admintaskcreate "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/task/create"
	admintasklist "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/task/list"
	admintaskread "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/task/read"
	admintaskremove "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/task/remove"
	admintaskupdate "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/task/update"
	adminusercreate "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/user/create"
	adminuserlist "github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/user/list"
	"github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/user/logs"
	"github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/user/setpassword"
	"github.com/magabrotheeeer/task-platform/internal/http/handlers/admin/user/setprofile"
	"github.com/magabrotheeeer/task-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/task-platform/internal/http/handlers/health"
	profilelist "github.com/magabrotheeeer/task-platform/internal/http/handlers/profile/list"
	profileread "github.com/magabrotheeeer/task-platform/internal/http/handlers/profile/read"
	submissioncreate "github.com/magabrotheeeer/task-platform/internal/http/handlers/submission/create"
	submissionread "github.com/magabrotheeeer/task-platform/internal/http/handlers/submission/read"
	submissionupdate "github.com/magabrotheeeer/task-platform/internal/http/handlers/submission/update"
	tasklist "github.com/magabrotheeeer/task-platform/internal/http/handlers/task/list"
	taskread "github.com/magabrotheeeer/task-platform/internal/http/handlers/task/read"
	"github.com/magabrotheeeer/task-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-platform/internal/services/profile"
	"github.com/magabrotheeeer/task-platform/internal/services/submission"
	"github.com/magabrotheeeer/task-platform/internal/services/task"
	"github.com/magabrotheeeer/task-platform/internal/services/user"
	"github.com/magabrotheeeer/task-platform/internal/views"
)

// Deps сервисы, которые обслуживают маршруты.
type Deps struct {
	Auth        *client.AuthClient
	Profiles    *profile.Service
	Tasks       *task.Service
	Submissions *submission.Service
	Users       *user.Service
	Health      map[string]health.Checker
	MediaDir    string
	PageSize    int
	RateLimit   config.RateLimit
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
		middlewarectx.ActionContext,
		middlewarectx.RateLimitMiddleware(d.RateLimit, logger),
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", login.New(logger, d.Auth).ServeHTTP)

		r.Route("/{lang:(ru|en)}", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Auth, logger))

			r.Get("/profiles/", profilelist.New(logger, d.Profiles, d.PageSize).ServeHTTP)
			r.Get("/profiles/{id}/", profileread.New(logger, d.Profiles).ServeHTTP)
			r.Get("/profiles/{id}/tasks/", tasklist.New(logger, d.Tasks, d.PageSize).ServeHTTP)
			r.Get("/tasks/{id}/", taskread.New(logger, d.Tasks).ServeHTTP)

			r.Get("/tasks/{id}/submission/", submissionread.New(logger, d.Submissions).ServeHTTP)
			r.Post("/tasks/{id}/submission/", submissioncreate.New(logger, d.Submissions).ServeHTTP)
			r.Put("/tasks/{id}/submission/", submissionupdate.New(logger, d.Submissions, false).ServeHTTP)
			r.Patch("/tasks/{id}/submission/", submissionupdate.New(logger, d.Submissions, true).ServeHTTP)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminOnly(logger))
				registerAdminRoutes(r, logger, d)
			})
		})
	})

	r.Handle(views.MediaPrefix+"*", http.StripPrefix(views.MediaPrefix, http.FileServer(http.Dir(d.MediaDir))))
	r.Get("/health", health.New(logger, d.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

func registerAdminRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	r.Get("/profiles/", adminprofilelist.New(logger, d.Profiles, d.PageSize).ServeHTTP)
	r.Post("/profiles/", adminprofilecreate.New(logger, d.Profiles).ServeHTTP)
	r.Get("/profiles/{id}/", adminprofileread.New(logger, d.Profiles).ServeHTTP)
	r.Put("/profiles/{id}/", adminprofileupdate.New(logger, d.Profiles, false).ServeHTTP)
	r.Patch("/profiles/{id}/", adminprofileupdate.New(logger, d.Profiles, true).ServeHTTP)
	r.Delete("/profiles/{id}/", adminprofileremove.New(logger, d.Profiles).ServeHTTP)

	r.Get("/tasks/", admintasklist.New(logger, d.Tasks, d.PageSize).ServeHTTP)
	r.Post("/tasks/", admintaskcreate.New(logger, d.Tasks).ServeHTTP)
	r.Get("/tasks/{id}/", admintaskread.New(logger, d.Tasks).ServeHTTP)
	r.Put("/tasks/{id}/", admintaskupdate.New(logger, d.Tasks, false).ServeHTTP)
	r.Patch("/tasks/{id}/", admintaskupdate.New(logger, d.Tasks, true).ServeHTTP)
	r.Delete("/tasks/{id}/", admintaskremove.New(logger, d.Tasks).ServeHTTP)

	reviewHandler := review.New(logger, d.Submissions)
	r.Get("/submissions/", adminsubmissionlist.New(logger, d.Submissions, d.PageSize).ServeHTTP)
	r.Get("/submissions/{id}/", adminsubmissionread.New(logger, d.Submissions).ServeHTTP)
	r.Put("/submissions/{id}/", reviewHandler.ServeHTTP)
	r.Patch("/submissions/{id}/", reviewHandler.ServeHTTP)
	r.Delete("/submissions/{id}/", adminsubmissionremove.New(logger, d.Submissions).ServeHTTP)

	r.Get("/users/", adminuserlist.New(logger, d.Users, d.PageSize).ServeHTTP)
	r.Post("/users/", adminusercreate.New(logger, d.Users).ServeHTTP)
	r.Post("/users/set-password/", setpassword.New(logger, d.Users).ServeHTTP)
	r.Post("/users/set-profile/", setprofile.New(logger, d.Users).ServeHTTP)
	r.Get("/users/logs/", logs.New(logger, d.Users, d.PageSize).ServeHTTP)
}
