package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/geonotify/notify-backend/internal/handlers"
	"github.com/geonotify/notify-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(deps.Log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	th := handlers.NewTemplateHandlers(deps)
	crh := handlers.NewCredentialsHandlers(deps)
	adh := handlers.NewAdminHandlers(deps)
	ash := handlers.NewAssistHandlers(deps)

	authmw := middleware.NewMiddleware(deps.Firebase, deps.Roles)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.FirebaseAuth)

		pr.Route("/orgs/{orgId}", func(or chi.Router) {
			or.Use(authmw.OrgMember)
			or.Mount("/templates", th.TemplateRoutes())
			or.Mount("/credentials", crh.CredentialsRoutes())
		})

		pr.Mount("/admin", adh.AdminRoutes())
		pr.Mount("/assist", ash.AssistRoutes())
	})

	return r
}
