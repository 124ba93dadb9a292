// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	healthfeature "github.com/docbaselabs/docbase/internal/app/features/health"
	loginfeature "github.com/docbaselabs/docbase/internal/app/features/login"
	profilefeature "github.com/docbaselabs/docbase/internal/app/features/profile"
	projectdocsfeature "github.com/docbaselabs/docbase/internal/app/features/projectdocs"
	projectsfeature "github.com/docbaselabs/docbase/internal/app/features/projects"
	projectusersfeature "github.com/docbaselabs/docbase/internal/app/features/projectusers"
	signupfeature "github.com/docbaselabs/docbase/internal/app/features/signup"
	usersfeature "github.com/docbaselabs/docbase/internal/app/features/users"
	projectstore "github.com/docbaselabs/docbase/internal/app/store/projects"
	projectuserstore "github.com/docbaselabs/docbase/internal/app/store/projectusers"
	"github.com/docbaselabs/docbase/internal/app/store/tenantdocs"
	userstore "github.com/docbaselabs/docbase/internal/app/store/users"
	"github.com/docbaselabs/docbase/internal/app/system/auth"
	"github.com/docbaselabs/docbase/internal/app/system/projectauth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Route map:
//
//	GET  /health
//	POST /api/auth/signup
//	POST /api/auth/login
//	GET  /api/auth/profile                      (identity guard)
//	ALL  /api/auth/users[...]                   (identity guard)
//	ALL  /api/projects/info|edit[...]           (identity guard)
//	ALL  /api/projects/{project_id}/mongodb/*   (project guard)
//	POST /api/projects/{project_id}/auth/*      (project guard)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	users := userstore.NewWithCollection(deps.MongoDatabase, appCfg.UsersCollection)
	projects := projectstore.NewWithCollection(deps.MongoDatabase, appCfg.ProjectsCollection)
	docs := tenantdocs.New(deps.MongoClient)
	tenantUsers := projectuserstore.New(deps.MongoClient)

	requireBearer := auth.RequireBearer(appCfg.AuthSecret)
	requireMember := projectauth.RequireMember(appCfg.AuthSecret, projects, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public: registration and credential exchange
			signupHandler := signupfeature.NewHandler(users, logger)
			r.Mount("/signup", signupfeature.Routes(signupHandler))

			loginHandler := loginfeature.NewHandler(users, appCfg.AuthSecret, logger)
			r.Mount("/login", loginfeature.Routes(loginHandler))

			// Authenticated: own record and account management
			r.Group(func(r chi.Router) {
				r.Use(requireBearer)

				profileHandler := profilefeature.NewHandler(users, logger)
				r.Mount("/profile", profilefeature.Routes(profileHandler))

				usersHandler := usersfeature.NewHandler(users, logger)
				r.Mount("/users", usersfeature.Routes(usersHandler))
			})
		})

		r.Route("/projects", func(r chi.Router) {
			// Project metadata: identity guard only; membership is
			// checked per-record inside the handlers. The static /info
			// and /edit mounts take precedence over {project_id}.
			r.Group(func(r chi.Router) {
				r.Use(requireBearer)
				projectsHandler := projectsfeature.NewHandler(projects, logger)
				r.Mount("/info", projectsfeature.InfoRoutes(projectsHandler))
				r.Mount("/edit", projectsfeature.EditRoutes(projectsHandler))
			})

			// Tenant-scoped surfaces: the project guard verifies the
			// token and the membership on every request.
			r.Route("/{project_id}", func(r chi.Router) {
				r.Use(requireMember)

				docsHandler := projectdocsfeature.NewHandler(docs, logger)
				r.Mount("/mongodb", projectdocsfeature.Routes(docsHandler))

				tenantUsersHandler := projectusersfeature.NewHandler(tenantUsers, logger)
				r.Mount("/auth", projectusersfeature.Routes(tenantUsersHandler))
			})
		})
	})

	return r, nil
}
