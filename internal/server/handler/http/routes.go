package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/atinyakov/portfolio/internal/middleware"
)

// RouterOptions carries the deployment settings the router needs.
type RouterOptions struct {
	// CORSOrigins is a comma separated allow-list; "*" or empty allows all.
	CORSOrigins string
	// PublicScheme prefixes derived image URLs.
	PublicScheme string
	// MaxUploadMemory is how much of a multipart body is kept in memory.
	MaxUploadMemory int64
}

// NewRouter constructs the HTTP handler of the portfolio API.
//
// Routes:
//
//	GET    /api/portfolio-projects        → projects.List
//	POST   /api/new-project               → projects.Create (multipart, image field)
//	POST   /api/login                     → auth.Login
//	DELETE /api/delete-project            → projects.Delete
//	POST   /api/check-token               → auth.CheckToken
//	GET    /api/project/{id}              → projects.Get
//	POST   /api/project/update-project    → projects.Update
//	POST   /api/contact-me                → contact.Contact
//	GET    /images/{name}                 → images (HEAD too)
//
// Anything else, including a known path with the wrong method, gets a JSON 404.
func NewRouter(
	projects *ProjectHandler,
	auth *AuthHandler,
	contact *ContactHandler,
	images http.Handler,
	opts RouterOptions,
	logger *zap.Logger,
) http.Handler {
	if opts.PublicScheme == "" {
		opts.PublicScheme = "https"
	}
	if opts.MaxUploadMemory <= 0 {
		opts.MaxUploadMemory = 10 << 20
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(corsHandler(opts.CORSOrigins).Handler)

	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio-projects", projects.List)
		r.With(middleware.ImageUpload("image", opts.PublicScheme, opts.MaxUploadMemory)).
			Post("/new-project", projects.Create)
		r.Post("/login", auth.Login)
		r.Delete("/delete-project", projects.Delete)
		r.Post("/check-token", auth.CheckToken)
		r.Get("/project/{id}", projects.Get)
		r.Post("/project/update-project", projects.Update)
		r.Post("/contact-me", contact.Contact)
	})

	serveImages := http.StripPrefix("/images/", images).ServeHTTP
	r.Get("/images/*", serveImages)
	r.Head("/images/*", serveImages)

	return r
}

func corsHandler(origins string) *cors.Cors {
	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 || (len(allowed) == 1 && allowed[0] == "*") {
		return cors.AllowAll()
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	})
}
