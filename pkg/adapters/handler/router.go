package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wadjakorntonsri/interne/pkg/adapters/session"
	"github.com/wadjakorntonsri/interne/pkg/config"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

// Services groups what the HTTP layer calls into.
type Services struct {
	Entries     ports.EntryService
	Collections ports.CollectionService
	Tags        ports.TagService
	Users       ports.UserService
	Exports     ports.ExportService
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, tokens *session.Tokens, revoker ports.TokenRevoker) http.Handler {
	eh := NewEntryHandler(svc.Entries)
	ch := NewCollectionHandler(svc.Collections)
	th := NewTagHandler(svc.Tags)
	xh := NewExportHandler(svc.Exports)
	ah := NewAuthHandler(svc.Users, tokens, revoker,
		newLoginLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst), cfg.IsProduction())
	mw := NewMiddleware(tokens, revoker, svc.Users)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// Forwarding headers are client-controlled unless a proxy rewrites them.
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(RequestLogger)
	r.Use(chimw.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(CORS(cfg.CORSAllowedOrigins))
	}

	// Public routes
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	r.Post("/auth/login", ah.Login)
	r.Post("/auth/logout", ah.Logout)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.AuthMiddleware)

		r.Get("/me", ah.Me)

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", eh.List)
			r.Post("/", eh.Create)
			r.Get("/{id}", eh.Get)
			r.Put("/{id}", eh.Update)
			r.Delete("/{id}", eh.Delete)
			r.Post("/{id}/visit", eh.Visit)
		})

		r.Get("/tags", th.Cloud)
		r.Get("/tags/{name}", eh.ListByTag)

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", ch.List)
			r.Post("/", ch.Create)
			r.Post("/join", ch.Join)
			r.Get("/{id}", ch.Show)
			r.Put("/{id}", ch.Rename)
			r.Delete("/{id}", ch.Delete)
			r.Post("/{id}/invite", ch.RegenerateInvite)
			r.Post("/{id}/leave", ch.Leave)
			r.Delete("/{id}/members/{userID}", ch.RemoveMember)
		})

		r.Get("/export", xh.Export)
	})

	return r
}
