package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"finbot/internal/http/handlers"
	"finbot/internal/infra"
	"finbot/internal/middleware"
)

// NewRouter assembles the HTTP surface around the handler container.
func NewRouter(app *handlers.App, cfg *infra.Config) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/v1/healthz", app.Health)

	r.Post("/auth/login", app.Login)
	r.Post("/users", app.Register)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", app.ListUsers)
			r.Get("/me", app.Me)
			r.Put("/me", app.UpdateMe)
			r.Put("/{id}/grade", app.UpdateGrade)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", app.CreateExpense)
			r.Get("/", app.ListExpenses)
			r.Put("/{id}", app.UpdateExpense)
			r.Delete("/{id}", app.DeleteExpense)
		})

		r.Route("/chats", func(r chi.Router) {
			// Each turn costs a model call, so chats get the rate limit.
			r.With(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)).Post("/", app.CreateChat)
			r.Get("/", app.ListChats)
		})
	})

	return r
}
