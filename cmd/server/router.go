package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/quotedesk/quotebot/internal/api"
	apimiddleware "github.com/quotedesk/quotebot/internal/api/middleware"
)

// setupRouter builds the HTTP routing table. The webhook endpoint sits
// behind Google Chat token authentication; the health check is public.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace(app.logger))

	webhookHandler := api.NewWebhookHandler(app.assistant, app.config.Chat.AllowedDomain)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.verifier)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/", webhookHandler.HandleEvent)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
