/**
 * @description
 * This file sets up the HTTP router for the donation-service. It defines the
 * API endpoints, associates them with their corresponding handlers, and
 * applies middleware. Read endpoints are open; mutating endpoints require the
 * shared internal API key.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DonationRoutes creates and returns a new router for the donation service.
func DonationRoutes(h *DonationHandlers, internalAPIKey string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Open read endpoints.
	r.Get("/session", h.SessionStatusHandler)
	r.Get("/charities", h.ListCharitiesHandler)
	r.Get("/charities/{charityID}", h.GetCharityHandler)
	r.Get("/quiz", h.QuizStateHandler)
	r.Get("/donations", h.DonationHistoryHandler)

	// Group routes that require the internal API key.
	r.Group(func(r chi.Router) {
		r.Use(InternalAuthMiddleware(internalAPIKey))

		r.Post("/session/connect", h.ConnectHandler)
		r.Post("/session/disconnect", h.DisconnectHandler)
		r.Post("/session/switch-network", h.SwitchNetworkHandler)

		r.Put("/quiz/answers", h.QuizAnswerHandler)
		r.Post("/quiz/next", h.QuizNextHandler)
		r.Post("/quiz/back", h.QuizBackHandler)
		r.Post("/quiz/reset", h.QuizResetHandler)

		r.Post("/donations", h.DonateHandler)
	})

	return r
}
