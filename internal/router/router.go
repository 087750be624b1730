package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"chat-agent/internal/handlers"
	"chat-agent/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	historyHandler *handlers.HistoryHandler,
	chatRateLimit int,
	allowedOrigin string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(allowedOrigin))

	// Chat rate limiter (per IP)
	chatLimiter := middleware.NewRateLimiter(chatRateLimit, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(chatLimiter.Middleware)
		r.Post("/chat", chatHandler.Chat)
	})

	r.Get("/threads", historyHandler.List)
	r.Route("/history/{threadID}", func(r chi.Router) {
		r.Get("/", historyHandler.Get)
		r.Delete("/", historyHandler.Clear)
	})

	return r
}
