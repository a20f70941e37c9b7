package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter wires the full HTTP surface: authenticated cart endpoints,
// public catalog reads and admin-only catalog mutations.
func NewRouter(cartHandler *CartHandler, productHandler *ProductHandler, jwtSecret []byte, requestTimeout time.Duration, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := AuthMiddleware(jwtSecret)

	r.Route("/cart", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", cartHandler.GetCart)
		r.Post("/", cartHandler.AddItem)
		r.Put("/", cartHandler.UpdateQuantity)
		r.Patch("/", cartHandler.UpdateQuantity)
		r.Delete("/", cartHandler.RemoveItem)
		r.Delete("/clear", cartHandler.ClearCart)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/{id}", productHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(RequireAdmin)
			r.Post("/", productHandler.Create)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})
	})

	return r
}
