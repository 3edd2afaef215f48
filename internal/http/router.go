package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", h.Health)

	r.Get("/api/products", h.ListProducts)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/api/checkout", h.Checkout)
	})

	r.Get("/api/orders/{orderId}", h.GetOrder)
	r.Get("/api/users/{userId}/orders", h.ListOrdersByUser)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Patch("/orders/{orderId}/payment", h.UpdatePaymentStatus)
		r.Post("/orders/{orderId}/cancel", h.CancelOrder)
		r.Get("/orders/expired", h.ListExpiredOrders)
	})

	return r
}
