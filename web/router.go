package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/menu", h.Menu)
	r.Post("/submit-order", h.SubmitOrder)
	r.Post("/send-bill", h.SendBill)
	r.Get("/ws", h.ServeWS)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/orders", h.Orders)
		r.Post("/add-food-item", h.AddFoodItem)
		r.Post("/delete-food-item", h.DeleteFoodItem)
		r.Post("/update-status", h.UpdateStatus)
		r.Post("/delete-order", h.DeleteOrder)
	})
	return r
}
