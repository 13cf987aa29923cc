package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"restaurant-sync/engine"
	"restaurant-sync/models"
	"restaurant-sync/services"
)

// BillSender mails free-form order details for the bill page.
type BillSender interface {
	SendBill(to, orderDetails string) error
}

// Handler exposes the engine's operations over HTTP. Mailer is nil-safe:
// without it /send-bill answers 503.
type Handler struct {
	engine *engine.Engine
	mailer BillSender
}

func NewHandler(e *engine.Engine, mailer BillSender) *Handler {
	return &Handler{engine: e, mailer: mailer}
}

func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	items, err := h.engine.ListMenu(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) AddFoodItem(w http.ResponseWriter, r *http.Request) {
	var req addFoodItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	item, err := h.engine.AddMenuItem(r.Context(), req.Name, req.Price)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) DeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := h.engine.DeleteMenuItem(r.Context(), req.ID); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{Message: "Food item deleted successfully."})
}

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	o, err := h.engine.SubmitOrder(r.Context(), models.SubmitOrderInput{
		TableNumber: req.TableNumber,
		Items:       req.Items,
		TotalPrice:  req.TotalPrice,
	}, req.Email)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	sort := r.URL.Query().Get("sort")
	orders, err := h.engine.ListOrders(r.Context(), sort)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := h.engine.UpdateOrderStatus(r.Context(), req.ID, req.Status); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{Message: "Status updated successfully."})
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := h.engine.DeleteOrder(r.Context(), req.ID); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{Message: "Order deleted successfully."})
}

func (h *Handler) SendBill(w http.ResponseWriter, r *http.Request) {
	var req sendBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "email is required")
		return
	}
	if h.mailer == nil {
		writeError(w, http.StatusServiceUnavailable, "mail_disabled", "SMTP is not configured")
		return
	}
	if err := h.mailer.SendBill(req.Email, req.OrderDetails); err != nil {
		slog.Error("bill mail failed", "error", err)
		writeError(w, http.StatusInternalServerError, "mail_error", "Error sending email.")
		return
	}
	writeJSON(w, http.StatusOK, okResponse{Message: "Email sent successfully."})
}

func writeEngineError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, "validation_error", ve.Error())
		return
	}
	var se *services.StorageError
	if errors.As(err, &se) {
		slog.Error("storage failure", "collection", se.Collection, "op", se.Op, "error", se.Err)
		writeError(w, http.StatusInternalServerError, "storage_error", se.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}
