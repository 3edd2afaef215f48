package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/catalog"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/contact"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/inventory"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/order"
)

// Engine is the slice of the order lifecycle engine the HTTP layer uses.
type Engine interface {
	CreateOrder(ctx context.Context, in order.CreateOrderInput) (*order.Order, error)
	ConfirmPayment(ctx context.Context, orderID string, target order.PaymentStatus, actor string) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID, actor string) (*order.Order, error)
	ListExpiredUnpaidOrders(ctx context.Context, asOf time.Time) ([]order.Order, error)
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]order.Order, error)
}

type ProductLister interface {
	List(ctx context.Context) ([]catalog.Product, error)
}

type LastRunner interface {
	LastRun() time.Time
}

type Handler struct {
	engine        Engine
	products      ProductLister
	sweeper       LastRunner
	contactNumber string
}

func NewHandler(engine Engine, products ProductLister, sweeper LastRunner, contactNumber string) *Handler {
	return &Handler{
		engine:        engine,
		products:      products,
		sweeper:       sweeper,
		contactNumber: contactNumber,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"service": "lumera-shop",
	}
	if h.sweeper != nil {
		if last := h.sweeper.LastRun(); !last.IsZero() {
			resp["sweeperLastRun"] = last.UTC().Format(time.RFC3339)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.products.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

type checkoutResponse struct {
	Order            *order.Order `json:"order"`
	ConfirmationLink string       `json:"confirmationLink"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var in order.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.UserID = UserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.engine.CreateOrder(ctx, in)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{
		Order:            o,
		ConfirmationLink: contact.ConfirmationLink(h.contactNumber, o),
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.engine.GetOrder(ctx, orderID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) ListOrdersByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.engine.ListOrdersByUser(ctx, userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

type updatePaymentRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, ok := order.ParsePaymentStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown payment status: "+req.Status)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.engine.ConfirmPayment(ctx, orderID, target, AdminID(r.Context()))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.engine.CancelOrder(ctx, orderID, AdminID(r.Context()))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) ListExpiredOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.engine.ListExpiredUnpaidOrders(ctx, time.Now())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// writeEngineError maps engine errors onto the API contract. Validation
// problems are 4xx "fix your request"; conflicts are 409 "someone else got
// there first"; anything unexpected stays a generic 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrInvalidItems),
		errors.Is(err, order.ErrInvalidPaymentMethod),
		errors.Is(err, inventory.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, inventory.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, inventory.ErrProductUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "product unavailable")
	case errors.Is(err, inventory.ErrInsufficientStock):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
