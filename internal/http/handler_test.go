package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/catalog"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/inventory"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/order"
)

type stubEngine struct {
	order   *order.Order
	orders  []order.Order
	err     error
	lastIn  order.CreateOrderInput
	actor   string
	target  order.PaymentStatus
	orderID string
}

func (s *stubEngine) CreateOrder(ctx context.Context, in order.CreateOrderInput) (*order.Order, error) {
	s.lastIn = in
	return s.order, s.err
}

func (s *stubEngine) ConfirmPayment(ctx context.Context, orderID string, target order.PaymentStatus, actor string) (*order.Order, error) {
	s.orderID, s.target, s.actor = orderID, target, actor
	return s.order, s.err
}

func (s *stubEngine) CancelOrder(ctx context.Context, orderID, actor string) (*order.Order, error) {
	s.orderID, s.actor = orderID, actor
	return s.order, s.err
}

func (s *stubEngine) ListExpiredUnpaidOrders(ctx context.Context, asOf time.Time) ([]order.Order, error) {
	return s.orders, s.err
}

func (s *stubEngine) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	s.orderID = orderID
	return s.order, s.err
}

func (s *stubEngine) ListOrdersByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return s.orders, s.err
}

type stubProducts struct {
	products []catalog.Product
	err      error
}

func (s *stubProducts) List(ctx context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

type stubSweeper struct{ last time.Time }

func (s *stubSweeper) LastRun() time.Time { return s.last }

func newServer(eng *stubEngine) http.Handler {
	h := NewHandler(eng, &stubProducts{}, &stubSweeper{last: time.Now()}, "628123456789")
	return NewRouter(h)
}

func doRequest(t *testing.T, srv http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func userHeaders() map[string]string  { return map[string]string{HeaderUserID: "user-1"} }
func adminHeaders() map[string]string { return map[string]string{HeaderAdminID: "admin-1"} }

func TestCheckoutRequiresUserHeader(t *testing.T) {
	srv := newServer(&stubEngine{})

	rec := doRequest(t, srv, http.MethodPost, "/api/checkout", `{"items":[]}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutReturnsOrderAndConfirmationLink(t *testing.T) {
	eng := &stubEngine{order: &order.Order{
		ID:          "o1",
		OrderNumber: "LMR-20250314-0001",
		TotalAmount: 3000,
	}}
	srv := newServer(eng)

	body := `{"items":[{"productId":"p1","quantity":2}],"paymentMethod":"transfer"}`
	rec := doRequest(t, srv, http.MethodPost, "/api/checkout", body, userHeaders())

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", eng.lastIn.UserID)
	require.Len(t, eng.lastIn.Items, 1)
	assert.Equal(t, "p1", eng.lastIn.Items[0].ProductID)

	var resp struct {
		Order            *order.Order `json:"order"`
		ConfirmationLink string       `json:"confirmationLink"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "o1", resp.Order.ID)
	assert.Contains(t, resp.ConfirmationLink, "https://wa.me/628123456789?text=")
}

func TestCheckoutRejectsMalformedBody(t *testing.T) {
	srv := newServer(&stubEngine{})

	rec := doRequest(t, srv, http.MethodPost, "/api/checkout", `{"items":`, userHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEngineErrorMapping(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"invalid items":      {order.ErrInvalidItems, http.StatusBadRequest},
		"invalid method":     {order.ErrInvalidPaymentMethod, http.StatusBadRequest},
		"order not found":    {order.ErrNotFound, http.StatusNotFound},
		"product not found":  {catalog.ErrNotFound, http.StatusNotFound},
		"ledger not found":   {inventory.ErrProductNotFound, http.StatusNotFound},
		"unavailable":        {inventory.ErrProductUnavailable, http.StatusUnprocessableEntity},
		"insufficient stock": {inventory.ErrInsufficientStock, http.StatusConflict},
		"bad transition":     {order.ErrInvalidTransition, http.StatusConflict},
		"unexpected":         {errors.New("boom"), http.StatusInternalServerError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := newServer(&stubEngine{err: tt.err})
			body := `{"items":[{"productId":"p1","quantity":1}],"paymentMethod":"cod"}`
			rec := doRequest(t, srv, http.MethodPost, "/api/checkout", body, userHeaders())
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetOrder(t *testing.T) {
	eng := &stubEngine{order: &order.Order{ID: "o1"}}
	srv := newServer(eng)

	rec := doRequest(t, srv, http.MethodGet, "/api/orders/o1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "o1", eng.orderID)
}

func TestGetOrderNotFound(t *testing.T) {
	srv := newServer(&stubEngine{err: order.ErrNotFound})

	rec := doRequest(t, srv, http.MethodGet, "/api/orders/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdatePaymentStatus(t *testing.T) {
	eng := &stubEngine{order: &order.Order{ID: "o1"}}
	srv := newServer(eng)

	rec := doRequest(t, srv, http.MethodPatch, "/api/admin/orders/o1/payment",
		`{"status":"COMPLETED"}`, adminHeaders())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "o1", eng.orderID)
	assert.Equal(t, order.PaymentCompleted, eng.target)
	assert.Equal(t, "admin-1", eng.actor)
}

func TestUpdatePaymentStatusRejectsUnknownStatus(t *testing.T) {
	srv := newServer(&stubEngine{})

	rec := doRequest(t, srv, http.MethodPatch, "/api/admin/orders/o1/payment",
		`{"status":"REFUNDED"}`, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireAdminHeader(t *testing.T) {
	srv := newServer(&stubEngine{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPatch, "/api/admin/orders/o1/payment"},
		{http.MethodPost, "/api/admin/orders/o1/cancel"},
		{http.MethodGet, "/api/admin/orders/expired"},
	} {
		rec := doRequest(t, srv, tc.method, tc.path, `{}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCancelOrder(t *testing.T) {
	eng := &stubEngine{order: &order.Order{ID: "o1", OrderStatus: order.StatusCanceled}}
	srv := newServer(eng)

	rec := doRequest(t, srv, http.MethodPost, "/api/admin/orders/o1/cancel", "", adminHeaders())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "o1", eng.orderID)
	assert.Equal(t, "admin-1", eng.actor)
}

func TestCancelOrderConflict(t *testing.T) {
	srv := newServer(&stubEngine{err: order.ErrInvalidTransition})

	rec := doRequest(t, srv, http.MethodPost, "/api/admin/orders/o1/cancel", "", adminHeaders())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListExpiredOrders(t *testing.T) {
	eng := &stubEngine{orders: []order.Order{{ID: "o1"}, {ID: "o2"}}}
	srv := newServer(eng)

	rec := doRequest(t, srv, http.MethodGet, "/api/admin/orders/expired", "", adminHeaders())

	require.Equal(t, http.StatusOK, rec.Code)
	var got []order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestHealthReportsSweeperLastRun(t *testing.T) {
	srv := newServer(&stubEngine{})

	rec := doRequest(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["sweeperLastRun"])
}
