package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/mocks"
	"qr-dine/order-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	h := NewHandler(Services{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	h.healthCheck(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "order-svc", body["service"])
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   errorResponse
	}{
		{name: "not found", err: domain.NotFound("order"), status: http.StatusNotFound, body: errorResponse{Error: "order not found"}},
		{name: "validation", err: domain.Validation("table", "bad table"), status: http.StatusBadRequest, body: errorResponse{Error: "bad table", Field: "table"}},
		{name: "duplicate", err: domain.Duplicate("order_id", "exists"), status: http.StatusBadRequest, body: errorResponse{Error: "exists", Field: "order_id"}},
		{name: "permission", err: domain.Permission("nope"), status: http.StatusForbidden, body: errorResponse{Error: "nope"}},
		{name: "unauthenticated", err: domain.Unauthenticated("login"), status: http.StatusUnauthorized, body: errorResponse{Error: "login"}},
		{name: "wrapped", err: fmt.Errorf("ctx: %w", domain.NotFound("table")), status: http.StatusNotFound, body: errorResponse{Error: "table not found"}},
		{name: "internal", err: assert.AnError, status: http.StatusInternalServerError, body: errorResponse{Error: "internal server error"}},
	}

	h := NewHandler(Services{}, nil)
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), testCase.err)

			assert.Equal(t, testCase.status, rr.Code)
			var body errorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, testCase.body, body)
		})
	}
}

func TestCreateOrder_Handler(t *testing.T) {
	orders := mocks.NewOrderServiceInterface(t)
	h := NewHandler(Services{Orders: orders}, nil)

	in := service.CreateOrderInput{
		RestaurantID: 1,
		TableID:      2,
		Items:        []service.OrderItemInput{{MenuItemID: 5, Quantity: 2}},
	}
	orders.On("Create", mock.Anything, in).Return(&domain.Order{
		OrderID:      "T2-20240305140709",
		RestaurantID: 1,
		TableID:      2,
		OrderTime:    time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
		Status:       domain.StatusPending,
		TotalCost:    decimal.RequireFromString("17.00"),
	}, nil).Once()

	body := []byte(`{"restaurant": 1, "table": 2, "items": [{"menu_item": 5, "quantity": 2}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	h.createOrder(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "T2-20240305140709", got["order_id"])
	assert.Equal(t, "17.00", got["total_cost"])
	assert.Equal(t, "Pending", got["status"])
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	h := NewHandler(Services{Orders: mocks.NewOrderServiceInterface(t)}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte(`{"restaurant":`)))
	rr := httptest.NewRecorder()

	h.createOrder(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetOrders_QueryParameters(t *testing.T) {
	orders := mocks.NewOrderServiceInterface(t)
	h := NewHandler(Services{Orders: orders}, nil)
	staff := service.StaffPrincipal(3, 1)

	orders.On("List", mock.Anything, staff, service.OrderFilter{RestaurantID: 1, Status: domain.StatusPending}).
		Return([]domain.Order{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/orders?restaurant_id=1&status=Pending", nil)
	req = req.WithContext(service.WithPrincipal(req.Context(), staff))
	rr := httptest.NewRecorder()
	h.getOrders(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/orders?restaurant_id=abc", nil)
	rr = httptest.NewRecorder()
	h.getOrders(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateOrderStatus_Handler(t *testing.T) {
	orders := mocks.NewOrderServiceInterface(t)
	h := NewHandler(Services{Orders: orders}, nil)

	orders.On("UpdateStatus", mock.Anything, service.AnonymousPrincipal(), "T2-20240305140709", domain.StatusCompleted).
		Return(nil, domain.Unauthenticated("authentication required")).Once()

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/T2-20240305140709", bytes.NewReader([]byte(`{"status": "Completed"}`)))
	req = mux.SetURLVars(req, map[string]string{"id": "T2-20240305140709"})
	rr := httptest.NewRecorder()

	h.updateOrderStatus(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetTable_InvalidPathID(t *testing.T) {
	h := NewHandler(Services{Tables: mocks.NewTableServiceInterface(t)}, nil)

	for _, id := range []string{"abc", "0", "-4"} {
		req := httptest.NewRequest(http.MethodGet, "/api/tables/"+id, nil)
		req = mux.SetURLVars(req, map[string]string{"id": id})
		rr := httptest.NewRecorder()

		h.getTable(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code, id)
	}
}

func TestCreateTable_Handler(t *testing.T) {
	tables := mocks.NewTableServiceInterface(t)
	h := NewHandler(Services{Tables: tables}, nil)
	owner := service.OwnerPrincipal(1)

	tables.On("Allocate", mock.Anything, owner, 2).
		Return(&domain.Table{ID: 9, RestaurantID: 2, Name: "Table 1", TableID: "T001"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/tables", bytes.NewReader([]byte(`{"restaurant_id": 2}`)))
	req = req.WithContext(service.WithPrincipal(req.Context(), owner))
	rr := httptest.NewRecorder()

	h.createTable(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id": 9, "restaurant_id": 2, "name": "Table 1", "table_id": "T001"}`, rr.Body.String())
}

func TestAuthenticateMiddleware(t *testing.T) {
	auth := mocks.NewAuthServiceInterface(t)
	h := NewHandler(Services{Auth: auth}, nil)

	var seen service.Principal
	next := h.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = principal(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	auth.On("Authenticate", mock.Anything, "good").Return(service.OwnerPrincipal(4), nil).Once()
	auth.On("Authenticate", mock.Anything, "bad").Return(service.AnonymousPrincipal(), domain.Unauthenticated("invalid token")).Once()
	auth.On("Authenticate", mock.Anything, "broken").Return(service.AnonymousPrincipal(), errors.New("connection refused")).Once()

	tests := []struct {
		name   string
		header string
		status int
		want   service.Principal
	}{
		{name: "no header", status: http.StatusNoContent, want: service.AnonymousPrincipal()},
		{name: "valid token", header: "Bearer good", status: http.StatusNoContent, want: service.OwnerPrincipal(4)},
		{name: "invalid token", header: "Bearer bad", status: http.StatusNoContent, want: service.AnonymousPrincipal()},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusNoContent, want: service.AnonymousPrincipal()},
		{name: "lookup failure", header: "Bearer broken", status: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			seen = service.Principal{Kind: -1}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if testCase.header != "" {
				req.Header.Set("Authorization", testCase.header)
			}
			rr := httptest.NewRecorder()

			next.ServeHTTP(rr, req)

			assert.Equal(t, testCase.status, rr.Code)
			if testCase.status == http.StatusNoContent {
				assert.Equal(t, testCase.want, seen)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rr.Header().Get(requestIDHeader), 36)
}
