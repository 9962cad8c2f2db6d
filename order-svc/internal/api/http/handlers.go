package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/service"
	"qr-dine/pkg/logger"

	"github.com/gorilla/mux"
)

type Services struct {
	Auth        service.AuthServiceInterface
	Staff       service.StaffServiceInterface
	Restaurants service.RestaurantServiceInterface
	Categories  service.CategoryServiceInterface
	Menu        service.MenuServiceInterface
	Tables      service.TableServiceInterface
	Orders      service.OrderServiceInterface
	Stats       service.StatsServiceInterface
	QR          service.QRGenerator
}

type Handler struct {
	Services
	log *logger.Logger
}

func NewHandler(services Services, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{Services: services, log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/me", h.me).Methods("GET")

	r.HandleFunc("/api/restaurants", h.createRestaurant).Methods("POST")
	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.updateRestaurant).Methods("PUT")
	r.HandleFunc("/api/restaurants/{id}", h.deleteRestaurant).Methods("DELETE")
	r.HandleFunc("/api/restaurants/{id}/stats", h.getRestaurantStats).Methods("GET")

	r.HandleFunc("/api/categories", h.createCategory).Methods("POST")
	r.HandleFunc("/api/categories", h.getCategories).Methods("GET")
	r.HandleFunc("/api/categories/{id}", h.getCategory).Methods("GET")
	r.HandleFunc("/api/categories/{id}", h.updateCategory).Methods("PUT")
	r.HandleFunc("/api/categories/{id}", h.deleteCategory).Methods("DELETE")

	r.HandleFunc("/api/menu", h.createMenuItem).Methods("POST")
	r.HandleFunc("/api/menu", h.getMenuItems).Methods("GET")
	r.HandleFunc("/api/menu/{id}", h.getMenuItem).Methods("GET")
	r.HandleFunc("/api/menu/{id}", h.updateMenuItem).Methods("PUT")
	r.HandleFunc("/api/menu/{id}", h.deleteMenuItem).Methods("DELETE")

	r.HandleFunc("/api/tables", h.createTable).Methods("POST")
	r.HandleFunc("/api/tables", h.getTables).Methods("GET")
	r.HandleFunc("/api/tables/{id}", h.getTable).Methods("GET")
	r.HandleFunc("/api/tables/{id}", h.deleteTable).Methods("DELETE")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.updateOrderStatus).Methods("PATCH")
	r.HandleFunc("/api/orders/{id}", h.deleteOrder).Methods("DELETE")

	r.HandleFunc("/api/staff", h.createStaff).Methods("POST")
	r.HandleFunc("/api/staff", h.getStaff).Methods("GET")
	r.HandleFunc("/api/staff/{id}", h.deleteStaff).Methods("DELETE")

	r.HandleFunc("/order/{restaurantId}/{tableId}", h.getOrderPage).Methods("GET")
	r.HandleFunc("/order/{restaurantId}/{tableId}/", h.getOrderPage).Methods("GET")
	r.HandleFunc("/qrcode/{restaurantId}/{tableId}", h.getTableQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain error kinds to HTTP statuses. Anything else is a
// 500 and is logged.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		status := http.StatusInternalServerError
		switch derr.Kind {
		case domain.KindNotFound:
			status = http.StatusNotFound
		case domain.KindValidation:
			status = http.StatusBadRequest
		case domain.KindPermission:
			status = http.StatusForbidden
		case domain.KindUnauthenticated:
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, errorResponse{Error: derr.Message, Field: derr.Field})
		return
	}

	h.log.Error("http_request", logger.RequestID(r.Context()), "request failed", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// pathID parses a numeric path variable. Anything else cannot name a
// resource and is answered with 404.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return 0, false
	}
	return id, true
}

// queryInt parses an optional numeric query parameter; absent means 0.
func (h *Handler) queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "a valid integer is required", Field: name})
		return 0, false
	}
	return v, true
}

func principal(r *http.Request) service.Principal {
	return service.PrincipalFrom(r.Context())
}
