package httpapi

import (
	"net/http"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/service"

	"github.com/gorilla/mux"
)

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in service.CreateOrderInput
	if !h.decode(w, r, &in) {
		return
	}
	order, err := h.Orders.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.queryInt(w, r, "restaurant_id")
	if !ok {
		return
	}
	filter := service.OrderFilter{
		RestaurantID: restaurantID,
		Status:       domain.OrderStatus(r.URL.Query().Get("status")),
	}
	orders, err := h.Orders.List(r.Context(), principal(r), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), principal(r), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status domain.OrderStatus `json:"status"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), principal(r), mux.Vars(r)["id"], in.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Delete(r.Context(), principal(r), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RestaurantID int `json:"restaurant_id"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	table, err := h.Tables.Allocate(r.Context(), principal(r), in.RestaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

func (h *Handler) getTables(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.queryInt(w, r, "restaurant_id")
	if !ok {
		return
	}
	tables, err := h.Tables.List(r.Context(), principal(r), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	table, err := h.Tables.Get(r.Context(), principal(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handler) deleteTable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Tables.Delete(r.Context(), principal(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getTableQRCode(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "restaurantId")
	if !ok {
		return
	}
	tableID, ok := h.pathID(w, r, "tableId")
	if !ok {
		return
	}
	png, err := h.QR.Generate(restaurantID, tableID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
