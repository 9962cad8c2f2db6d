package httpapi

import (
	"net/http"

	"qr-dine/order-svc/internal/domain"
)

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest domain.Restaurant
	if !h.decode(w, r, &rest) {
		return
	}
	if err := h.Restaurants.Create(r.Context(), principal(r), &rest); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.List(r.Context(), principal(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	rest, err := h.Restaurants.Get(r.Context(), principal(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var rest domain.Restaurant
	if !h.decode(w, r, &rest) {
		return
	}
	rest.ID = id
	if err := h.Restaurants.Update(r.Context(), principal(r), &rest); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Restaurants.Delete(r.Context(), principal(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getRestaurantStats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	stats, err := h.Stats.Daily(r.Context(), principal(r), id, r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var cat domain.FoodCategory
	if !h.decode(w, r, &cat) {
		return
	}
	if err := h.Categories.Create(r.Context(), principal(r), &cat); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.queryInt(w, r, "restaurant_id")
	if !ok {
		return
	}
	categories, err := h.Categories.List(r.Context(), principal(r), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	cat, err := h.Categories.Get(r.Context(), principal(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var cat domain.FoodCategory
	if !h.decode(w, r, &cat) {
		return
	}
	cat.ID = id
	if err := h.Categories.Update(r.Context(), principal(r), &cat); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Categories.Delete(r.Context(), principal(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	item := domain.MenuItem{Available: true}
	if !h.decode(w, r, &item) {
		return
	}
	if err := h.Menu.Create(r.Context(), principal(r), &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) getMenuItems(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.queryInt(w, r, "restaurant_id")
	if !ok {
		return
	}
	categoryID, ok := h.queryInt(w, r, "category_id")
	if !ok {
		return
	}
	items, err := h.Menu.List(r.Context(), principal(r), restaurantID, categoryID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.Menu.Get(r.Context(), principal(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	item := domain.MenuItem{Available: true}
	if !h.decode(w, r, &item) {
		return
	}
	item.ID = id
	if err := h.Menu.Update(r.Context(), principal(r), &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Menu.Delete(r.Context(), principal(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getOrderPage(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.pathID(w, r, "restaurantId")
	if !ok {
		return
	}
	tableID, ok := h.pathID(w, r, "tableId")
	if !ok {
		return
	}
	page, err := h.Menu.OrderPage(r.Context(), restaurantID, tableID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
