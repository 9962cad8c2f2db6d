package httpapi

import (
	"net/http"

	"qr-dine/order-svc/internal/service"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterOwnerInput
	if !h.decode(w, r, &in) {
		return
	}
	user, err := h.Auth.RegisterOwner(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	token, err := h.Auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	me, err := h.Auth.Me(r.Context(), principal(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, me)
}

func (h *Handler) createStaff(w http.ResponseWriter, r *http.Request) {
	var in service.CreateStaffInput
	if !h.decode(w, r, &in) {
		return
	}
	member, err := h.Staff.Create(r.Context(), principal(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *Handler) getStaff(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.queryInt(w, r, "restaurant_id")
	if !ok {
		return
	}
	staff, err := h.Staff.List(r.Context(), principal(r), restaurantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

func (h *Handler) deleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Staff.Delete(r.Context(), principal(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
