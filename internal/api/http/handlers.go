package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fastfoodie/internal/domain"
	"fastfoodie/internal/mw"
	"fastfoodie/internal/service"
)

type Handler struct {
	Orders        service.OrderServiceInterface
	Notifications service.NotificationServiceInterface
}

func NewHandler(orders service.OrderServiceInterface, notifications service.NotificationServiceInterface) *Handler {
	return &Handler{Orders: orders, Notifications: notifications}
}

// RegisterRoutes mounts all API endpoints. The router passed in is
// expected to already carry the auth middleware.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Customer.
	r.HandleFunc("/orders", mw.RequireRole(domain.RoleCustomer, h.placeOrder)).Methods("POST")
	r.HandleFunc("/customer/orders", mw.RequireRole(domain.RoleCustomer, h.customerOrders)).Methods("GET")

	// Shared order views.
	r.HandleFunc("/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/orders/{id}/qrcode", h.orderQRCode).Methods("GET")

	// Restaurant track, owner-gated.
	r.HandleFunc("/restaurant/orders/{id}/accept", mw.RequireRole(domain.RoleOwner, h.acceptOrder)).Methods("POST")
	r.HandleFunc("/restaurant/orders/{id}/reject", mw.RequireRole(domain.RoleOwner, h.rejectOrder)).Methods("POST")
	r.HandleFunc("/restaurant/orders/{id}/preparing", mw.RequireRole(domain.RoleOwner, h.startPreparing)).Methods("POST")
	r.HandleFunc("/restaurant/orders/{id}/ready", mw.RequireRole(domain.RoleOwner, h.markReady)).Methods("POST")
	r.HandleFunc("/restaurant/orders/{id}/handover", mw.RequireRole(domain.RoleOwner, h.handOver)).Methods("POST")
	r.HandleFunc("/restaurant/{restaurantId}/orders", mw.RequireRole(domain.RoleOwner, h.restaurantOrders)).Methods("GET")

	// Partner track.
	r.HandleFunc("/delivery/orders/available", mw.RequireRole(domain.RoleDeliveryPartner, h.availableOrders)).Methods("GET")
	r.HandleFunc("/delivery/orders/active", mw.RequireRole(domain.RoleDeliveryPartner, h.activeOrders)).Methods("GET")
	r.HandleFunc("/delivery/orders/completed", mw.RequireRole(domain.RoleDeliveryPartner, h.completedOrders)).Methods("GET")
	r.HandleFunc("/delivery/orders/{id}/accept", mw.RequireRole(domain.RoleDeliveryPartner, h.claimOrder)).Methods("POST")
	r.HandleFunc("/delivery/orders/{id}/reached", mw.RequireRole(domain.RoleDeliveryPartner, h.reachRestaurant)).Methods("POST")
	r.HandleFunc("/delivery/orders/{id}/picked-up", mw.RequireRole(domain.RoleDeliveryPartner, h.pickUp)).Methods("POST")
	r.HandleFunc("/delivery/orders/{id}/complete", mw.RequireRole(domain.RoleDeliveryPartner, h.completeDelivery)).Methods("POST")
	r.HandleFunc("/delivery/orders/{id}/release", mw.RequireRole(domain.RoleDeliveryPartner, h.releaseOrder)).Methods("POST")

	// Notifications and device registration, any authenticated role.
	r.HandleFunc("/devices", h.registerDevice).Methods("POST")
	r.HandleFunc("/notifications", h.listNotifications).Methods("GET")
	r.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods("POST")
}

// pathID parses the {id} path variable, whatever resource it names.
func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func caller(r *http.Request) mw.Identity {
	identity, _ := mw.FromContext(r.Context())
	return identity
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Only errors that affect state consistency reach here; fanout errors
// are absorbed before the response is written.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrNotificationNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrAssignmentConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrTransitionRejected):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrNotOrderOwner), errors.Is(err, service.ErrNotAssignedPartner),
		errors.Is(err, service.ErrPartnerUnavailable):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrReasonRequired), errors.Is(err, service.ErrTokenRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if order.RestaurantID <= 0 {
		http.Error(w, "restaurant_id is required", http.StatusBadRequest)
		return
	}

	if err := h.Orders.PlaceOrder(r.Context(), caller(r).ID, &order); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.GetOrder(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) orderQRCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.Orders.OrderQRCode(r.Context(), pathID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(code)
}

// Restaurant track.

func (h *Handler) acceptOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.AcceptOrder(r.Context(), caller(r).ID, pathID(r))
	})
}

func (h *Handler) rejectOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.RejectOrder(r.Context(), caller(r).ID, pathID(r), payload.Reason)
	})
}

func (h *Handler) startPreparing(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.StartPreparing(r.Context(), caller(r).ID, pathID(r))
	})
}

func (h *Handler) markReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.MarkReady(r.Context(), caller(r).ID, pathID(r))
	})
}

func (h *Handler) handOver(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.HandOver(r.Context(), caller(r).ID, pathID(r))
	})
}

func (h *Handler) restaurantOrders(w http.ResponseWriter, r *http.Request) {
	restaurantID, _ := strconv.Atoi(mux.Vars(r)["restaurantId"])
	view := r.URL.Query().Get("view")
	if view == "" {
		view = "ongoing"
	}

	orders, err := h.Orders.RestaurantOrders(r.Context(), caller(r).ID, restaurantID, view)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(orders))
}

// Partner track.

func (h *Handler) claimOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.ClaimOrder(r.Context(), caller(r).ID, pathID(r))
	})
}

func (h *Handler) reachRestaurant(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.ReachRestaurant(r.Context(), caller(r).ID, pathID(r))
	})
}

func (h *Handler) pickUp(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.PickUp(r.Context(), caller(r).ID, pathID(r))
	})
}

func (h *Handler) completeDelivery(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.CompleteDelivery(r.Context(), caller(r).ID, pathID(r))
	})
}

func (h *Handler) releaseOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func() (*domain.Order, error) {
		return h.Orders.ReleaseOrder(r.Context(), caller(r).ID, pathID(r))
	})
}

func (h *Handler) availableOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.AvailableForPartner(r.Context(), caller(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(orders))
}

func (h *Handler) activeOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ActiveForPartner(r.Context(), caller(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(orders))
}

func (h *Handler) completedOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.CompletedForPartner(r.Context(), caller(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(orders))
}

func (h *Handler) customerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.CustomerOrders(r.Context(), caller(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(orders))
}

// Notifications and devices.

func (h *Handler) registerDevice(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	identity := caller(r)
	token, err := h.Notifications.RegisterDevice(r.Context(), domain.Recipient{Role: identity.Role, ID: identity.ID}, payload.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	identity := caller(r)
	notifications, err := h.Notifications.List(r.Context(), domain.Recipient{Role: identity.Role, ID: identity.ID}, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	identity := caller(r)
	err := h.Notifications.MarkRead(r.Context(), pathID(r), domain.Recipient{Role: identity.Role, ID: identity.ID})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func() (*domain.Order, error)) {
	order, err := apply()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func emptyIfNil(orders []domain.Order) []domain.Order {
	if orders == nil {
		return []domain.Order{}
	}
	return orders
}
