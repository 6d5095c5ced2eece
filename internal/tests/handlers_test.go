package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpapi "fastfoodie/internal/api/http"
	"fastfoodie/internal/domain"
	"fastfoodie/internal/mocks"
	"fastfoodie/internal/mw"
	"fastfoodie/internal/service"
)

type handlerFixture struct {
	orders        *mocks.OrderService
	notifications *mocks.NotificationService
	router        *mux.Router
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	f := &handlerFixture{
		orders:        mocks.NewOrderService(t),
		notifications: mocks.NewNotificationService(t),
	}
	f.router = mux.NewRouter()
	httpapi.NewHandler(f.orders, f.notifications).RegisterRoutes(f.router)
	return f
}

func (f *handlerFixture) do(method, path string, body []byte, identity *mw.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if identity != nil {
		req = req.WithContext(mw.WithIdentity(req.Context(), *identity))
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func ownerIdentity(id int) *mw.Identity {
	return &mw.Identity{ID: id, Role: domain.RoleOwner}
}

func partnerIdentity(id int) *mw.Identity {
	return &mw.Identity{ID: id, Role: domain.RoleDeliveryPartner}
}

func customerIdentity(id int) *mw.Identity {
	return &mw.Identity{ID: id, Role: domain.RoleCustomer}
}

func TestHandler_AcceptOrder(t *testing.T) {
	f := newHandlerFixture(t)

	accepted := pendingOrder(62, 3)
	accepted.Status = domain.StatusAccepted
	f.orders.On("AcceptOrder", mock.Anything, 3, 62).Return(accepted, nil).Once()

	rr := f.do(http.MethodPost, "/restaurant/orders/62/accept", nil, ownerIdentity(3))
	assert.Equal(t, http.StatusOK, rr.Code)

	var got domain.Order
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, domain.StatusAccepted, got.Status)
}

func TestHandler_AcceptOrder_Conflict(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("AcceptOrder", mock.Anything, 3, 62).Return(nil, &service.TransitionRejectedError{
		OrderID: 62, Current: "preparing", Requested: "accepted",
	}).Once()

	rr := f.do(http.MethodPost, "/restaurant/orders/62/accept", nil, ownerIdentity(3))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandler_AcceptOrder_WrongRole(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(http.MethodPost, "/restaurant/orders/62/accept", nil, customerIdentity(7))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHandler_AcceptOrder_Unauthenticated(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(http.MethodPost, "/restaurant/orders/62/accept", nil, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHandler_RejectOrder_ReasonRequired(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("RejectOrder", mock.Anything, 3, 62, "").Return(nil, service.ErrReasonRequired).Once()

	rr := f.do(http.MethodPost, "/restaurant/orders/62/reject", []byte(`{"reason":""}`), ownerIdentity(3))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_ClaimOrder_AlreadyTaken(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("ClaimOrder", mock.Anything, 5, 62).Return(nil, service.ErrAssignmentConflict).Once()

	rr := f.do(http.MethodPost, "/delivery/orders/62/accept", nil, partnerIdentity(5))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandler_GetOrder_NotFound(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("GetOrder", mock.Anything, 404).Return(nil, service.ErrOrderNotFound).Once()

	rr := f.do(http.MethodGet, "/orders/404", nil, customerIdentity(7))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_PlaceOrder(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("PlaceOrder", mock.Anything, 7, mock.MatchedBy(func(o *domain.Order) bool {
		return o.RestaurantID == 10
	})).Run(func(args mock.Arguments) {
		order := args.Get(2).(*domain.Order)
		order.ID = 62
		order.Status = domain.StatusPending
	}).Return(nil).Once()

	rr := f.do(http.MethodPost, "/orders", []byte(`{"restaurant_id":10,"total_amount":19.5}`), customerIdentity(7))
	assert.Equal(t, http.StatusCreated, rr.Code)

	var got domain.Order
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 62, got.ID)
}

func TestHandler_PlaceOrder_MissingRestaurant(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(http.MethodPost, "/orders", []byte(`{"total_amount":19.5}`), customerIdentity(7))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_AvailableOrders_EmptyList(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("AvailableForPartner", mock.Anything, 5).Return(nil, nil).Once()

	rr := f.do(http.MethodGet, "/delivery/orders/available", nil, partnerIdentity(5))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestHandler_RestaurantOrders_DefaultsToOngoing(t *testing.T) {
	f := newHandlerFixture(t)

	f.orders.On("RestaurantOrders", mock.Anything, 3, 10, "ongoing").
		Return([]domain.Order{*pendingOrder(62, 3)}, nil).Once()

	rr := f.do(http.MethodGet, "/restaurant/10/orders", nil, ownerIdentity(3))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_OrderQRCode(t *testing.T) {
	f := newHandlerFixture(t)

	png := []byte{0x89, 0x50, 0x4e, 0x47}
	f.orders.On("OrderQRCode", mock.Anything, 62).Return(png, nil).Once()

	rr := f.do(http.MethodGet, "/orders/62/qrcode", nil, customerIdentity(7))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, png, rr.Body.Bytes())
}

func TestHandler_RegisterDevice(t *testing.T) {
	f := newHandlerFixture(t)

	token, err := domain.NewDeviceToken("fcm-token-abc", domain.CustomerRecipient(7))
	assert.NoError(t, err)
	f.notifications.On("RegisterDevice", mock.Anything, domain.CustomerRecipient(7), "fcm-token-abc").
		Return(token, nil).Once()

	rr := f.do(http.MethodPost, "/devices", []byte(`{"token":"fcm-token-abc"}`), customerIdentity(7))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_RegisterDevice_MissingToken(t *testing.T) {
	f := newHandlerFixture(t)

	f.notifications.On("RegisterDevice", mock.Anything, domain.CustomerRecipient(7), "").
		Return(nil, service.ErrTokenRequired).Once()

	rr := f.do(http.MethodPost, "/devices", []byte(`{}`), customerIdentity(7))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_MarkNotificationRead_NotFound(t *testing.T) {
	f := newHandlerFixture(t)

	f.notifications.On("MarkRead", mock.Anything, 15, domain.CustomerRecipient(7)).
		Return(service.ErrNotificationNotFound).Once()

	rr := f.do(http.MethodPost, "/notifications/15/read", nil, customerIdentity(7))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAuthMiddleware(t *testing.T) {
	secret := "test-secret"

	signedToken := func(claims jwt.MapClaims) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := token.SignedString([]byte(secret))
		assert.NoError(t, err)
		return s
	}

	var captured mw.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = mw.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.AuthMiddleware(secret)(next)

	t.Run("valid_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(jwt.MapClaims{
			"sub":  float64(7),
			"role": "customer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, mw.Identity{ID: 7, Role: domain.RoleCustomer}, captured)
	})

	t.Run("missing_header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(jwt.MapClaims{
			"sub":  float64(7),
			"role": "customer",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown_role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(jwt.MapClaims{
			"sub":  float64(7),
			"role": "superuser",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
