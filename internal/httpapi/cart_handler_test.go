package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyanka5064/ecom-backend/internal/catalog"
	"github.com/priyanka5064/ecom-backend/internal/domain"
	"github.com/priyanka5064/ecom-backend/internal/repository"
	"github.com/priyanka5064/ecom-backend/internal/service"
)

type serviceMock struct {
	cart   *domain.Cart
	detail *domain.CartDetail
	err    error

	gotUserID    string
	gotProductID int64
	gotQuantity  int
}

func (s *serviceMock) AddItem(_ context.Context, userID string, productID int64, quantity int) (*domain.Cart, error) {
	s.gotUserID, s.gotProductID, s.gotQuantity = userID, productID, quantity
	return s.cart, s.err
}

func (s *serviceMock) GetCart(_ context.Context, userID string) (*domain.CartDetail, error) {
	s.gotUserID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *serviceMock) UpdateQuantity(_ context.Context, userID string, productID int64, quantity int) (*domain.Cart, error) {
	s.gotUserID, s.gotProductID, s.gotQuantity = userID, productID, quantity
	return s.cart, s.err
}

func (s *serviceMock) RemoveItem(_ context.Context, userID string, productID int64) (*domain.Cart, error) {
	s.gotUserID, s.gotProductID = userID, productID
	return s.cart, s.err
}

func (s *serviceMock) ClearCart(_ context.Context, userID string) (*domain.Cart, error) {
	s.gotUserID = userID
	return s.cart, s.err
}

func newCartRequest(t *testing.T, method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	ctx := context.WithValue(req.Context(), userIDKey, "user123")
	return req.WithContext(ctx)
}

func newHandler(mock *serviceMock) *CartHandler {
	return NewCartHandler(mock, time.Second, zerolog.Nop())
}

func decodeCartResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAddItem_OK(t *testing.T) {
	mock := &serviceMock{cart: &domain.Cart{UserID: "user123", TotalPrice: 20}}
	rec := httptest.NewRecorder()

	newHandler(mock).AddItem(rec, newCartRequest(t, http.MethodPost, "/cart", AddItemRequest{ProductID: 1, Quantity: 2}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user123", mock.gotUserID)
	assert.Equal(t, int64(1), mock.gotProductID)
	assert.Equal(t, 2, mock.gotQuantity)
	body := decodeCartResponse(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["cart"])
}

func TestAddItem_OmittedQuantityPassedAsZero(t *testing.T) {
	mock := &serviceMock{cart: &domain.Cart{}}
	rec := httptest.NewRecorder()

	newHandler(mock).AddItem(rec, newCartRequest(t, http.MethodPost, "/cart", map[string]any{"productId": 1}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, mock.gotQuantity, "defaulting happens in the service, not here")
}

func TestAddItem_ProductNotFound(t *testing.T) {
	mock := &serviceMock{err: catalog.ErrProductNotFound}
	rec := httptest.NewRecorder()

	newHandler(mock).AddItem(rec, newCartRequest(t, http.MethodPost, "/cart", AddItemRequest{ProductID: 42}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBufferString("{nope"))
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "user123"))

	newHandler(&serviceMock{}).AddItem(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_Unauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBufferString("{}"))

	newHandler(&serviceMock{}).AddItem(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCart_OK(t *testing.T) {
	mock := &serviceMock{detail: &domain.CartDetail{
		UserID: "user123",
		Items: []domain.LineItemDetail{
			{Product: &domain.Product{ID: 1, Name: "widget", Price: 10}, Quantity: 2},
		},
		TotalPrice: 20,
	}}
	rec := httptest.NewRecorder()

	newHandler(mock).GetCart(rec, newCartRequest(t, http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartResponse(t, rec)
	cart := body["cart"].(map[string]any)
	products := cart["products"].([]any)
	require.Len(t, products, 1)
	line := products[0].(map[string]any)
	assert.Equal(t, "widget", line["product"].(map[string]any)["name"])
}

func TestGetCart_NoCart(t *testing.T) {
	mock := &serviceMock{err: repository.ErrCartNotFound}
	rec := httptest.NewRecorder()

	newHandler(mock).GetCart(rec, newCartRequest(t, http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCart_UnexpectedErrorIsGeneric(t *testing.T) {
	mock := &serviceMock{err: errors.New("mongo: topology is closed")}
	rec := httptest.NewRecorder()

	newHandler(mock).GetCart(rec, newCartRequest(t, http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "something went wrong", body.Error, "internal detail must not leak")
}

func TestUpdateQuantity_OK(t *testing.T) {
	mock := &serviceMock{cart: &domain.Cart{UserID: "user123"}}
	rec := httptest.NewRecorder()

	newHandler(mock).UpdateQuantity(rec, newCartRequest(t, http.MethodPut, "/cart", UpdateQuantityRequest{ProductID: 1, Quantity: 2}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, mock.gotQuantity)
	body := decodeCartResponse(t, rec)
	assert.Equal(t, "quantity updated successfully", body["message"])
}

func TestUpdateQuantity_QuantityOfOneRejected(t *testing.T) {
	rec := httptest.NewRecorder()

	newHandler(&serviceMock{}).UpdateQuantity(rec, newCartRequest(t, http.MethodPut, "/cart", UpdateQuantityRequest{ProductID: 1, Quantity: 1}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuantity_MissingProductID(t *testing.T) {
	rec := httptest.NewRecorder()

	newHandler(&serviceMock{}).UpdateQuantity(rec, newCartRequest(t, http.MethodPut, "/cart", UpdateQuantityRequest{Quantity: 3}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuantity_ItemNotInCart(t *testing.T) {
	mock := &serviceMock{err: service.ErrItemNotFound}
	rec := httptest.NewRecorder()

	newHandler(mock).UpdateQuantity(rec, newCartRequest(t, http.MethodPut, "/cart", UpdateQuantityRequest{ProductID: 9, Quantity: 2}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveItem_OK(t *testing.T) {
	mock := &serviceMock{cart: &domain.Cart{UserID: "user123"}}
	rec := httptest.NewRecorder()

	newHandler(mock).RemoveItem(rec, newCartRequest(t, http.MethodDelete, "/cart", RemoveItemRequest{ProductID: 1}))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartResponse(t, rec)
	assert.Equal(t, "product removed from cart successfully", body["message"])
}

func TestRemoveItem_MissingProductID(t *testing.T) {
	rec := httptest.NewRecorder()

	newHandler(&serviceMock{}).RemoveItem(rec, newCartRequest(t, http.MethodDelete, "/cart", RemoveItemRequest{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveItem_NoCart(t *testing.T) {
	mock := &serviceMock{err: repository.ErrCartNotFound}
	rec := httptest.NewRecorder()

	newHandler(mock).RemoveItem(rec, newCartRequest(t, http.MethodDelete, "/cart", RemoveItemRequest{ProductID: 1}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearCart_OK(t *testing.T) {
	mock := &serviceMock{cart: &domain.Cart{UserID: "user123", Items: []domain.LineItem{}}}
	rec := httptest.NewRecorder()

	newHandler(mock).ClearCart(rec, newCartRequest(t, http.MethodDelete, "/cart/clear", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartResponse(t, rec)
	assert.Equal(t, "cart cleared successfully", body["message"])
}

func TestClearCart_NoCart(t *testing.T) {
	mock := &serviceMock{err: repository.ErrCartNotFound}
	rec := httptest.NewRecorder()

	newHandler(mock).ClearCart(rec, newCartRequest(t, http.MethodDelete, "/cart/clear", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
