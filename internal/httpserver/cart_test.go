package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"luxe-atelier/internal/domain"
	snapshotrepo "luxe-atelier/internal/repository/snapshot"
	cartsvc "luxe-atelier/internal/service/cart"
)

type stubCartService struct {
	err error
}

func (s *stubCartService) result() (*cartsvc.Summary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &cartsvc.Summary{Key: "stub"}, nil
}

func (s *stubCartService) Get(context.Context, string) (*cartsvc.Summary, error) {
	return s.result()
}

func (s *stubCartService) AddItem(context.Context, string, domain.LineCandidate) (*cartsvc.Summary, error) {
	return s.result()
}

func (s *stubCartService) RemoveItem(context.Context, string, string) (*cartsvc.Summary, error) {
	return s.result()
}

func (s *stubCartService) UpdateQuantity(context.Context, string, string, int) (*cartsvc.Summary, error) {
	return s.result()
}

func (s *stubCartService) Clear(context.Context, string) (*cartsvc.Summary, error) {
	return s.result()
}

func (s *stubCartService) Open(context.Context, string) (*cartsvc.Summary, error) {
	return s.result()
}

func (s *stubCartService) Close(context.Context, string) (*cartsvc.Summary, error) {
	return s.result()
}

func (s *stubCartService) Toggle(context.Context, string) (*cartsvc.Summary, error) {
	return s.result()
}

func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), deps, nil)
	require.NoError(t, err)
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func liveRouter(t *testing.T) *gin.Engine {
	t.Helper()
	repo := snapshotrepo.NewMemory()
	return testRouter(t, Deps{CartSvc: cartsvc.New(repo, logDiscard(), "luxe-atelier-cart", 0), Snapshot: repo})
}

const scarfJSON = `{"productId":"p1","variantId":"v1","name":"Silk Scarf","price":100,"originalPrice":"140","image":"/scarf.jpg","size":"OS","color":"Ivory","quantity":%d,"maxQuantity":5}`

func scarfBody(qty int) string {
	return fmt.Sprintf(scarfJSON, qty)
}

func TestCartAPI_EmptyCart(t *testing.T) {
	router := liveRouter(t)
	out := decodeCart(t, do(router, http.MethodGet, "/carts/s1", ""))

	assert.Equal(t, "s1", out.Key)
	assert.Empty(t, out.Items)
	assert.False(t, out.IsOpen)
	assert.Equal(t, "0.00", out.Subtotal)
	assert.Equal(t, "25.00", out.Shipping)
	assert.Equal(t, "25.00", out.Total)
	assert.Equal(t, "USD", out.Currency)
	assert.False(t, out.FreeShipping.Qualified)
	assert.Equal(t, "500.00", out.FreeShipping.Remaining)
}

func TestCartAPI_AddMergeAndTotals(t *testing.T) {
	router := liveRouter(t)

	out := decodeCart(t, do(router, http.MethodPost, "/carts/s1/items", scarfBody(1)))
	require.Len(t, out.Items, 1)
	assert.True(t, out.IsOpen)
	assert.Equal(t, "100.00", out.Subtotal)
	assert.Equal(t, "8.00", out.Tax)
	assert.Equal(t, "25.00", out.Shipping)
	assert.Equal(t, "133.00", out.Total)
	assert.Equal(t, "$133.00", out.Formatted.Total)
	assert.Equal(t, "140.00", out.Items[0].OriginalPrice)

	out = decodeCart(t, do(router, http.MethodPost, "/carts/s1/items", scarfBody(3)))
	require.Len(t, out.Items, 1)
	assert.Equal(t, 4, out.Items[0].Quantity)
	assert.Equal(t, "457.00", out.Total)
	assert.Equal(t, "100.00", out.FreeShipping.Remaining)
	assert.Equal(t, "80.00", out.FreeShipping.Progress)

	out = decodeCart(t, do(router, http.MethodPost, "/carts/s1/items", scarfBody(6)))
	assert.Equal(t, 5, out.Items[0].Quantity)
	assert.True(t, out.Items[0].AtMax)
	assert.Equal(t, "0.00", out.Shipping)
	assert.Equal(t, "Free", out.Formatted.Shipping)
	assert.Equal(t, "540.00", out.Total)
	assert.True(t, out.FreeShipping.Qualified)
}

func TestCartAPI_UpdateRemoveClear(t *testing.T) {
	router := liveRouter(t)
	out := decodeCart(t, do(router, http.MethodPost, "/carts/s1/items", scarfBody(2)))
	lineID := out.Items[0].ID

	out = decodeCart(t, do(router, http.MethodPatch, "/carts/s1/items/"+lineID, `{"quantity":9}`))
	assert.Equal(t, 5, out.Items[0].Quantity)

	out = decodeCart(t, do(router, http.MethodDelete, "/carts/s1/items/not-a-line", ""))
	assert.Len(t, out.Items, 1)

	out = decodeCart(t, do(router, http.MethodPatch, "/carts/s1/items/"+lineID, `{"quantity":0}`))
	assert.Empty(t, out.Items)

	decodeCart(t, do(router, http.MethodPost, "/carts/s1/items", scarfBody(1)))
	out = decodeCart(t, do(router, http.MethodDelete, "/carts/s1/items", ""))
	assert.Empty(t, out.Items)
	assert.True(t, out.IsOpen)
}

func TestCartAPI_DrawerFlag(t *testing.T) {
	router := liveRouter(t)
	assert.True(t, decodeCart(t, do(router, http.MethodPost, "/carts/s1/open", "")).IsOpen)
	assert.False(t, decodeCart(t, do(router, http.MethodPost, "/carts/s1/close", "")).IsOpen)
	assert.True(t, decodeCart(t, do(router, http.MethodPost, "/carts/s1/toggle", "")).IsOpen)
}

func TestCartAPI_BadRequests(t *testing.T) {
	router := liveRouter(t)

	cases := []struct {
		name, method, path, body string
	}{
		{"malformed json", http.MethodPost, "/carts/s1/items", `{"productId":`},
		{"invalid candidate", http.MethodPost, "/carts/s1/items", `{"productId":"p1","variantId":"","price":1,"quantity":1,"maxQuantity":1}`},
		{"invalid cart key", http.MethodGet, "/carts/bad%20key", ""},
		{"missing quantity", http.MethodPatch, "/carts/s1/items/l1", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(router, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCartAPI_InternalError(t *testing.T) {
	router := testRouter(t, Deps{CartSvc: &stubCartService{err: errors.New("boom")}})
	rec := do(router, http.MethodGet, "/carts/s1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
