package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/sqlcart/internal/domain"
	httpH "github.com/nikolayk812/sqlcart/internal/http/handlers"
	httpMW "github.com/nikolayk812/sqlcart/internal/http/middleware"
	"github.com/nikolayk812/sqlcart/internal/logger"
	"github.com/nikolayk812/sqlcart/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// stubCarts keeps one cart in memory and records the identities it resolved.
type stubCarts struct {
	httpH.CartService

	cart       domain.Cart
	token      string
	identities []domain.Identity

	added     []domain.CartItem
	addErr    error
	removeErr error
	loginUser string
}

func (s *stubCarts) Resolve(_ context.Context, id domain.Identity) (service.Resolution, error) {
	s.identities = append(s.identities, id)

	token := id.SessionToken
	if token == "" {
		token = s.token
	}
	return service.Resolution{Cart: s.cart, SessionToken: token}, nil
}

func (s *stubCarts) Summarize(_ context.Context, cart domain.Cart) (service.Summary, error) {
	cart.Items = s.added
	total, err := cart.Total()
	if err != nil {
		return service.Summary{}, err
	}
	return service.Summary{
		Cart:           cart,
		Total:          total,
		Shipping:       domain.ZeroMoney(cart.Currency),
		TotalInclusive: total,
		Counts:         cart.Counts(),
	}, nil
}

func (s *stubCarts) Add(_ context.Context, cart domain.Cart, product domain.ProductRef, price domain.Money, quantity int) (domain.CartItem, error) {
	if s.addErr != nil {
		return domain.CartItem{}, s.addErr
	}
	if price.Currency != cart.Currency {
		return domain.CartItem{}, domain.ErrCurrencyMismatch
	}
	if quantity < 1 {
		return domain.CartItem{}, domain.ErrInvalidQuantity
	}

	item := domain.CartItem{ID: uuid.New(), Product: product, Price: price, Quantity: quantity}
	s.added = append(s.added, item)
	return item, nil
}

func (s *stubCarts) RemoveItem(context.Context, domain.Cart, uuid.UUID) error {
	return s.removeErr
}

func (s *stubCarts) Checkout(_ context.Context, cart domain.Cart) (domain.Cart, error) {
	cart.CheckedOut = true
	return cart, nil
}

func (s *stubCarts) MergeOnLogin(_ context.Context, token, userID string) (service.Resolution, error) {
	s.loginUser = userID
	cart := s.cart
	cart.OwnerID = userID
	return service.Resolution{Cart: cart, SessionToken: token}, nil
}

// LastCart mirrors the service contract: a cart owned by someone else is never handed over.
func (s *stubCarts) LastCart(_ context.Context, current domain.Cart, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, domain.ErrUserNotFound
	}
	if !current.IsAnonymous() && current.OwnerID != ownerID {
		return domain.Cart{ID: uuid.New(), OwnerID: ownerID, Currency: current.Currency}, nil
	}
	current.OwnerID = ownerID
	return current, nil
}

func newTestRouter(t *testing.T, carts *stubCarts) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Wrap(zap.NewNop())
	return NewRouter(RouterConfig{
		CartHandler:        httpH.NewCartHandler(log, carts, httpH.CookieConfig{MaxAge: 3600}),
		IdentityMiddleware: httpMW.NewIdentityMiddleware(log),
		HealthHandler: httpH.NewHealthHandler(map[string]httpH.Pinger{
			"postgres": httpH.PingFunc(func(context.Context) error { return nil }),
		}),
	})
}

func newStubCarts() *stubCarts {
	return &stubCarts{
		cart:  domain.Cart{ID: uuid.New(), Currency: currency.EUR},
		token: "fresh-token",
	}
}

func do(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCartSetsSessionCookie(t *testing.T) {
	carts := newStubCarts()
	r := newTestRouter(t, carts)

	w := do(r, nethttp.MethodGet, "/api/cart", nil, nil)
	require.Equal(t, nethttp.StatusOK, w.Code)

	var view httpH.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, carts.cart.ID, view.ID)
	assert.Equal(t, "EUR", view.Currency)
	assert.Equal(t, "0.00", view.Total)
	assert.True(t, view.IsEmpty)
	assert.Empty(t, view.Items)

	require.Len(t, carts.identities, 1)
	assert.Equal(t, domain.IdentityNone, carts.identities[0].Kind)

	assert.Contains(t, w.Header().Get("Set-Cookie"), httpMW.SessionCookie+"=fresh-token")
	assert.Equal(t, "fresh-token", w.Header().Get(httpMW.SessionHeader))
}

func TestIdentityExtraction(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    domain.Identity
	}{
		{
			name:    "user with session header",
			headers: map[string]string{httpMW.UserHeader: "user-1", httpMW.SessionHeader: "tok"},
			want:    domain.AuthenticatedUser("user-1", "tok"),
		},
		{
			name:    "session cookie",
			headers: map[string]string{"Cookie": httpMW.SessionCookie + "=cookie-tok"},
			want:    domain.AnonymousSession("cookie-tok"),
		},
		{
			name: "cookie wins over header",
			headers: map[string]string{
				"Cookie":             httpMW.SessionCookie + "=cookie-tok",
				httpMW.SessionHeader: "header-tok",
			},
			want: domain.AnonymousSession("cookie-tok"),
		},
		{
			name: "nothing",
			want: domain.NoIdentity(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := newStubCarts()
			r := newTestRouter(t, carts)

			w := do(r, nethttp.MethodGet, "/api/cart", nil, tt.headers)
			require.Equal(t, nethttp.StatusOK, w.Code)

			require.Len(t, carts.identities, 1)
			assert.Equal(t, tt.want, carts.identities[0])
		})
	}
}

func TestAddItem(t *testing.T) {
	carts := newStubCarts()
	r := newTestRouter(t, carts)

	w := do(r, nethttp.MethodPost, "/api/cart/items", map[string]any{
		"product_kind": "book",
		"product_id":   "42",
		"price":        "10.50",
	}, nil)
	require.Equal(t, nethttp.StatusCreated, w.Code)

	var item httpH.ItemView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "book", item.ProductKind)
	assert.Equal(t, "42", item.ProductID)
	assert.Equal(t, 1, item.Quantity, "quantity defaults to one")
	assert.Equal(t, "10.50", item.UnitPrice)
	assert.Equal(t, "EUR", item.Currency)

	w = do(r, nethttp.MethodPost, "/api/cart/items", map[string]any{
		"product_kind": "book",
		"product_id":   "43",
		"price":        "0.1",
		"quantity":     3,
	}, nil)
	require.Equal(t, nethttp.StatusCreated, w.Code)

	w = do(r, nethttp.MethodGet, "/api/cart", nil, nil)
	require.Equal(t, nethttp.StatusOK, w.Code)

	var view httpH.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "10.80", view.Total)
	assert.Equal(t, int64(4), view.Count)
	assert.Equal(t, int64(2), view.UniqueCount)
	assert.Len(t, view.Items, 2)
	assert.True(t, decimal.RequireFromString(view.Items[1].TotalPrice).Equal(decimal.RequireFromString("0.3")))
}

func TestAddItemErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		addErr   error
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing product",
			body:     map[string]any{"price": "1"},
			wantCode: nethttp.StatusBadRequest,
			wantErr:  "invalid_request",
		},
		{
			name:     "bad price",
			body:     map[string]any{"product_kind": "book", "product_id": "1", "price": "ten"},
			wantCode: nethttp.StatusBadRequest,
			wantErr:  "invalid_request",
		},
		{
			name:     "foreign currency",
			body:     map[string]any{"product_kind": "book", "product_id": "1", "price": "1", "currency": "USD"},
			wantCode: nethttp.StatusBadRequest,
			wantErr:  "currency_mismatch",
		},
		{
			name:     "zero quantity",
			body:     map[string]any{"product_kind": "book", "product_id": "1", "price": "1", "quantity": 0},
			wantCode: nethttp.StatusBadRequest,
			wantErr:  "invalid_quantity",
		},
		{
			name:     "backend failure hides message",
			body:     map[string]any{"product_kind": "book", "product_id": "1", "price": "1"},
			addErr:   errors.New("connection reset"),
			wantCode: nethttp.StatusInternalServerError,
			wantErr:  "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := newStubCarts()
			carts.addErr = tt.addErr
			r := newTestRouter(t, carts)

			w := do(r, nethttp.MethodPost, "/api/cart/items", tt.body, nil)
			require.Equal(t, tt.wantCode, w.Code)

			var env struct {
				Error struct {
					Message string `json:"message"`
					Code    string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, tt.wantErr, env.Error.Code)
			assert.NotContains(t, env.Error.Message, "connection reset")
		})
	}
}

func TestRemoveItem(t *testing.T) {
	carts := newStubCarts()
	r := newTestRouter(t, carts)

	w := do(r, nethttp.MethodDelete, "/api/cart/items/"+uuid.NewString(), nil, nil)
	assert.Equal(t, nethttp.StatusNoContent, w.Code)

	carts.removeErr = domain.ErrItemNotFound
	w = do(r, nethttp.MethodDelete, "/api/cart/items/"+uuid.NewString(), nil, nil)
	assert.Equal(t, nethttp.StatusNotFound, w.Code)

	w = do(r, nethttp.MethodDelete, "/api/cart/items/not-a-uuid", nil, nil)
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
}

func TestCheckout(t *testing.T) {
	carts := newStubCarts()
	r := newTestRouter(t, carts)

	w := do(r, nethttp.MethodPost, "/api/cart/checkout", nil, nil)
	require.Equal(t, nethttp.StatusOK, w.Code)

	var view httpH.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.True(t, view.CheckedOut)
}

func TestLoginRequiresUser(t *testing.T) {
	carts := newStubCarts()
	r := newTestRouter(t, carts)

	w := do(r, nethttp.MethodPost, "/api/cart/login", nil, map[string]string{httpMW.SessionHeader: "tok"})
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)
	assert.Empty(t, carts.loginUser)

	w = do(r, nethttp.MethodPost, "/api/cart/login", nil, map[string]string{
		httpMW.SessionHeader: "tok",
		httpMW.UserHeader:    "user-7",
	})
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "user-7", carts.loginUser)

	var view httpH.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "user-7", view.OwnerID)
	assert.Contains(t, w.Header().Get("Set-Cookie"), httpMW.SessionCookie+"=tok")
}

func TestClaim(t *testing.T) {
	carts := newStubCarts()
	r := newTestRouter(t, carts)

	w := do(r, nethttp.MethodPost, "/api/cart/claim", nil, map[string]string{httpMW.SessionHeader: "tok"})
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)

	w = do(r, nethttp.MethodPost, "/api/cart/claim", nil, map[string]string{
		httpMW.SessionHeader: "tok",
		httpMW.UserHeader:    "user-7",
	})
	require.Equal(t, nethttp.StatusOK, w.Code)

	var view httpH.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, carts.cart.ID, view.ID)
	assert.Equal(t, "user-7", view.OwnerID)
	assert.Equal(t, "tok", w.Header().Get(httpMW.SessionHeader))

	require.Len(t, carts.identities, 1)
	assert.Equal(t, domain.AnonymousSession("tok"), carts.identities[0])
}

func TestClaimCartOfAnotherUser(t *testing.T) {
	carts := newStubCarts()
	carts.cart.OwnerID = "alice"
	r := newTestRouter(t, carts)

	w := do(r, nethttp.MethodPost, "/api/cart/claim", nil, map[string]string{
		httpMW.SessionHeader: "alice-token",
		httpMW.UserHeader:    "mallory",
	})
	require.Equal(t, nethttp.StatusOK, w.Code)

	var view httpH.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.NotEqual(t, carts.cart.ID, view.ID)
	assert.Equal(t, "mallory", view.OwnerID)

	assert.Empty(t, w.Header().Get(httpMW.SessionHeader))
	assert.NotContains(t, w.Header().Get("Set-Cookie"), "alice-token")
}

func TestAddItemRejectsSubCentPrice(t *testing.T) {
	carts := newStubCarts()
	carts.addErr = fmt.Errorf("repo.AddItem: %w", domain.ErrInvalidPrice)
	r := newTestRouter(t, carts)

	w := do(r, nethttp.MethodPost, "/api/cart/items", map[string]any{
		"product_kind": "book",
		"product_id":   "1",
		"price":        "0.005",
	}, nil)
	require.Equal(t, nethttp.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"invalid_price"`)
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(t, newStubCarts())

	w := do(r, nethttp.MethodGet, "/healthcheck", nil, nil)
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","deps":{"postgres":"ok"}}`, w.Body.String())
}
