package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/sqlcart/internal/domain"
	"github.com/nikolayk812/sqlcart/internal/http/middleware"
	"github.com/nikolayk812/sqlcart/internal/http/response"
	"github.com/nikolayk812/sqlcart/internal/logger"
	"github.com/nikolayk812/sqlcart/internal/service"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// CartService is the part of service.CartService the handlers call.
type CartService interface {
	Resolve(ctx context.Context, id domain.Identity) (service.Resolution, error)
	Summarize(ctx context.Context, cart domain.Cart) (service.Summary, error)
	Add(ctx context.Context, cart domain.Cart, product domain.ProductRef, unitPrice domain.Money, quantity int) (domain.CartItem, error)
	Update(ctx context.Context, cart domain.Cart, product domain.ProductRef, quantity int, unitPrice *domain.Money) (domain.CartItem, error)
	UpdateItem(ctx context.Context, cart domain.Cart, itemID uuid.UUID, quantity int) (domain.CartItem, error)
	RemoveItem(ctx context.Context, cart domain.Cart, itemID uuid.UUID) error
	Clear(ctx context.Context, cart domain.Cart) error
	GetItem(ctx context.Context, cart domain.Cart, itemID uuid.UUID) (domain.CartItem, error)
	Checkout(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	MergeOnLogin(ctx context.Context, sessionToken, userID string) (service.Resolution, error)
	LastCart(ctx context.Context, current domain.Cart, ownerID string) (domain.Cart, error)
}

var _ CartService = (*service.CartService)(nil)

var errBadRequest = errors.New("bad request")

type CookieConfig struct {
	MaxAge int // seconds
	Secure bool
}

type CartHandler struct {
	log    *logger.Logger
	carts  CartService
	cookie CookieConfig
}

func NewCartHandler(log *logger.Logger, carts CartService, cookie CookieConfig) *CartHandler {
	return &CartHandler{
		log:    log.With("handler", "CartHandler"),
		carts:  carts,
		cookie: cookie,
	}
}

type addItemRequest struct {
	ProductKind string `json:"product_kind" binding:"required"`
	ProductID   string `json:"product_id" binding:"required"`
	Price       string `json:"price" binding:"required"`
	Currency    string `json:"currency"`
	Quantity    *int   `json:"quantity"`
}

type updateProductRequest struct {
	Quantity *int   `json:"quantity" binding:"required"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, ok := h.resolve(c)
	if !ok {
		return
	}
	h.respondCart(c, http.StatusOK, cart)
}

// POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	cart, ok := h.resolve(c)
	if !ok {
		return
	}

	price, err := parseMoney(req.Price, req.Currency, cart.Currency)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product := domain.ProductRef{Kind: req.ProductKind, ID: req.ProductID}
	item, err := h.carts.Add(c.Request.Context(), cart, product, price, quantity)
	if err != nil {
		h.fail(c, "add item", err)
		return
	}

	response.RespondCreated(c, toItemView(item))
}

// PUT /api/cart/products/:kind/:id
func (h *CartHandler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	cart, ok := h.resolve(c)
	if !ok {
		return
	}

	var price *domain.Money
	if req.Price != "" {
		p, err := parseMoney(req.Price, req.Currency, cart.Currency)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		price = &p
	}

	product := domain.ProductRef{Kind: c.Param("kind"), ID: c.Param("id")}
	item, err := h.carts.Update(c.Request.Context(), cart, product, *req.Quantity, price)
	if err != nil {
		h.fail(c, "update product", err)
		return
	}

	response.RespondOK(c, toItemView(item))
}

// GET /api/cart/items/:itemID
func (h *CartHandler) GetItem(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	cart, ok := h.resolve(c)
	if !ok {
		return
	}

	item, err := h.carts.GetItem(c.Request.Context(), cart, itemID)
	if err != nil {
		h.fail(c, "get item", err)
		return
	}

	response.RespondOK(c, toItemView(item))
}

// PUT /api/cart/items/:itemID
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	cart, ok := h.resolve(c)
	if !ok {
		return
	}

	item, err := h.carts.UpdateItem(c.Request.Context(), cart, itemID, *req.Quantity)
	if err != nil {
		h.fail(c, "update item", err)
		return
	}

	response.RespondOK(c, toItemView(item))
}

// DELETE /api/cart/items/:itemID
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	cart, ok := h.resolve(c)
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(c.Request.Context(), cart, itemID); err != nil {
		h.fail(c, "remove item", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DELETE /api/cart/items
func (h *CartHandler) Clear(c *gin.Context) {
	cart, ok := h.resolve(c)
	if !ok {
		return
	}

	if err := h.carts.Clear(c.Request.Context(), cart); err != nil {
		h.fail(c, "clear", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /api/cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	cart, ok := h.resolve(c)
	if !ok {
		return
	}

	checkedOut, err := h.carts.Checkout(c.Request.Context(), cart)
	if err != nil {
		h.fail(c, "checkout", err)
		return
	}

	h.respondCart(c, http.StatusOK, checkedOut)
}

// POST /api/cart/login
func (h *CartHandler) Login(c *gin.Context) {
	id := middleware.IdentityFrom(c)

	res, err := h.carts.MergeOnLogin(c.Request.Context(), id.SessionToken, id.UserID)
	if err != nil {
		h.fail(c, "merge on login", err)
		return
	}
	h.setSession(c, res.SessionToken)

	h.respondCart(c, http.StatusOK, res.Cart)
}

// POST /api/cart/claim
func (h *CartHandler) Claim(c *gin.Context) {
	id := middleware.IdentityFrom(c)

	current := domain.NoIdentity()
	if id.SessionToken != "" {
		current = domain.AnonymousSession(id.SessionToken)
	}

	res, err := h.carts.Resolve(c.Request.Context(), current)
	if err != nil {
		h.fail(c, "resolve session cart", err)
		return
	}
	// a token bound to another user's cart is not handed back to this caller
	if res.Cart.IsAnonymous() || res.Cart.OwnerID == id.UserID {
		h.setSession(c, res.SessionToken)
	}

	cart, err := h.carts.LastCart(c.Request.Context(), res.Cart, id.UserID)
	if err != nil {
		h.fail(c, "last cart", err)
		return
	}

	h.respondCart(c, http.StatusOK, cart)
}

func (h *CartHandler) resolve(c *gin.Context) (domain.Cart, bool) {
	res, err := h.carts.Resolve(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		h.fail(c, "resolve cart", err)
		return domain.Cart{}, false
	}

	h.setSession(c, res.SessionToken)

	return res.Cart, true
}

func (h *CartHandler) respondCart(c *gin.Context, status int, cart domain.Cart) {
	summary, err := h.carts.Summarize(c.Request.Context(), cart)
	if err != nil {
		h.fail(c, "summarize", err)
		return
	}

	c.JSON(status, toCartView(summary))
}

func (h *CartHandler) setSession(c *gin.Context, token string) {
	if token == "" {
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
	c.Header(middleware.SessionHeader, token)
}

func (h *CartHandler) itemID(c *gin.Context) (uuid.UUID, bool) {
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		h.badRequest(c, fmt.Errorf("item id: %w", err))
		return uuid.Nil, false
	}
	return itemID, true
}

func (h *CartHandler) badRequest(c *gin.Context, err error) {
	response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
}

func (h *CartHandler) fail(c *gin.Context, op string, err error) {
	h.log.Warn(op+" failed", "path", c.FullPath(), "error", err)
	response.RespondDomainError(c, err)
}

// parseMoney reads an exact amount. An omitted currency defaults to fallback.
func parseMoney(amount, cur string, fallback currency.Unit) (domain.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("price %q: %w", amount, errBadRequest)
	}
	if d.IsNegative() {
		return domain.Money{}, fmt.Errorf("price must not be negative: %w", errBadRequest)
	}

	unit := fallback
	if cur != "" {
		unit, err = currency.ParseISO(cur)
		if err != nil {
			return domain.Money{}, fmt.Errorf("currency %q: %w", cur, errBadRequest)
		}
	}

	return domain.Money{Amount: d, Currency: unit}, nil
}
