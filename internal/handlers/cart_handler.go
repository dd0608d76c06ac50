package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"golang-cart-backend/internal/middleware"
	"golang-cart-backend/internal/models"
	"golang-cart-backend/internal/repositories"
	"golang-cart-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	manager CartManagerInterface
	catalog repositories.ProductCatalog
}

func NewCartHandler(manager CartManagerInterface, catalog repositories.ProductCatalog) *CartHandler {
	return &CartHandler{
		manager: manager,
		catalog: catalog,
	}
}

type CreateCartRequest struct {
	Name string `json:"name"`
}

type CartItemRequest struct {
	ProductID string         `json:"product_id" binding:"required"`
	Options   models.Options `json:"options"`
	Quantity  int            `json:"quantity"`
}

type RemoveCartItemRequest struct {
	ProductID string         `json:"product_id" binding:"required"`
	Options   models.Options `json:"options"`
}

type StateRequest struct {
	State string `json:"state" binding:"required"`
}

type CartListResponse struct {
	Carts []*models.Cart `json:"carts"`
	Count int            `json:"count"`
}

// RegisterRoutes registers the routes for cart management
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	// All cart routes require authentication
	carts := router.Group("/carts", authMiddleware.AuthRequired())
	{
		carts.POST("", h.CreateCart)
		carts.GET("", authMiddleware.RoleRequired("admin", "support"), h.ListCarts)
		carts.GET("/:id", h.GetCart)
		carts.PUT("/:id/state", h.SetCartState)

		carts.POST("/:id/items", h.AddItem)
		carts.PUT("/:id/items", h.SetItemQuantity)
		carts.DELETE("/:id/items", h.RemoveItem)
		carts.PUT("/:id/items/:item_id/state", h.SetItemState)
	}
}

// CreateCart godoc
// @Summary Create a cart
// @Tags carts
// @Accept json
// @Produce json
// @Param cart body CreateCartRequest false "Cart name"
// @Success 201 {object} models.Cart
// @Router /carts [post]
func (h *CartHandler) CreateCart(c *gin.Context) {
	var req CreateCartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request body",
				Message: err.Error(),
			})
			return
		}
	}

	ctx := c.Request.Context()
	cart, err := h.manager.CreateCart(ctx, req.Name)
	if err != nil {
		writeError(c, "Failed to create cart", err)
		return
	}
	cart.OwnerID = middleware.GetUserID(c)
	if err := h.manager.UpdateCart(ctx, cart, true); err != nil {
		writeError(c, "Failed to create cart", err)
		return
	}
	slog.Info("cart created", "cart_id", cart.ID, "user_id", middleware.GetUserID(c))

	c.JSON(http.StatusCreated, cart)
}

// ListCarts godoc
// @Summary Find carts
// @Tags carts
// @Produce json
// @Param name query string false "Cart name"
// @Param state query string false "Cart state"
// @Param order_by query string false "field[:desc],..."
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} CartListResponse
// @Router /carts [get]
func (h *CartHandler) ListCarts(c *gin.Context) {
	criteria := repositories.Criteria{
		Name:  c.Query("name"),
		State: models.CartState(c.Query("state")),
	}

	orderBy, err := repositories.ParseOrderBy(c.Query("order_by"))
	if err != nil {
		writeError(c, "Invalid order_by", err)
		return
	}
	criteria.OrderBy = orderBy

	if criteria.Limit, err = queryInt(c, "limit"); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit", Message: err.Error()})
		return
	}
	if criteria.Offset, err = queryInt(c, "offset"); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid offset", Message: err.Error()})
		return
	}

	carts, err := h.manager.FindBy(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, "Failed to find carts", err)
		return
	}
	if carts == nil {
		carts = []*models.Cart{}
	}

	c.JSON(http.StatusOK, CartListResponse{Carts: carts, Count: len(carts)})
}

// GetCart godoc
// @Summary Get a cart by id
// @Tags carts
// @Produce json
// @Param id path string true "Cart ID"
// @Success 200 {object} models.Cart
// @Failure 404 {object} ErrorResponse
// @Router /carts/{id} [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, ok := h.loadCart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) SetCartState(c *gin.Context) {
	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.manager.SetCartState(ctx, cart, models.CartState(req.State)); err != nil {
		writeError(c, "Failed to set cart state", err)
		return
	}
	h.saveAndRespond(c, cart)
}

// AddItem godoc
// @Summary Add a product to the cart
// @Description Adds a new line, or increments the line with the same product and options
// @Tags carts
// @Accept json
// @Produce json
// @Param id path string true "Cart ID"
// @Param item body CartItemRequest true "Product, options and quantity"
// @Success 200 {object} models.Cart
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /carts/{id}/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	product, err := h.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		writeError(c, "Failed to resolve product", err)
		return
	}

	if _, err := h.manager.AddProductToCart(ctx, cart, *product, req.Options, req.Quantity); err != nil {
		writeError(c, "Failed to add item to cart", err)
		return
	}
	h.saveAndRespond(c, cart)
}

func (h *CartHandler) SetItemQuantity(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	product := models.Product{ID: req.ProductID}
	if err := h.manager.SetProductQuantity(ctx, cart, product, req.Options, req.Quantity); err != nil {
		writeError(c, "Failed to update cart item", err)
		return
	}
	h.saveAndRespond(c, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req RemoveCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	product := models.Product{ID: req.ProductID}
	if err := h.manager.RemoveProductFromCart(c.Request.Context(), cart, product, req.Options, true); err != nil {
		writeError(c, "Failed to remove item from cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) SetItemState(c *gin.Context) {
	var req StateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid item ID", Message: err.Error()})
		return
	}

	cart, ok := h.loadCart(c)
	if !ok {
		return
	}

	item := cart.ItemByID(itemID)
	if item == nil {
		writeError(c, "Failed to set item state", services.ErrItemNotFound)
		return
	}

	if err := h.manager.SetCartItemState(c.Request.Context(), item, models.ItemState(req.State)); err != nil {
		writeError(c, "Failed to set item state", err)
		return
	}
	h.saveAndRespond(c, cart)
}

func (h *CartHandler) loadCart(c *gin.Context) (*models.Cart, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid cart ID", Message: err.Error()})
		return nil, false
	}

	cart, err := h.manager.FindCartByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to get cart", err)
		return nil, false
	}
	// Someone else's cart looks exactly like a missing one.
	if !isStaff(c) && cart.OwnerID != middleware.GetUserID(c) {
		writeError(c, "Failed to get cart", repositories.ErrCartNotFound)
		return nil, false
	}
	return cart, true
}

func isStaff(c *gin.Context) bool {
	switch middleware.GetUserRole(c) {
	case "admin", "support":
		return true
	}
	return false
}

func (h *CartHandler) saveAndRespond(c *gin.Context, cart *models.Cart) {
	if err := h.manager.UpdateCart(c.Request.Context(), cart, true); err != nil {
		writeError(c, "Failed to save cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repositories.ErrCartNotFound),
		errors.Is(err, repositories.ErrProductNotFound),
		errors.Is(err, services.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidOptions),
		errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, repositories.ErrInvalidCriteria):
		status = http.StatusBadRequest
	default:
		slog.Error(msg, "path", c.FullPath(), "error", err)
	}

	c.JSON(status, ErrorResponse{
		Error:   msg,
		Message: err.Error(),
	})
}
