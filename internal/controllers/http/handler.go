package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/infra/assets"
	"marketplace-service/internal/redisx"
	"marketplace-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

const requestTimeout = 5 * time.Second

type Handler struct {
	catalog  *services.CatalogService
	orders   *services.OrderService
	cart     *services.CartService
	comments *services.CommentService
	rdb      *redis.Client
}

func NewHandler(catalog *services.CatalogService, orders *services.OrderService, cart *services.CartService, comments *services.CommentService, rdb *redis.Client) *Handler {
	return &Handler{catalog: catalog, orders: orders, cart: cart, comments: comments, rdb: rdb}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(CallerIdentity())

	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.POST("/products", h.CreateProduct)
	r.PUT("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
	r.GET("/categories", h.ListCategories)

	r.GET("/products/:id/comments", h.ListComments)
	r.POST("/products/:id/comments", h.AddComment)

	r.POST("/cart", h.AddToCart)
	r.GET("/cart", h.ListCart)
	r.DELETE("/cart/:id", h.RemoveFromCart)

	r.POST("/orders", h.PlaceOrder)
	r.GET("/orders", h.ListBuyerOrders)
	r.PATCH("/orders/:id/status", h.DisposeOrder)

	r.GET("/seller/products", h.ListSellerProducts)
	r.GET("/seller/orders", h.ListSellerQueue)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	in, err := productInputFromForm(c)
	if err != nil {
		writeError(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		writeError(c, fmt.Errorf("%w: product image is required", domain.ErrValidation))
		return
	}
	f, err := file.Open()
	if err != nil {
		writeError(c, fmt.Errorf("%w: read image: %v", domain.ErrValidation, err))
		return
	}
	defer f.Close()

	p, err := h.catalog.CreateProduct(ctx, callerID(c), in, &assets.Upload{Filename: file.Filename, Content: f})
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateProductLists(p.SellerID)
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	in, err := productInputFromForm(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var upload *assets.Upload
	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			writeError(c, fmt.Errorf("%w: read image: %v", domain.ErrValidation, err))
			return
		}
		defer f.Close()
		upload = &assets.Upload{Filename: file.Filename, Content: f}
	}

	p, err := h.catalog.UpdateProduct(ctx, callerID(c), c.Param("id"), in, upload)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateProductLists(p.SellerID)
	h.rdb.Del(context.Background(), fmt.Sprintf(redisx.KeyProduct, p.ID))
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	productID := c.Param("id")
	if err := h.catalog.DeleteProduct(ctx, callerID(c), productID); err != nil {
		writeError(c, err)
		return
	}

	h.invalidateProductLists(callerID(c))
	h.rdb.Del(context.Background(), fmt.Sprintf(redisx.KeyProduct, productID))
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	p, err := h.catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if b, err := h.rdb.Get(ctx, redisx.KeyProductList).Result(); err == nil && b != "" {
		c.Data(http.StatusOK, "application/json", []byte(b))
		return
	}

	products, err := h.catalog.ListAll(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	if data, err := json.Marshal(products); err == nil {
		h.rdb.Set(ctx, redisx.KeyProductList, data, redisx.TTLListCache)
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) ListSellerProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cacheKey := fmt.Sprintf(redisx.KeySellerProducts, callerID(c))
	if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil && b != "" {
		c.Data(http.StatusOK, "application/json", []byte(b))
		return
	}

	products, err := h.catalog.ListBySeller(ctx, callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if data, err := json.Marshal(products); err == nil {
		h.rdb.Set(ctx, cacheKey, data, redisx.TTLListCache)
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.PlaceOrder(ctx, callerID(c), req.ProductID, req.Fulfillment, c.GetHeader("Idempotency-Key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, PlaceOrderResponse{ID: order.ID, Status: order.Status})
}

func (h *Handler) ListBuyerOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	orders, err := h.orders.ListBuyerOrders(ctx, callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) DisposeOrder(c *gin.Context) {
	var req DisposeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.DisposeOrder(ctx, callerID(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListSellerQueue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	queue, err := h.orders.ListSellerQueue(ctx, callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, queue)
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	entry, err := h.cart.AddToCart(ctx, callerID(c), req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	entries, err := h.cart.ListCart(ctx, callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.cart.RemoveFromCart(ctx, callerID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, err := h.comments.AddComment(ctx, c.Param("id"), callerID(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) ListComments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comments, err := h.comments.ListComments(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *Handler) invalidateProductLists(sellerID string) {
	ctx := context.Background()
	h.rdb.Del(ctx, redisx.KeyProductList)
	if sellerID != "" {
		h.rdb.Del(ctx, fmt.Sprintf(redisx.KeySellerProducts, sellerID))
	}
}

func productInputFromForm(c *gin.Context) (services.ProductInput, error) {
	in := services.ProductInput{
		Name:           c.PostForm("name"),
		Description:    c.PostForm("description"),
		Category:       c.PostForm("category"),
		RestaurantName: c.PostForm("restaurantName"),
	}
	if raw := c.PostForm("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return in, fmt.Errorf("%w: invalid price %q", domain.ErrValidation, raw)
		}
		in.Price = price
	}
	return in, nil
}
