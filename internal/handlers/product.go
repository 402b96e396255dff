package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"petshop_back_end/internal/cache"
	"petshop_back_end/internal/models"
)

// ProductStore is the catalog persistence.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (models.Product, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id int64) error
}

// ProductHandler serves the catalog and its admin endpoints.
type ProductHandler struct {
	products ProductStore
	cache    *cache.Store
	log      *slog.Logger
}

// NewProductHandler wires the catalog endpoints. store may be nil.
func NewProductHandler(products ProductStore, store *cache.Store, log *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, cache: store, log: log}
}

type productInput struct {
	Title       string           `json:"title" binding:"required,max=255"`
	Description string           `json:"description" binding:"required"`
	ImageURL    string           `json:"image_url" binding:"max=255"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
}

func (in productInput) validate() (models.Product, string) {
	p := models.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
	if p.Title == "" || p.Description == "" {
		return p, "title and description must not be blank"
	}
	if in.Price.IsNegative() {
		return p, "price must not be negative"
	}
	if in.Price.GreaterThan(models.MaxAmount) {
		return p, "price must not exceed " + models.MaxAmount.StringFixed(2)
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return p, "price must have at most two decimal places"
	}
	p.Price = *in.Price
	return p, ""
}

// List serves the catalog, newest first, from the Redis cache when warm.
// The cache only ever feeds this listing; checkout reads prices from the
// database.
func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []productResponse
	if h.cache.GetJSON(ctx, cache.ProductListKey, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, err := h.products.List(ctx)
	if err != nil {
		failErr(c, h.log, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProduct(p))
	}
	h.cache.SetJSON(ctx, cache.ProductListKey, out, cache.ProductListTTL)
	c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toProduct(p))
}

// Create adds a product and drops the cached listing.
func (h *ProductHandler) Create(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid product payload: "+err.Error())
		return
	}
	p, problem := in.validate()
	if problem != "" {
		fail(c, http.StatusBadRequest, problem)
		return
	}

	created, err := h.products.Create(c.Request.Context(), p)
	if err != nil {
		failErr(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.ProductListKey)
	c.JSON(http.StatusCreated, gin.H{"message": "product created", "product": toProduct(created)})
}

// Update replaces a product's fields. Past order items keep the price
// they were bought at.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid product payload: "+err.Error())
		return
	}
	p, problem := in.validate()
	if problem != "" {
		fail(c, http.StatusBadRequest, problem)
		return
	}
	p.ID = id

	if err := h.products.Update(c.Request.Context(), p); err != nil {
		failErr(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.ProductListKey)

	updated, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product updated", "product": toProduct(updated)})
}

// Delete refuses products that existing orders reference.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		failErr(c, h.log, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), cache.ProductListKey)
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
