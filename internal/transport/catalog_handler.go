package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CategoryResponse represents a category with its live product count
type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	ProductCount int    `json:"productCount"`
}

// ProductResponse represents a product. Price is serialized as a decimal string.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"categoryId"`
	Image       string          `json:"image,omitempty"`
	Stock       int             `json:"stock"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Pagination mirrors the page position back to the client
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	HasMore     bool `json:"hasMore"`
}

// ProductListResponse is one page of a category listing
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	HasMore    bool              `json:"hasMore"`
	Pagination Pagination        `json:"pagination"`
}

// ProductListQuery holds the query parameters of a category listing.
// Page is informational only; position is carried by LastProductID.
type ProductListQuery struct {
	Page          int    `query:"page" validate:"gte=1"`
	Limit         int    `query:"limit" validate:"gte=1,lte=100"`
	LastProductID string `query:"lastProductId" validate:"omitempty,max=128,printascii"`
}

// CatalogHandler handles HTTP requests for the storefront catalog
type CatalogHandler struct {
	catalog         service.CatalogService
	defaultPageSize int
	logger          *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, defaultPageSize int, logger *zap.Logger) *CatalogHandler {
	if defaultPageSize < 1 {
		defaultPageSize = 12
	}
	return &CatalogHandler{
		catalog:         catalog,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/by-slug/{slug}", h.GetCategoryBySlug)
		r.Get("/{categoryId}", h.GetCategory)
		r.Get("/{categoryId}/products", h.ListCategoryProducts)
	})
	r.Get("/products/{productId}", h.GetProduct)
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, "Failed to list categories", err)
		return
	}

	response := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, toCategoryResponse(c))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetCategory handles GET /categories/{categoryId}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")

	category, err := h.catalog.GetCategoryByID(r.Context(), categoryID)
	if err != nil {
		h.respondWithServiceError(w, r, "Failed to get category", err)
		return
	}
	if category == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponse(category))
}

// GetCategoryBySlug handles GET /categories/by-slug/{slug}
func (h *CatalogHandler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.catalog.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		h.respondWithServiceError(w, r, "Failed to get category by slug", err)
		return
	}
	if category == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponse(category))
}

// GetProduct handles GET /products/{productId}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	product, err := h.catalog.GetProductByID(r.Context(), productID)
	if err != nil {
		h.respondWithServiceError(w, r, "Failed to get product", err)
		return
	}
	if product == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

// ListCategoryProducts handles GET /categories/{categoryId}/products.
// An unknown category yields an empty page, not a 404.
func (h *CatalogHandler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")

	query, validationErrors := h.parseProductListQuery(r)
	if len(validationErrors) > 0 {
		h.logger.Debug("Product list query rejected",
			zap.String("category_id", categoryID),
			zap.Any("errors", validationErrors),
		)
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	page, err := h.catalog.GetProductsByCategory(r.Context(), categoryID, query.Limit, query.LastProductID)
	if err != nil {
		h.respondWithServiceError(w, r, "Failed to list category products", err)
		return
	}

	currentPage := query.Page
	if page.CursorReset {
		currentPage = 1
	}

	products := make([]ProductResponse, 0, len(page.Products))
	for _, p := range page.Products {
		products = append(products, toProductResponse(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		HasMore:  page.HasMore,
		Pagination: Pagination{
			CurrentPage: currentPage,
			HasMore:     page.HasMore,
		},
	})
}

func (h *CatalogHandler) parseProductListQuery(r *http.Request) (ProductListQuery, []middleware.ValidationError) {
	values := r.URL.Query()
	query := ProductListQuery{
		Page:          1,
		Limit:         h.defaultPageSize,
		LastProductID: values.Get("lastProductId"),
	}

	var errs []middleware.ValidationError
	parseInt := func(name string, dst *int) {
		raw := values.Get(name)
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, middleware.ValidationError{Field: name, Message: "Value must be an integer"})
			return
		}
		*dst = n
	}
	parseInt("page", &query.Page)
	parseInt("limit", &query.Limit)
	if len(errs) > 0 {
		return query, errs
	}

	if err := middleware.ValidateStruct(query); err != nil {
		return query, middleware.FormatValidationErrors(err)
	}
	return query, nil
}

// respondWithServiceError maps catalog errors to status codes.
// Internal error text is logged and never sent to the client.
func (h *CatalogHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrCursorNotFound):
		h.logger.Info(msg, zap.Error(err), zap.String("path", r.URL.Path))
		middleware.RespondWithError(w, http.StatusConflict, "pagination cursor no longer exists")
	case errors.Is(err, service.ErrInvalidPageSize):
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid page size")
	default:
		h.logger.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		Image:        c.ImageURL,
		ProductCount: c.ProductCount,
	}
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Image:       p.ImageURL,
		Stock:       p.Stock,
		InStock:     p.InStock(),
		CreatedAt:   p.CreatedAt,
	}
}
