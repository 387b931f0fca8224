package handlers

import (
	"sneakerhead/internal/models"
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler serves the storefront catalog.
type ProductHandler struct {
	service    *services.ProductService
	categories *services.CategoryService
	log        *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, categories *services.CategoryService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{service: service, categories: categories, log: log}
}

// RegisterRoutes registers the catalog routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get("/products", h.HandleListProducts)
	router.Get("/search", h.HandleListProducts)
	router.Get("/product/:id", h.HandleGetProduct)
	router.Get("/categories", h.HandleCategories)

	api := router.Group("/api")
	api.Get("/search", h.HandleSuggest)
	api.Get("/product/:id", h.HandleProductJSON)
	api.Get("/brands", h.HandleBrands)
}

func productFilter(c *fiber.Ctx) models.ProductFilter {
	search := c.Query("search")
	if search == "" {
		search = c.Query("q")
	}
	return models.ProductFilter{
		Search:   search,
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		MinPrice: queryFloat(c, "min_price"),
		MaxPrice: queryFloat(c, "max_price"),
		Sort:     c.Query("sort"),
	}
}

// HandleHome returns the featured, trending and new arrival rows.
func (h *ProductHandler) HandleHome(c *fiber.Ctx) error {
	home, err := h.service.Home(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"featured": home.Featured,
		"trending": home.Trending,
		"new":      home.New,
	})
}

// HandleListProducts runs the filter, sort and paginate pipeline.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := productFilter(c)
	page, err := h.service.List(c.UserContext(), filter, pageRequest(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"products":    page.Items,
		"total":       page.Total,
		"total_pages": page.TotalPages,
		"page":        page.CurrentPage,
		"limit":       page.Limit,
		"filters": fiber.Map{
			"search":    filter.Search,
			"category":  filter.Category,
			"brand":     filter.Brand,
			"min_price": filter.MinPrice,
			"max_price": filter.MaxPrice,
			"sort":      filter.Sort,
		},
	})
}

// HandleGetProduct returns an active product and related items.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	detail, err := h.service.Detail(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"product": detail.Product,
		"related": detail.Related,
	})
}

// HandleProductJSON returns a single active product.
func (h *ProductHandler) HandleProductJSON(c *fiber.Ctx) error {
	product, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"product": product})
}

// HandleSuggest returns search-as-you-type suggestions.
func (h *ProductHandler) HandleSuggest(c *fiber.Ctx) error {
	suggestions, err := h.service.Suggest(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"products": suggestions})
}

func (h *ProductHandler) HandleBrands(c *fiber.Ctx) error {
	brands, err := h.service.Brands(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"brands": brands})
}

func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.categories.ListActive(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
}
