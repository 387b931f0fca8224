package handlers

import (
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminServices groups what the back office reads and writes.
type AdminServices struct {
	Admin      *services.AdminService
	Products   *services.ProductService
	Categories *services.CategoryService
	Orders     *services.OrderService
	Exports    *services.ExportService
}

// AdminHandler serves the admin back office.
type AdminHandler struct {
	svc      AdminServices
	pageSize int
	log      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc AdminServices, pageSize int, log *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, pageSize: pageSize, log: log}
}

// RegisterRoutes registers the back office routes on a router already
// restricted to admins.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", h.HandleDashboard)

	users := router.Group("/users")
	users.Get("/", h.HandleListUsers)
	users.Post("/:id/toggle", h.HandleToggleUser)

	categories := router.Group("/categories")
	categories.Get("/", h.HandleListCategories)
	categories.Post("/", h.HandleCreateCategory)
	categories.Get("/:id", h.HandleGetCategory)
	categories.Put("/:id", h.HandleUpdateCategory)
	categories.Delete("/:id", h.HandleDeleteCategory)

	products := router.Group("/products")
	products.Get("/", h.HandleListProducts)
	products.Post("/", h.HandleCreateProduct)
	products.Get("/export", h.HandleExportProducts)
	products.Post("/import", h.HandleImportProducts)
	products.Get("/:id", h.HandleGetProduct)
	products.Put("/:id", h.HandleUpdateProduct)
	products.Post("/:id/toggle", h.HandleToggleProduct)
	products.Delete("/:id", h.HandleDeleteProduct)

	orders := router.Group("/orders")
	orders.Get("/", h.HandleListOrders)
	orders.Get("/stats", h.HandleOrderStats)
	orders.Get("/export", h.HandleExportOrders)
	orders.Get("/:id", h.HandleGetOrder)
	orders.Put("/:id/status", h.HandleUpdateOrderStatus)
	orders.Post("/:id/status", h.HandleUpdateOrderStatus)
}

func (h *AdminHandler) HandleDashboard(c *fiber.Ctx) error {
	dashboard, err := h.svc.Admin.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"dashboard": dashboard})
}

func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	page, err := h.svc.Admin.ListUsers(c.UserContext(), c.Query("search"), pageRequest(c), h.pageSize)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"users":       page.Items,
		"total":       page.Total,
		"total_pages": page.TotalPages,
		"page":        page.CurrentPage,
	})
}

// HandleToggleUser flips a customer's active flag.
func (h *AdminHandler) HandleToggleUser(c *fiber.Ctx) error {
	user, err := h.svc.Admin.ToggleUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	message := "User deactivated"
	if user.IsActive {
		message = "User activated"
	}
	return ok(c, fiber.StatusOK, message, fiber.Map{"user": user})
}
