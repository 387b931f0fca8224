package handlers

import (
	"sneakerhead/internal/middleware"
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type cartItemRequest struct {
	ProductID string `json:"product_id" form:"product_id"`
	Quantity  *int   `json:"quantity" form:"quantity"`
}

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service *services.CartService
	log     *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{service: service, log: log}
}

// RegisterRoutes registers the cart routes. Only the badge count is public.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cart := router.Group("/cart")
	cart.Get("/count", h.HandleCount)
	cart.Get("/", auth, h.HandleView)
	cart.Post("/add", auth, h.HandleAdd)
	cart.Post("/update", auth, h.HandleUpdate)
	cart.Post("/remove", auth, h.HandleRemove)
	cart.Post("/clear", auth, h.HandleClear)
}

func currentUserID(c *fiber.Ctx) string {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return ""
}

func summaryPayload(summary *services.CartSummary) fiber.Map {
	payload := fiber.Map{
		"cart_count": summary.CartCount,
		"cart_total": summary.CartTotal,
	}
	if summary.ItemSubtotal != nil {
		payload["item_subtotal"] = *summary.ItemSubtotal
	}
	return payload
}

func (h *CartHandler) HandleView(c *fiber.Ctx) error {
	view, err := h.service.View(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"items":      view.Items,
		"cart_total": view.CartTotal,
		"cart_count": view.CartCount,
	})
}

// HandleAdd adds quantity (default 1) of a product to the cart.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var in cartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	summary, err := h.service.Add(c.UserContext(), currentUserID(c), in.ProductID, qty)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Product added to cart", summaryPayload(summary))
}

// HandleUpdate sets a line's quantity; zero removes it.
func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	var in cartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Quantity == nil {
		return fail(c, fiber.StatusBadRequest, "Quantity is required")
	}
	summary, err := h.service.Update(c.UserContext(), currentUserID(c), in.ProductID, *in.Quantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Cart updated", summaryPayload(summary))
}

func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	var in cartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	summary, err := h.service.Remove(c.UserContext(), currentUserID(c), in.ProductID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Item removed from cart", summaryPayload(summary))
}

func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), currentUserID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Cart cleared", fiber.Map{"cart_count": 0, "cart_total": 0})
}

// HandleCount answers 0 for anonymous visitors.
func (h *CartHandler) HandleCount(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == "" {
		return ok(c, fiber.StatusOK, "", fiber.Map{"count": 0})
	}
	count, err := h.service.Count(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"count": count})
}
