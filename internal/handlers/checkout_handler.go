package handlers

import (
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckoutHandler turns the session user's cart into an order.
type CheckoutHandler struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
	log      *zap.Logger
}

func NewCheckoutHandler(checkout *services.CheckoutService, orders *services.OrderService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, orders: orders, log: log}
}

// RegisterRoutes registers the checkout routes on an authenticated /checkout router.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleView)
	router.Post("/", h.HandlePlaceOrder)
	router.Post("/place-order", h.HandlePlaceOrder)
	router.Get("/success/:id", h.HandleSuccess)
}

func (h *CheckoutHandler) HandleView(c *fiber.Ctx) error {
	view, err := h.checkout.View(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"items":           view.Items,
		"cart_count":      view.CartCount,
		"addresses":       view.Addresses,
		"default_address": view.DefaultAddress,
		"totals":          view.Totals,
	})
}

// HandlePlaceOrder places the order and points the client at the success page.
func (h *CheckoutHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var in services.PlaceOrderInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.checkout.PlaceOrder(c.UserContext(), currentUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, "Order placed successfully", fiber.Map{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"order":        order,
		"redirect":     "/checkout/success/" + order.ID,
	})
}

func (h *CheckoutHandler) HandleSuccess(c *fiber.Ctx) error {
	order, err := h.orders.GetForUser(c.UserContext(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"order": order})
}
