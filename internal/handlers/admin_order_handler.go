package handlers

import (
	"bytes"

	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
)

func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	page, err := h.svc.Orders.AdminList(c.UserContext(), orderFilter(c), pageRequest(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", orderPagePayload(page))
}

func (h *AdminHandler) HandleGetOrder(c *fiber.Ctx) error {
	detail, err := h.svc.Orders.AdminGet(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"order":    detail.Order,
		"customer": detail.Customer,
		"products": detail.Products,
	})
}

// HandleUpdateOrderStatus moves an order to the requested status.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var in services.UpdateStatusInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.svc.Orders.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Order status updated", fiber.Map{"order": order})
}

func (h *AdminHandler) HandleOrderStats(c *fiber.Ctx) error {
	stats, err := h.svc.Orders.Stats(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"stats": stats})
}

func (h *AdminHandler) HandleExportOrders(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.svc.Exports.Orders(c.UserContext(), &buf); err != nil {
		return respondError(c, h.log, err)
	}
	return sendWorkbook(c, "orders.xlsx", &buf)
}
