package handlers

import (
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AddressHandler handles HTTP requests for the address book.
type AddressHandler struct {
	service *services.AddressService
	log     *zap.Logger
}

func NewAddressHandler(service *services.AddressService, log *zap.Logger) *AddressHandler {
	return &AddressHandler{service: service, log: log}
}

// RegisterRoutes registers the address routes on an authenticated /user router.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addresses := router.Group("/addresses")
	addresses.Get("/", h.HandleList)
	addresses.Post("/", h.HandleCreate)
	addresses.Get("/:id", h.HandleGet)
	addresses.Put("/:id", h.HandleUpdate)
	addresses.Delete("/:id", h.HandleDelete)
	addresses.Post("/:id/default", h.HandleSetDefault)
}

func (h *AddressHandler) HandleList(c *fiber.Ctx) error {
	addresses, err := h.service.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"addresses": addresses})
}

func (h *AddressHandler) HandleGet(c *fiber.Ctx) error {
	address, err := h.service.Get(c.UserContext(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"address": address})
}

func (h *AddressHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.AddressInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	address, err := h.service.Create(c.UserContext(), currentUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusCreated, "Address added successfully", fiber.Map{"address": address})
}

func (h *AddressHandler) HandleUpdate(c *fiber.Ctx) error {
	var in services.AddressInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	address, err := h.service.Update(c.UserContext(), currentUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Address updated successfully", fiber.Map{"address": address})
}

func (h *AddressHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Address deleted successfully", nil)
}

func (h *AddressHandler) HandleSetDefault(c *fiber.Ctx) error {
	address, err := h.service.SetDefault(c.UserContext(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Default address updated", fiber.Map{"address": address})
}
