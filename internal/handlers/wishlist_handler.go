package handlers

import (
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type wishlistRequest struct {
	ProductID string `json:"product_id" form:"product_id"`
}

// WishlistHandler handles HTTP requests for saved products.
type WishlistHandler struct {
	service *services.WishlistService
	log     *zap.Logger
}

func NewWishlistHandler(service *services.WishlistService, log *zap.Logger) *WishlistHandler {
	return &WishlistHandler{service: service, log: log}
}

// RegisterRoutes registers the wishlist routes on an authenticated /wishlist router.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleList)
	router.Post("/add", h.HandleAdd)
	router.Post("/remove", h.HandleRemove)
	router.Post("/move-to-cart", h.HandleMoveToCart)
}

func (h *WishlistHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"items": items, "count": len(items)})
}

func (h *WishlistHandler) HandleAdd(c *fiber.Ctx) error {
	var in wishlistRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	created, err := h.service.Add(c.UserContext(), currentUserID(c), in.ProductID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	message := "Added to wishlist"
	if !created {
		message = "Already in wishlist"
	}
	return ok(c, fiber.StatusOK, message, fiber.Map{"added": created})
}

func (h *WishlistHandler) HandleRemove(c *fiber.Ctx) error {
	var in wishlistRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.service.Remove(c.UserContext(), currentUserID(c), in.ProductID); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Removed from wishlist", nil)
}

func (h *WishlistHandler) HandleMoveToCart(c *fiber.Ctx) error {
	var in wishlistRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	summary, err := h.service.MoveToCart(c.UserContext(), currentUserID(c), in.ProductID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Moved to cart", summaryPayload(summary))
}
