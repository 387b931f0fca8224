package handlers

import (
	"sneakerhead/internal/models"
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type orderReasonRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// UserHandler serves the account pages: profile, password and order history.
type UserHandler struct {
	auth     *services.AuthService
	orders   *services.OrderService
	sessions *AuthHandler
	log      *zap.Logger
}

// NewUserHandler creates a new UserHandler. sessions reissues the cookie after
// profile edits.
func NewUserHandler(auth *services.AuthService, orders *services.OrderService, sessions *AuthHandler, log *zap.Logger) *UserHandler {
	return &UserHandler{auth: auth, orders: orders, sessions: sessions, log: log}
}

// RegisterRoutes registers the account routes on an authenticated /user router.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/profile", h.HandleProfile)
	router.Put("/profile", h.HandleUpdateProfile)
	router.Post("/profile", h.HandleUpdateProfile)
	router.Post("/change-password", h.HandleChangePassword)

	orders := router.Group("/orders")
	orders.Get("/", h.HandleListOrders)
	orders.Get("/:id", h.HandleGetOrder)
	orders.Post("/:id/cancel", h.HandleCancelOrder)
	orders.Post("/:id/return", h.HandleReturnOrder)
}

// HandleProfile returns the stored profile with the latest orders.
func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)
	user, err := h.auth.Profile(ctx, userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	recent, err := h.orders.Recent(ctx, userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	count, err := h.orders.CountForUser(ctx, userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"user":          user,
		"recent_orders": recent,
		"order_count":   count,
	})
}

func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var in services.ProfileInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	session, err := h.auth.UpdateProfile(c.UserContext(), currentUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.sessions.setSession(c, session)
	return ok(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{"user": session.User})
}

func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	var in services.ChangePasswordInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.auth.ChangePassword(c.UserContext(), currentUserID(c), in); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Password changed successfully", nil)
}

func orderFilter(c *fiber.Ctx) models.OrderFilter {
	return models.OrderFilter{
		Search: c.Query("search"),
		Status: models.OrderStatus(c.Query("status")),
		SortBy: c.Query("sort"),
	}
}

func orderPagePayload(page models.Page[models.Order]) fiber.Map {
	return fiber.Map{
		"orders":      page.Items,
		"total":       page.Total,
		"total_pages": page.TotalPages,
		"page":        page.CurrentPage,
		"limit":       page.Limit,
	}
}

func (h *UserHandler) HandleListOrders(c *fiber.Ctx) error {
	page, err := h.orders.ListForUser(c.UserContext(), currentUserID(c), orderFilter(c), pageRequest(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", orderPagePayload(page))
}

func (h *UserHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetForUser(c.UserContext(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"order": order})
}

func (h *UserHandler) HandleCancelOrder(c *fiber.Ctx) error {
	var in orderReasonRequest
	// An empty body is fine; the default reason applies.
	_ = c.BodyParser(&in)
	order, err := h.orders.Cancel(c.UserContext(), currentUserID(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Order cancelled successfully", fiber.Map{"order": order})
}

func (h *UserHandler) HandleReturnOrder(c *fiber.Ctx) error {
	var in orderReasonRequest
	_ = c.BodyParser(&in)
	order, err := h.orders.Return(c.UserContext(), currentUserID(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, fiber.StatusOK, "Return request submitted successfully", fiber.Map{"order": order})
}
