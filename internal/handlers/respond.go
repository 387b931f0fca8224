package handlers

import (
	"errors"
	"strconv"
	"strings"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/services"
	"sneakerhead/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// errorResponses maps domain errors to a status and the message shown to clients.
var errorResponses = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrNotFound, fiber.StatusNotFound, "Not found"},
	{repositories.ErrNotFound, fiber.StatusNotFound, "Not found"},
	{services.ErrOrderNotFound, fiber.StatusNotFound, "Order not found"},
	{services.ErrEmptyCart, fiber.StatusBadRequest, "Your cart is empty"},
	{services.ErrInvalidAddress, fiber.StatusBadRequest, "Invalid shipping address"},
	{services.ErrCategoryUnavailable, fiber.StatusBadRequest, "Product category is not available"},
	{services.ErrProductUnavailable, fiber.StatusBadRequest, "Product is not available"},
	{services.ErrInsufficientStock, fiber.StatusBadRequest, "Insufficient stock"},
	{services.ErrQuantityLimit, fiber.StatusBadRequest, "Quantity limit exceeded"},
	{services.ErrInvalidQuantity, fiber.StatusBadRequest, "Invalid quantity"},
	{services.ErrOrderNotCancellable, fiber.StatusBadRequest, "Order cannot be cancelled at this stage"},
	{services.ErrOrderNotReturnable, fiber.StatusBadRequest, "Only delivered orders can be returned"},
	{services.ErrReturnReasonRequired, fiber.StatusBadRequest, "Return reason is required"},
	{services.ErrInvalidStatus, fiber.StatusBadRequest, "Invalid status"},
	{services.ErrInvalidTransition, fiber.StatusConflict, "Order cannot move to that status"},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid email or password"},
	{services.ErrInvalidToken, fiber.StatusUnauthorized, "Invalid or expired session"},
	{services.ErrAccountInactive, fiber.StatusForbidden, "Your account has been deactivated. Please contact support."},
	{services.ErrAdminAccount, fiber.StatusForbidden, "Admin accounts must sign in through the admin login"},
	{services.ErrNotAdmin, fiber.StatusForbidden, "Admin access required"},
	{services.ErrEmailTaken, fiber.StatusConflict, "Email already registered"},
	{services.ErrWrongPassword, fiber.StatusBadRequest, "Current password is incorrect"},
	{repositories.ErrConflict, fiber.StatusConflict, "The record was changed by another request"},
}

func ok(c *fiber.Ctx, status int, message string, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

// respondError writes the envelope for err. Unknown errors are logged and hidden.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   verr.Error(),
			"errors":  verr.Fields,
		})
	}

	var serr *services.StockError
	if errors.As(err, &serr) {
		body := fiber.Map{"success": false, "error": serr.Error()}
		if errors.Is(serr, services.ErrInsufficientStock) || errors.Is(serr, services.ErrQuantityLimit) {
			body["available"] = serr.Available
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			return fail(c, r.status, r.message)
		}
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

func badBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "Invalid request body")
}

// pageRequest reads ?page= and ?limit=; Normalize in the service clamps them.
func pageRequest(c *fiber.Ctx) models.PageRequest {
	return models.PageRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 0),
	}
}

func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
