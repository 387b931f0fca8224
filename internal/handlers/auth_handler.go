package handlers

import (
	"errors"
	"time"

	"sneakerhead/internal/middleware"
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionCookie describes the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	cookie      SessionCookie
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookie SessionCookie, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, log: log}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
	router.Post("/logout", h.HandleLogout)
	router.Get("/session", h.HandleSession)

	router.Post("/admin/login", h.HandleAdminLogin)
	router.Post("/admin/logout", h.HandleLogout)
}

func (h *AuthHandler) setSession(c *fiber.Ctx, session *services.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.TTL),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) sessionResponse(c *fiber.Ctx, status int, message, redirect string, session *services.Session) error {
	h.setSession(c, session)
	return ok(c, status, message, fiber.Map{
		"user":     session.User,
		"token":    session.Token,
		"redirect": redirect,
	})
}

// HandleSignup registers a customer and signs them in.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	session, err := h.authService.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return h.sessionResponse(c, fiber.StatusCreated, "Account created successfully", "/", session)
}

// HandleLogin signs a customer in.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	session, err := h.authService.Login(c.UserContext(), in.Email, in.Password)
	if errors.Is(err, services.ErrAdminAccount) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success":  false,
			"error":    "Admin accounts must sign in through the admin login",
			"redirect": "/admin/login",
		})
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	return h.sessionResponse(c, fiber.StatusOK, "Login successful", "/", session)
}

// HandleAdminLogin signs an admin in.
func (h *AuthHandler) HandleAdminLogin(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	session, err := h.authService.AdminLogin(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return h.sessionResponse(c, fiber.StatusOK, "Welcome back", "/admin/dashboard", session)
}

// HandleLogout drops the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ok(c, fiber.StatusOK, "Logged out successfully", fiber.Map{"redirect": "/"})
}

// HandleSession reports the current session user, if any.
func (h *AuthHandler) HandleSession(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"authenticated": user != nil,
		"user":          user,
	})
}
