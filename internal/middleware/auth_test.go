package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"sneakerhead/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator map[string]*models.SessionUser

func (f fakeValidator) ValidateToken(token string) (*models.SessionUser, error) {
	if user, ok := f[token]; ok {
		return user, nil
	}
	return nil, errors.New("invalid token")
}

func newTestApp() *fiber.App {
	v := fakeValidator{
		"customer": {ID: "u1", Name: "Chloe"},
		"admin":    {ID: "a1", Name: "Root", IsAdmin: true},
	}
	app := fiber.New()
	whoami := func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(user.ID)
	}
	app.Get("/open", LoadSession(v, "session"), whoami)
	app.Get("/private", AuthRequired(v, "session"), whoami)
	app.Get("/admin", AdminRequired(v, "session"), whoami)
	return app
}

func TestMiddleware(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name   string
		path   string
		cookie string
		bearer string
		status int
	}{
		{"open anonymous", "/open", "", "", fiber.StatusOK},
		{"open with bad token", "/open", "garbage", "", fiber.StatusOK},
		{"private anonymous", "/private", "", "", fiber.StatusUnauthorized},
		{"private bad token", "/private", "garbage", "", fiber.StatusUnauthorized},
		{"private cookie", "/private", "customer", "", fiber.StatusOK},
		{"private bearer", "/private", "", "customer", fiber.StatusOK},
		{"admin as customer", "/admin", "customer", "", fiber.StatusForbidden},
		{"admin anonymous", "/admin", "", "", fiber.StatusUnauthorized},
		{"admin as admin", "/admin", "", "admin", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", "session="+tt.cookie)
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
