package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suya12/ocr-claim-review/internal/httpx"
)

func testApp(key string) *fiber.App {
	app := fiber.New()
	app.Use(Middleware(key))
	app.Get("/ping", func(c *fiber.Ctx) error { return httpx.OK(c) })
	return app
}

func TestMiddleware_RequiresKey(t *testing.T) {
	app := testApp("secret")

	res, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("x-console-key", "wrong")
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("x-console-key", "secret")
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestMiddleware_EmptyKeyDisablesCheck(t *testing.T) {
	app := testApp("")
	res, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}
