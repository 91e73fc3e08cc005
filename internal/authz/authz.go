// Package authz guards the console API with a shared operator key.
package authz

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/suya12/ocr-claim-review/internal/httpx"
)

// ErrUnauthorized is returned when a request is not authorized.
var ErrUnauthorized = errors.New("unauthorized")

// consoleKeyHeader carries the operator key on console API requests.
const consoleKeyHeader = "x-console-key"

// Middleware returns a fiber handler that requires the configured console
// key on every request. An empty expected key disables the check, which is
// the dev bypass for local frontends.
func Middleware(expected string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if expected == "" {
			return c.Next()
		}
		got := strings.TrimSpace(c.Get(consoleKeyHeader))
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			return httpx.Error(c, fiber.StatusUnauthorized, ErrUnauthorized.Error())
		}
		return c.Next()
	}
}
