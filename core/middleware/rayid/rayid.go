// Package rayid assigns every request a unique identifier for log
// correlation.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the assigned ray ID.
const HeaderName = "X-Ray-Id"

// New returns middleware that stores a fresh ray ID in the request locals
// and echoes it in the response headers.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := uuid.NewString()
		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
