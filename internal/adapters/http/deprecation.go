package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Deprecated marks a route with RFC 8594 Deprecation and Sunset headers and,
// when successor is set, a Link to the replacement.
func Deprecated(sunset time.Time, successor string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Deprecation", "true")
		c.Set("Sunset", sunset.UTC().Format(time.RFC1123))
		if successor != "" {
			c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, successor))
		}
		return c.Next()
	}
}
