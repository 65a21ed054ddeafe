package middleware

import (
	"crypto/subtle"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware guards the admin routes. The session layer lives in
// front of this service; requests arrive carrying the shared admin token in
// X-Admin-Token.
func AdminAuthMiddleware() fiber.Handler {
	token := os.Getenv("ADMIN_API_TOKEN")
	if token == "" {
		log.Fatal("ADMIN_API_TOKEN environment variable not set")
	}

	return func(c *fiber.Ctx) error {
		got := c.Get("X-Admin-Token")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			log.Printf("❌ [ADMIN] rejected %s %s: missing or bad admin token", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin token required",
			})
		}
		return c.Next()
	}
}
