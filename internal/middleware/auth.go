package middleware

import (
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
)

// AdminClaim is the custom claim that marks directory administrators.
const AdminClaim = "admin"

// AuthRequired verifies the Firebase ID token from the Authorization
// header and stores the caller's uid in the request locals.
func AuthRequired(client *fbauth.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token, err := client.VerifyIDToken(c.Context(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("uid", token.UID)
		c.Locals("claims", token.Claims)
		return c.Next()
	}
}

// AdminRequired rejects tokens without the admin custom claim. Must run
// after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, _ := c.Locals("claims").(map[string]interface{})
		if isAdmin, _ := claims[AdminClaim].(bool); !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}

// OptionalAuth allows both authenticated and unauthenticated requests
func OptionalAuth(client *fbauth.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Next()
		}

		token, err := client.VerifyIDToken(c.Context(), parts[1])
		if err != nil {
			return c.Next()
		}

		c.Locals("uid", token.UID)
		c.Locals("claims", token.Claims)
		return c.Next()
	}
}
