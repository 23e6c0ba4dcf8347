package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CartCookieName is the cookie carrying the cart session token.
const CartCookieName = "cart_session"

// CartSession ensures every request carries a cart session token,
// issuing a fresh one as a cookie on first contact. The token scopes
// the cart in the cart store; it is opaque and unrelated to user
// identity, so guests get carts too.
func CartSession(ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := c.Cookies(CartCookieName)
		if session == "" {
			session = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     CartCookieName,
				Value:    session,
				Expires:  time.Now().Add(ttl),
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}
		c.Locals("cart_session", session)
		return c.Next()
	}
}

// CartSessionID returns the cart session token for the request.
func CartSessionID(c *fiber.Ctx) string {
	if session, ok := c.Locals("cart_session").(string); ok {
		return session
	}
	return ""
}
