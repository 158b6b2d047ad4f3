package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mf010/dynamic-website-sub000/internal/web/handler/login"
	"github.com/mf010/dynamic-website-sub000/internal/web/session"
)

// AuthMiddleware is a Fiber middleware that checks for user authentication.
// Only the admin area requires a login; the public site passes through.
func AuthMiddleware(c *fiber.Ctx) error {
	var (
		isLoginPage   = IsLoginPage(c)
		sessDataValid bool
	)

	// get session cookie
	loginCookie := c.Cookies("session")

	// check session validity
	sessData := new(session.Data)
	if loginCookie != "" {
		_ = sessData.Read(loginCookie)
	}

	// valid data in session
	if sessData.User.ID > 0 {
		sessDataValid = true
		c.Locals("CurrentUser", sessData.User)
	}

	if sessDataValid && isLoginPage {
		return c.Redirect("/dashboard")
	}

	if !sessDataValid && IsAdminArea(c) {
		return c.Redirect(login.Path)
	}

	return c.Next()
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, login.Path)
}

// IsAdminArea checks if the current request targets a login-protected path.
func IsAdminArea(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())

	return strings.HasPrefix(originalURL, "/dashboard") ||
		strings.HasPrefix(originalURL, "/admin") ||
		strings.HasPrefix(originalURL, "/api/")
}
