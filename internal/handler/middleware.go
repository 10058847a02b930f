package handler

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// RequireLogin guards a route: anonymous callers are redirected to the login
// page with the originally requested destination preserved in ?next=.
func RequireLogin() fiber.Handler {
	return func(c fiber.Ctx) error {
		if currentUserID(c) != 0 {
			return c.Next()
		}
		setFlash(c, "warning", "Please log in to continue.")
		return c.Redirect().To("/login?next=" + url.QueryEscape(c.OriginalURL()))
	}
}

// safeNext validates a post-login redirect target: only local paths are
// honored, anything else falls back to the home page.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}
