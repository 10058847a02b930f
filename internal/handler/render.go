package handler

import (
	"github.com/gofiber/fiber/v3"
)

// render executes a page template with the common view state (language,
// authenticated user id, pending flash message) merged in.
func render(c fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Lang"] = language(c)
	data["UserID"] = currentUserID(c)
	if level, message, ok := takeFlash(c); ok {
		data["FlashLevel"] = level
		data["FlashMessage"] = message
	}
	return c.Render(name, data)
}
