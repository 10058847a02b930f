package handler

import (
	"encoding/gob"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
)

// Session keys. The session carries the authenticated identity, the language
// preference and the per-session recommendation cache.
const (
	sessionKeyUserID         = "user_id"
	sessionKeyLang           = "lang"
	sessionKeyRecommendedIDs = "recommended_ids"
	sessionKeyFlashLevel     = "flash_level"
	sessionKeyFlashMessage   = "flash_message"
)

func init() {
	// Session values are gob-encoded when persisted to Redis.
	gob.Register([]int{})
}

// currentUserID returns the authenticated user's id, or 0 for anonymous.
func currentUserID(c fiber.Ctx) int {
	sess := session.FromContext(c)
	if sess == nil {
		return 0
	}
	if id, ok := sess.Get(sessionKeyUserID).(int); ok {
		return id
	}
	return 0
}

// language returns the session language preference, defaulting to "hu".
func language(c fiber.Ctx) string {
	sess := session.FromContext(c)
	if sess == nil {
		return "hu"
	}
	if lang, ok := sess.Get(sessionKeyLang).(string); ok && lang != "" {
		return lang
	}
	return "hu"
}

// setFlash stores a one-shot message for the next rendered page.
func setFlash(c fiber.Ctx, level, message string) {
	if sess := session.FromContext(c); sess != nil {
		sess.Set(sessionKeyFlashLevel, level)
		sess.Set(sessionKeyFlashMessage, message)
	}
}

// takeFlash pops the pending flash message, if any.
func takeFlash(c fiber.Ctx) (level, message string, ok bool) {
	sess := session.FromContext(c)
	if sess == nil {
		return "", "", false
	}
	message, ok = sess.Get(sessionKeyFlashMessage).(string)
	if !ok || message == "" {
		return "", "", false
	}
	level, _ = sess.Get(sessionKeyFlashLevel).(string)
	sess.Delete(sessionKeyFlashLevel)
	sess.Delete(sessionKeyFlashMessage)
	return level, message, true
}
