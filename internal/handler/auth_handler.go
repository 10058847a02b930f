package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"movie-discovery-web/internal/service"
)

// AuthHandler handles registration, login, logout and language switching.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(c fiber.Ctx) error {
	return render(c, "register", nil)
}

// Register creates a new account from the posted form.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	username := c.FormValue("username")
	email := c.FormValue("email")
	password := c.FormValue("password")

	_, err := h.auth.Register(username, email, password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			setFlash(c, "danger", "That username or email is already taken.")
			return c.Redirect().To("/register")
		}
		slog.Error("registration failed", "error", err)
		setFlash(c, "danger", "Registration failed, please try again.")
		return c.Redirect().To("/register")
	}

	setFlash(c, "success", "Registration successful, please log in.")
	return c.Redirect().To("/login")
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c fiber.Ctx) error {
	return render(c, "login", fiber.Map{
		"Next": c.Query("next"),
	})
}

// Login authenticates the posted credentials and binds the session to the
// user. Both a wrong password and an unknown identifier produce the same
// generic message.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	identifier := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.auth.Login(identifier, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("login failed", "error", err)
		}
		setFlash(c, "danger", "Invalid username or password.")
		return c.Redirect().To("/login")
	}

	if sess := session.FromContext(c); sess != nil {
		sess.Set(sessionKeyUserID, user.ID)
	}
	setFlash(c, "success", "Welcome back, "+user.Username+"!")
	return c.Redirect().To(safeNext(c.FormValue("next")))
}

// Logout drops the authenticated identity from the session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		sess.Delete(sessionKeyUserID)
	}
	setFlash(c, "info", "You have been logged out.")
	return c.Redirect().To("/login")
}

// SetLanguage stores the language preference in the session. Unsupported
// codes fall back to the default ("hu").
func (h *AuthHandler) SetLanguage(c fiber.Ctx) error {
	lang := c.Params("lang")
	if lang != "hu" && lang != "en" {
		lang = "hu"
	}
	if sess := session.FromContext(c); sess != nil {
		sess.Set(sessionKeyLang, lang)
	}
	return c.Redirect().Back("/")
}
