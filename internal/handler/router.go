package handler

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterRoutes binds every endpoint to the Fiber app. Mutating actions
// redirect on completion; only the health probe speaks JSON.
func RegisterRoutes(app *fiber.App, auth *AuthHandler, movies *MovieHandler, users *UserHandler, limiter *RateLimiter) {
	app.Get("/healthz", movies.Health)

	// Public pages
	app.Get("/", movies.Index)
	app.Get("/search", movies.SearchForm)
	app.Get("/search/results", movies.SearchResults)
	app.Get("/movie/:id", movies.MovieDetails)
	app.Get("/set_language/:lang", auth.SetLanguage)

	// Credential endpoints, rate limited
	app.Get("/register", auth.RegisterForm)
	app.Post("/register", auth.Register, limiter.Handler())
	app.Get("/login", auth.LoginForm)
	app.Post("/login", auth.Login, limiter.Handler())
	app.Get("/logout", auth.Logout, RequireLogin())

	// Authenticated library pages
	app.Get("/favorites", users.Favorites, RequireLogin())
	app.Get("/favorite/add/:id", users.AddFavorite, RequireLogin())
	app.Get("/favorite/remove/:id", users.RemoveFavorite, RequireLogin())
	app.Get("/ratings", users.Ratings, RequireLogin())
	app.Post("/rating/add/:id", users.RateMovie, RequireLogin())
	app.Get("/rating/remove/:id", users.RemoveRating, RequireLogin())
	app.Get("/recommendations", users.Recommendations, RequireLogin())
}
