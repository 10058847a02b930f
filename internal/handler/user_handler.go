package handler

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"movie-discovery-web/internal/service"
	"movie-discovery-web/internal/tmdb"
)

// UserHandler handles the authenticated library pages: favorites, ratings
// and recommendations.
type UserHandler struct {
	library     *service.LibraryService
	recommender *service.RecommendationService
	catalog     *service.CatalogService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(library *service.LibraryService, recommender *service.RecommendationService, catalog *service.CatalogService) *UserHandler {
	return &UserHandler{library: library, recommender: recommender, catalog: catalog}
}

// Favorites renders the user's favorites joined with live catalog lookups.
func (h *UserHandler) Favorites(c fiber.Ctx) error {
	lang := tmdb.ResolveLanguage(language(c))
	movies, err := h.library.FavoriteMovies(lang, currentUserID(c))
	if err != nil {
		slog.Error("failed to list favorites", "error", err)
		return fiber.ErrInternalServerError
	}
	return render(c, "favorites", fiber.Map{"Movies": movies})
}

// AddFavorite bookmarks a movie. Adding an existing favorite is a no-op
// reported as such, never an error.
func (h *UserHandler) AddFavorite(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		setFlash(c, "danger", "Invalid movie.")
		return c.Redirect().To("/")
	}

	created, err := h.library.AddFavorite(currentUserID(c), movieID)
	if err != nil {
		slog.Error("failed to add favorite", "movie_id", movieID, "error", err)
		return fiber.ErrInternalServerError
	}

	if created {
		setFlash(c, "success", "Added to favorites!")
	} else {
		setFlash(c, "info", "This movie is already in your favorites.")
	}
	return c.Redirect().To("/movie/" + strconv.Itoa(movieID))
}

// RemoveFavorite removes the bookmark; removing a missing one just warns.
func (h *UserHandler) RemoveFavorite(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		setFlash(c, "danger", "Invalid movie.")
		return c.Redirect().To("/favorites")
	}

	removed, err := h.library.RemoveFavorite(currentUserID(c), movieID)
	if err != nil {
		slog.Error("failed to remove favorite", "movie_id", movieID, "error", err)
		return fiber.ErrInternalServerError
	}

	if removed {
		setFlash(c, "info", "Removed from favorites.")
	} else {
		setFlash(c, "warning", "This movie is not in your favorites.")
	}
	return c.Redirect().To("/favorites")
}

// Ratings renders the user's ratings joined with live catalog lookups.
func (h *UserHandler) Ratings(c fiber.Ctx) error {
	lang := tmdb.ResolveLanguage(language(c))
	rated, err := h.library.RatedMovies(lang, currentUserID(c))
	if err != nil {
		slog.Error("failed to list ratings", "error", err)
		return fiber.ErrInternalServerError
	}
	return render(c, "my_ratings", fiber.Map{"Rated": rated})
}

// RateMovie creates or overwrites the caller's rating from the posted form.
func (h *UserHandler) RateMovie(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		setFlash(c, "danger", "Invalid movie.")
		return c.Redirect().To("/")
	}

	value, err := strconv.Atoi(c.FormValue("rating"))
	if err != nil {
		setFlash(c, "danger", "Invalid rating value.")
		return c.Redirect().To("/movie/" + strconv.Itoa(movieID))
	}

	if err := h.library.RateMovie(currentUserID(c), movieID, value); err != nil {
		slog.Error("failed to save rating", "movie_id", movieID, "error", err)
		return fiber.ErrInternalServerError
	}

	setFlash(c, "success", "Rating saved!")
	return c.Redirect().To("/movie/" + strconv.Itoa(movieID))
}

// RemoveRating deletes the caller's rating; a missing rating just warns.
func (h *UserHandler) RemoveRating(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		setFlash(c, "danger", "Invalid movie.")
		return c.Redirect().To("/ratings")
	}

	removed, err := h.library.RemoveRating(currentUserID(c), movieID)
	if err != nil {
		slog.Error("failed to remove rating", "movie_id", movieID, "error", err)
		return fiber.ErrInternalServerError
	}

	if removed {
		setFlash(c, "success", "Rating removed.")
	} else {
		setFlash(c, "warning", "You have no rating for this movie.")
	}
	return c.Redirect().To("/ratings")
}

// Recommendations renders movies similar to the user's first favorite. The
// recommended id list is computed once per session and reused on later
// visits, even if favorites change afterwards.
func (h *UserHandler) Recommendations(c fiber.Ctx) error {
	lang := tmdb.ResolveLanguage(language(c))
	sess := session.FromContext(c)

	var ids []int
	cached := false
	if sess != nil {
		ids, cached = sess.Get(sessionKeyRecommendedIDs).([]int)
	}
	if !cached {
		favoriteIDs, err := h.library.FavoriteMovieIDs(currentUserID(c))
		if err != nil {
			slog.Error("failed to list favorite ids", "error", err)
			return fiber.ErrInternalServerError
		}

		recommended := h.recommender.Recommend(lang, favoriteIDs)
		ids = make([]int, 0, len(recommended))
		for _, m := range recommended {
			ids = append(ids, m.ID)
		}
		if sess != nil {
			sess.Set(sessionKeyRecommendedIDs, ids)
		}
	}

	movies := make([]tmdb.MovieDetail, 0, len(ids))
	for _, id := range ids {
		if detail := h.catalog.Details(lang, id); detail != nil && detail.ID != 0 {
			movies = append(movies, *detail)
		}
	}

	return render(c, "recommendations", fiber.Map{"Movies": movies})
}
