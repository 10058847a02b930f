package handler

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-web/internal/service"
	"movie-discovery-web/internal/tmdb"
)

// MovieHandler handles the public browse, search and detail pages.
type MovieHandler struct {
	catalog *service.CatalogService
	library *service.LibraryService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(catalog *service.CatalogService, library *service.LibraryService) *MovieHandler {
	return &MovieHandler{catalog: catalog, library: library}
}

// Health returns service health status.
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-discovery-web",
	})
}

// Index renders popular movies, or search results when a query is present.
func (h *MovieHandler) Index(c fiber.Ctx) error {
	lang := tmdb.ResolveLanguage(language(c))
	query := strings.TrimSpace(c.Query("query"))

	if query != "" {
		return render(c, "index", fiber.Map{
			"Movies":      h.catalog.Search(lang, query),
			"Searching":   true,
			"SearchQuery": query,
		})
	}

	return render(c, "index", fiber.Map{
		"Movies":      h.catalog.Popular(lang, 1),
		"Searching":   false,
		"SearchQuery": "",
	})
}

// SearchForm renders the search page with the genre list for filtering.
func (h *MovieHandler) SearchForm(c fiber.Ctx) error {
	lang := tmdb.ResolveLanguage(language(c))
	return render(c, "search", fiber.Map{
		"Genres": h.catalog.Genres(lang),
	})
}

// SearchResults renders movies matching the query, optionally narrowed to a
// single genre. The genre filter is applied client-side on the fetched
// results; genre 0 (or none) means all genres.
func (h *MovieHandler) SearchResults(c fiber.Ctx) error {
	lang := tmdb.ResolveLanguage(language(c))
	query := c.Query("query")
	genreID, _ := strconv.Atoi(c.Query("genre"))

	results := h.catalog.Search(lang, query)
	if genreID != 0 {
		filtered := make([]tmdb.Movie, 0, len(results))
		for _, m := range results {
			for _, gid := range m.GenreIDs {
				if gid == genreID {
					filtered = append(filtered, m)
					break
				}
			}
		}
		results = filtered
	}

	return render(c, "search_results", fiber.Map{
		"Results":     results,
		"SearchQuery": query,
	})
}

// MovieDetails renders a movie's detail page with its community average,
// and (for authenticated callers) their own rating and favorite flag.
func (h *MovieHandler) MovieDetails(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		setFlash(c, "danger", "Invalid movie.")
		return c.Redirect().To("/")
	}

	lang := tmdb.ResolveLanguage(language(c))
	movie := h.catalog.Details(lang, movieID)

	stats, err := h.library.MovieStats(movieID)
	if err != nil {
		slog.Error("failed to load movie stats", "movie_id", movieID, "error", err)
		return fiber.ErrInternalServerError
	}

	data := fiber.Map{
		"Movie":      movie,
		"MovieID":    movieID,
		"AvgRating":  stats.Average,
		"NumRatings": stats.Count,
		"IsFavorite": false,
	}

	if userID := currentUserID(c); userID != 0 {
		rating, err := h.library.UserRating(userID, movieID)
		if err != nil {
			slog.Error("failed to load user rating", "movie_id", movieID, "error", err)
			return fiber.ErrInternalServerError
		}
		if rating != nil {
			data["UserRating"] = rating.Rating
		}

		isFav, err := h.library.IsFavorite(userID, movieID)
		if err != nil {
			slog.Error("failed to load favorite state", "movie_id", movieID, "error", err)
			return fiber.ErrInternalServerError
		}
		data["IsFavorite"] = isFav
	}

	return render(c, "movie_details", data)
}
