package service

import (
	"log/slog"

	"movie-discovery-web/internal/tmdb"
)

// CatalogService wraps the TMDB client with the application's degradation
// policy: a failed or malformed call never reaches the routes as an error,
// it degrades to the empty result and the page renders without that data.
// Single best-effort attempt per call, no retry.
type CatalogService struct {
	tmdb *tmdb.Client
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(client *tmdb.Client) *CatalogService {
	return &CatalogService{tmdb: client}
}

// Popular returns a page of popular movies, or an empty list on failure.
func (s *CatalogService) Popular(lang string, page int) []tmdb.Movie {
	movies, err := s.tmdb.Popular(lang, page)
	if err != nil {
		slog.Warn("popular movies unavailable", "error", err)
		return []tmdb.Movie{}
	}
	return movies
}

// Search returns movies matching the query, or an empty list on failure.
func (s *CatalogService) Search(lang, query string) []tmdb.Movie {
	movies, err := s.tmdb.Search(lang, query)
	if err != nil {
		slog.Warn("movie search unavailable", "query", query, "error", err)
		return []tmdb.Movie{}
	}
	return movies
}

// Details returns detailed info for a movie, or nil on failure.
func (s *CatalogService) Details(lang string, movieID int) *tmdb.MovieDetail {
	detail, err := s.tmdb.Details(lang, movieID)
	if err != nil {
		slog.Warn("movie details unavailable", "movie_id", movieID, "error", err)
		return nil
	}
	return detail
}

// Genres returns the genre list, or an empty list on failure.
func (s *CatalogService) Genres(lang string) []tmdb.Genre {
	genres, err := s.tmdb.Genres(lang)
	if err != nil {
		slog.Warn("genre list unavailable", "error", err)
		return []tmdb.Genre{}
	}
	return genres
}

// Similar returns up to limit movies similar to the given one, or an empty
// list on failure.
func (s *CatalogService) Similar(lang string, movieID, limit int) []tmdb.Movie {
	movies, err := s.tmdb.Similar(lang, movieID, limit)
	if err != nil {
		slog.Warn("similar movies unavailable", "movie_id", movieID, "error", err)
		return []tmdb.Movie{}
	}
	return movies
}
