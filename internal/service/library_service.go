package service

import (
	"database/sql"
	"errors"

	"movie-discovery-web/internal/models"
	"movie-discovery-web/internal/tmdb"
)

// RatingStore is the storage contract for ratings.
type RatingStore interface {
	Upsert(userID, movieID, value int) error
	Find(userID, movieID int) (*models.Rating, error)
	Delete(userID, movieID int) (bool, error)
	ListByUser(userID int) ([]models.Rating, error)
	ListByMovie(movieID int) ([]models.Rating, error)
}

// FavoriteStore is the storage contract for favorites.
type FavoriteStore interface {
	Add(userID, movieID int) (bool, error)
	Remove(userID, movieID int) (bool, error)
	Find(userID, movieID int) (*models.Favorite, error)
	ListByUser(userID int) ([]models.Favorite, error)
}

// RatedMovie pairs a live catalog lookup with the user's stored score.
type RatedMovie struct {
	Movie  *tmdb.MovieDetail
	Rating int
}

// LibraryService handles the user's persisted movie state (ratings and
// favorites) and joins it with live catalog lookups for the list views.
type LibraryService struct {
	ratings   RatingStore
	favorites FavoriteStore
	catalog   *CatalogService
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(ratings RatingStore, favorites FavoriteStore, catalog *CatalogService) *LibraryService {
	return &LibraryService{ratings: ratings, favorites: favorites, catalog: catalog}
}

// RateMovie creates or overwrites the user's rating for a movie.
func (s *LibraryService) RateMovie(userID, movieID, value int) error {
	return s.ratings.Upsert(userID, movieID, value)
}

// RemoveRating deletes the user's rating and reports whether one existed.
func (s *LibraryService) RemoveRating(userID, movieID int) (bool, error) {
	return s.ratings.Delete(userID, movieID)
}

// UserRating returns the user's own rating for a movie, or nil if none.
func (s *LibraryService) UserRating(userID, movieID int) (*models.Rating, error) {
	rating, err := s.ratings.Find(userID, movieID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rating, nil
}

// MovieStats computes the arithmetic mean of all users' ratings for a movie.
// Average stays nil when no ratings exist so "no ratings yet" is never
// rendered as an average of zero.
func (s *LibraryService) MovieStats(movieID int) (models.MovieStats, error) {
	ratings, err := s.ratings.ListByMovie(movieID)
	if err != nil {
		return models.MovieStats{}, err
	}
	stats := models.MovieStats{Count: len(ratings)}
	if len(ratings) == 0 {
		return stats, nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(ratings))
	stats.Average = &avg
	return stats, nil
}

// AddFavorite bookmarks a movie; adding an existing favorite is a no-op.
// Returns whether the favorite was newly created.
func (s *LibraryService) AddFavorite(userID, movieID int) (bool, error) {
	return s.favorites.Add(userID, movieID)
}

// RemoveFavorite removes the bookmark and reports whether one existed.
func (s *LibraryService) RemoveFavorite(userID, movieID int) (bool, error) {
	return s.favorites.Remove(userID, movieID)
}

// IsFavorite reports whether the user has bookmarked the movie.
func (s *LibraryService) IsFavorite(userID, movieID int) (bool, error) {
	_, err := s.favorites.Find(userID, movieID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FavoriteMovieIDs returns the user's favorite movie ids in stored order.
func (s *LibraryService) FavoriteMovieIDs(userID int) ([]int, error) {
	favorites, err := s.favorites.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.MovieID)
	}
	return ids, nil
}

// FavoriteMovies resolves the user's favorites against the live catalog.
// Movies the catalog cannot resolve are skipped rather than failing the list.
func (s *LibraryService) FavoriteMovies(lang string, userID int) ([]tmdb.MovieDetail, error) {
	favorites, err := s.favorites.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	movies := make([]tmdb.MovieDetail, 0, len(favorites))
	for _, f := range favorites {
		if detail := s.catalog.Details(lang, f.MovieID); detail != nil && detail.ID != 0 {
			movies = append(movies, *detail)
		}
	}
	return movies, nil
}

// RatedMovies resolves the user's ratings against the live catalog.
func (s *LibraryService) RatedMovies(lang string, userID int) ([]RatedMovie, error) {
	ratings, err := s.ratings.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	rated := make([]RatedMovie, 0, len(ratings))
	for _, r := range ratings {
		if detail := s.catalog.Details(lang, r.MovieID); detail != nil && detail.ID != 0 {
			rated = append(rated, RatedMovie{Movie: detail, Rating: r.Rating})
		}
	}
	return rated, nil
}
