package repository

import (
	"database/sql"
	"fmt"

	"movie-discovery-web/internal/models"
)

// FavoriteRepository handles database operations for favorites.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add bookmarks a movie for the user. It is idempotent: an existing row is
// left untouched, including when a concurrent insert wins the race. Returns
// whether a new row was created.
func (r *FavoriteRepository) Add(userID, movieID int) (bool, error) {
	res, err := r.db.Exec(`
		INSERT INTO favorites (user_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, movie_id) DO NOTHING
	`, userID, movieID)
	if err != nil {
		if IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Remove deletes the bookmark and reports whether a row actually existed.
func (r *FavoriteRepository) Remove(userID, movieID int) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Find returns the user's favorite row for a movie.
func (r *FavoriteRepository) Find(userID, movieID int) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.db.QueryRow(`
		SELECT id, user_id, movie_id
		FROM favorites WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID).Scan(&fav.ID, &fav.UserID, &fav.MovieID)
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// ListByUser returns the user's favorites in insertion order.
func (r *FavoriteRepository) ListByUser(userID int) ([]models.Favorite, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, movie_id
		FROM favorites WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]models.Favorite, 0)
	for rows.Next() {
		var fav models.Favorite
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.MovieID); err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}
