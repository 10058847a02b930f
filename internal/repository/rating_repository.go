package repository

import (
	"database/sql"
	"fmt"

	"movie-discovery-web/internal/models"
)

// RatingRepository handles database operations for ratings.
type RatingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert creates the rating or overwrites the existing one. The
// UNIQUE(user_id, movie_id) constraint guarantees a single row per pair.
func (r *RatingRepository) Upsert(userID, movieID, value int) error {
	_, err := r.db.Exec(`
		INSERT INTO ratings (user_id, movie_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET rating = EXCLUDED.rating
	`, userID, movieID, value)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// Find returns the user's rating for a movie.
func (r *RatingRepository) Find(userID, movieID int) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.QueryRow(`
		SELECT id, user_id, movie_id, rating
		FROM ratings WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID).Scan(&rating.ID, &rating.UserID, &rating.MovieID, &rating.Rating)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Delete removes the user's rating for a movie and reports whether a row
// actually existed.
func (r *RatingRepository) Delete(userID, movieID int) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM ratings WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("failed to delete rating: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListByUser returns all ratings stored for a user.
func (r *RatingRepository) ListByUser(userID int) ([]models.Rating, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, movie_id, rating
		FROM ratings WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()
	return scanRatings(rows)
}

// ListByMovie returns all users' ratings for a movie.
func (r *RatingRepository) ListByMovie(movieID int) ([]models.Rating, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, movie_id, rating
		FROM ratings WHERE movie_id = $1
		ORDER BY id
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()
	return scanRatings(rows)
}

func scanRatings(rows *sql.Rows) ([]models.Rating, error) {
	ratings := make([]models.Rating, 0)
	for rows.Next() {
		var rating models.Rating
		if err := rows.Scan(&rating.ID, &rating.UserID, &rating.MovieID, &rating.Rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
