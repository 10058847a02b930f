package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash, never the
// plaintext password.
type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Rating is a user's integer score for a movie. At most one row exists per
// (user, movie) pair; re-rating overwrites in place.
type Rating struct {
	ID      int
	UserID  int
	MovieID int
	Rating  int
}

// Favorite is a user's bookmark of a movie, independent of any rating.
// At most one row exists per (user, movie) pair.
type Favorite struct {
	ID      int
	UserID  int
	MovieID int
}

// MovieStats aggregates the stored ratings for a single movie. Average is
// nil when no ratings exist, which the views must keep distinct from an
// average of zero.
type MovieStats struct {
	Average *float64
	Count   int
}
