package service

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"movie-discovery-web/internal/models"
	"movie-discovery-web/internal/repository"
)

// ErrUserExists is returned when registering with a username or email that
// is already taken.
var ErrUserExists = errors.New("username or email already exists")

// ErrInvalidCredentials is returned for any failed login. It deliberately
// does not reveal whether the identifier or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the storage contract the auth service needs.
type UserStore interface {
	CreateUser(username, email, passwordHash string) (*models.User, error)
	FindByUsernameOrEmail(identifier string) (*models.User, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	FindByID(id int) (*models.User, error)
}

// AuthService handles registration, login and session-to-user resolution.
type AuthService struct {
	users UserStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new account. The password is stored only as a bcrypt
// hash. Fails with ErrUserExists when the username or email is taken.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("username, email and password are required")
	}

	exists, err := s.users.ExistsByUsernameOrEmail(username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(username, email, string(hash))
	if err != nil {
		// A concurrent registration can slip past the existence check; the
		// unique constraint is the source of truth.
		if repository.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies the identifier (username or email) and password and returns
// the matching user. Every failure mode yields ErrInvalidCredentials.
func (s *AuthService) Login(identifier, password string) (*models.User, error) {
	user, err := s.users.FindByUsernameOrEmail(identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ResolveUser maps a session's user id to the account, or nil for an id that
// no longer resolves (treated as anonymous).
func (s *AuthService) ResolveUser(id int) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
