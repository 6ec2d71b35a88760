package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a member of the site. The feed and like engine only ever
// read the ID and Role; everything else belongs to the identity subsystem.
type User struct {
	ID        int64     // Unique identifier
	Name      string    // Display name
	Email     string    // Login email (unique)
	Password  string    // Bcrypt hashed password
	Role      string    // RoleUser or RoleAdmin
	Banned    bool      // Banned members cannot log in
	CreatedAt time.Time // Account creation timestamp
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByEmail retrieves a user by their email.
	// Used during login to verify credentials.
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByIDs retrieves users for the given IDs, missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]User, error)
}

// UserUsecase handles authentication.
type UserUsecase interface {
	// Login verifies user credentials and returns a signed bearer token.
	// Returns ErrUnauthorized if the credentials don't match or the user is banned.
	Login(ctx context.Context, email, password string) (string, User, error)
}

// CredentialVerifier resolves a bearer token to the identity it was issued for.
type CredentialVerifier interface {
	// Resolve returns the user ID and role encoded in token.
	// Returns ErrUnauthorized for a missing, malformed or expired token.
	Resolve(token string) (int64, string, error)
}
