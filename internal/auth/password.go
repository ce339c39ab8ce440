package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("a valid email address is required")
	ErrEmailExists        = errors.New("email already registered")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	users storage.UserStore
	cost  int
}

var _ Authenticator = (*PasswordAuthenticator)(nil)

// NewPasswordAuthenticator creates a password authenticator hashing with
// bcrypt.DefaultCost.
func NewPasswordAuthenticator(users storage.UserStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy hashing at the given bcrypt cost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	c := *a
	c.cost = cost
	return &c
}

// Register creates a new account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*models.User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(credential) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = defaultDisplayName(email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, displayName, string(hashed))
	if err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password. Unknown emails and wrong
// passwords yield the same error.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
