// Package auth issues and verifies the credentials of trip owners.
package auth

import (
	"context"
	"strings"

	"github.com/mmynk/tripsplit/internal/models"
)

// Authenticator registers trip owners and verifies their credentials.
// Trip ownership is keyed by the returned user's ID.
type Authenticator interface {
	// Register creates an account for email. displayName may be empty, in
	// which case the local part of the email is used.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// defaultDisplayName derives a display name from the local part of email.
func defaultDisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return email
	}
	return local
}
