package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: make(map[string]*models.User)}
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return fmt.Errorf("user %s: %w", user.Email, storage.ErrEmailTaken)
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemUsers()).WithCost(bcrypt.MinCost)

	user, err := a.Register(ctx, "  Ana@Example.com ", "", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("Email = %q, want normalized address", user.Email)
	}
	if user.DisplayName != "ana" {
		t.Errorf("DisplayName = %q, want %q", user.DisplayName, "ana")
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password stored in clear text")
	}

	tests := []struct {
		name     string
		register func() error
		wantErr  error
	}{
		{"duplicate email", func() error {
			_, err := a.Register(ctx, "ANA@example.com", "Ana", "another password")
			return err
		}, ErrEmailExists},
		{"short password", func() error {
			_, err := a.Register(ctx, "bo@example.com", "Bo", "short")
			return err
		}, ErrWeakPassword},
		{"bad email", func() error {
			_, err := a.Register(ctx, "not-an-email", "X", "long enough pw")
			return err
		}, ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.register(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("Authenticate", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "ANA@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("ID = %q, want %q", got.ID, user.ID)
		}

		if _, err := a.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("wrong password: got %v", err)
		}
		if _, err := a.Authenticate(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("unknown email: got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "ana@example.com"}
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID() != "user-1" || claims.Email != "ana@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTManager("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		if _, err := later.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("got %v, want ErrInvalidToken", err)
		}
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"", "", ErrMissingToken},
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"Basic abc", "", ErrInvalidToken},
		{"Bearer", "", ErrInvalidToken},
		{"Bearer   ", "", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
