package models

import "strings"

// Member is a named participant of a trip.
type Member struct {
	// Name is the display name. Unique within a trip, compared with NameKey.
	Name string `json:"name"`

	// Balance is the member's net position.
	// Positive = is owed money, Negative = owes money.
	// Derived from the trip's transactions; never edited directly.
	Balance float64 `json:"balance"`
}

// Trip is a shared ledger grouping members and transactions.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string `json:"id"`

	// OwnerID is the opaque identity of the account that owns the trip.
	OwnerID string `json:"owner_id,omitempty"`

	// Name is the display name of the trip (e.g., "Goa 2025").
	Name string `json:"name"`

	// Members is the roster in insertion order.
	Members []Member `json:"members"`

	// PublicSlug is a short random token used for read-only public access.
	PublicSlug string `json:"public_slug"`

	// IsClosed locks the trip against edits and releases its settlement.
	IsClosed bool `json:"is_closed"`

	// EndedAt is the Unix timestamp of the last close, 0 while open.
	EndedAt int64 `json:"ended_at,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NameKey normalizes a member name for identity comparisons.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasMember reports whether name matches a roster entry, ignoring case and
// surrounding spaces.
func (t *Trip) HasMember(name string) bool {
	key := NameKey(name)
	for _, m := range t.Members {
		if NameKey(m.Name) == key {
			return true
		}
	}
	return false
}
