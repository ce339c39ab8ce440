package api

import "github.com/mmynk/tripsplit/internal/models"

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

// NewUser converts a stored account, dropping the password hash.
func NewUser(u *models.User) *User {
	if u == nil {
		return nil
	}
	return &User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

// TripService

type CreateTripRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateTripResponse struct {
	Trip *models.Trip `json:"trip"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []*models.Trip `json:"trips"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip *models.Trip `json:"trip"`
}

type AddMemberRequest struct {
	TripID string `json:"trip_id"`
	Name   string `json:"name"`
}

type AddMemberResponse struct {
	Trip *models.Trip `json:"trip"`
}

type DeleteTripRequest struct {
	TripID string `json:"trip_id"`
}

type DeleteTripResponse struct {
	OK bool `json:"ok"`
}

type CloseTripRequest struct {
	TripID string `json:"trip_id"`
}

type CloseTripResponse struct {
	Trip *models.Trip `json:"trip"`
}

type ReopenTripRequest struct {
	TripID string `json:"trip_id"`
}

type ReopenTripResponse struct {
	Trip *models.Trip `json:"trip"`
}

// TransactionService

type ListTransactionsRequest struct {
	TripID string `json:"trip_id"`
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

type CreateTransactionRequest struct {
	TripID        string           `json:"trip_id"`
	Title         string           `json:"title"`
	Payers        []models.Payer   `json:"payers"`
	Participants  []string         `json:"participants"`
	SplitType     models.SplitType `json:"split_type"`
	CustomAmounts []float64        `json:"custom_amounts,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	// Members are the trip's balances after the change.
	Members []models.Member `json:"members"`
}

// UpdateTransactionRequest is a patch: only non-nil fields are applied.
type UpdateTransactionRequest struct {
	TransactionID string            `json:"transaction_id"`
	Title         *string           `json:"title,omitempty"`
	Payers        *[]models.Payer   `json:"payers,omitempty"`
	Participants  *[]string         `json:"participants,omitempty"`
	SplitType     *models.SplitType `json:"split_type,omitempty"`
	CustomAmounts *[]float64        `json:"custom_amounts,omitempty"`
}

type UpdateTransactionResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	Members     []models.Member     `json:"members"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type DeleteTransactionResponse struct {
	OK      bool            `json:"ok"`
	Members []models.Member `json:"members"`
}

// SettlementService

type GetSettlementRequest struct {
	TripID string `json:"trip_id"`
}

type GetSettlementResponse struct {
	models.SettlementResult
}

// PublicService

type GetPublicTripRequest struct {
	Slug string `json:"slug"`
}

type GetPublicTripResponse struct {
	// Trip never carries the owner ID.
	Trip *models.Trip `json:"trip"`
}

type ListPublicTransactionsRequest struct {
	Slug string `json:"slug"`
}

type ListPublicTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

type GetPublicSettlementRequest struct {
	Slug string `json:"slug"`
}

type GetPublicSettlementResponse struct {
	models.SettlementResult
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// ReceiptService

type ExtractReceiptRequest struct {
	// Image is the raw image, base64 encoded on the wire.
	Image    []byte `json:"image"`
	MimeType string `json:"mime_type"`
}

type ExtractReceiptResponse struct {
	Merchant string   `json:"merchant"`
	Category string   `json:"category"`
	Items    []string `json:"items"`
	Total    float64  `json:"total"`
	// Title is a suggested transaction title built from the fields above.
	Title string `json:"title"`
	// Model is the model that produced the extraction.
	Model string `json:"model"`
}
