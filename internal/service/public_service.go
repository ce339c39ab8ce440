package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

var _ apiconnect.PublicServiceHandler = (*PublicService)(nil)

// PublicService serves read-only trip views by public slug. No credentials
// are required; the owner ID is never exposed.
type PublicService struct {
	store   storage.Store
	settler *Settler
}

// NewPublicService creates a new PublicService.
func NewPublicService(store storage.Store, settler *Settler) *PublicService {
	return &PublicService{store: store, settler: settler}
}

func (s *PublicService) tripBySlug(ctx context.Context, slug string) (*models.Trip, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}
	trip, err := s.store.GetTripBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	trip.OwnerID = ""
	return trip, nil
}

// GetPublicTrip returns the trip behind slug.
func (s *PublicService) GetPublicTrip(ctx context.Context, req *connect.Request[api.GetPublicTripRequest]) (*connect.Response[api.GetPublicTripResponse], error) {
	trip, err := s.tripBySlug(ctx, req.Msg.Slug)
	if err != nil {
		slog.Warn("GetPublicTrip failed", "slug", req.Msg.Slug, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetPublicTripResponse{Trip: trip}), nil
}

// ListPublicTransactions returns the transactions of the trip behind slug, newest first.
func (s *PublicService) ListPublicTransactions(ctx context.Context, req *connect.Request[api.ListPublicTransactionsRequest]) (*connect.Response[api.ListPublicTransactionsResponse], error) {
	trip, err := s.tripBySlug(ctx, req.Msg.Slug)
	if err != nil {
		return nil, toConnectError(err)
	}

	txns, err := s.store.ListTransactions(ctx, trip.ID)
	if err != nil {
		slog.Error("ListPublicTransactions failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return connect.NewResponse(&api.ListPublicTransactionsResponse{Transactions: txns}), nil
}

// GetPublicSettlement returns the settlement of the closed trip behind slug.
func (s *PublicService) GetPublicSettlement(ctx context.Context, req *connect.Request[api.GetPublicSettlementRequest]) (*connect.Response[api.GetPublicSettlementResponse], error) {
	trip, err := s.tripBySlug(ctx, req.Msg.Slug)
	if err != nil {
		return nil, toConnectError(err)
	}

	result, err := s.settler.Settle(ctx, trip)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetPublicSettlementResponse{SettlementResult: result}), nil
}
