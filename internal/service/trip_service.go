package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

var _ apiconnect.TripServiceHandler = (*TripService)(nil)

// TripService implements the Connect TripService.
type TripService struct {
	store  storage.Store
	ledger *ledger.Recomputer
}

// NewTripService creates a new TripService with the given storage backend.
// Roster changes are serialized through rec's trip locks.
func NewTripService(store storage.Store, rec *ledger.Recomputer) *TripService {
	return &TripService{store: store, ledger: rec}
}

// ownedTrip loads tripID and hides trips of other owners behind ErrNotFound.
func ownedTrip(ctx context.Context, store storage.TripStore, tripID string) (*models.Trip, error) {
	if strings.TrimSpace(tripID) == "" {
		return nil, fmt.Errorf("%w: trip_id is required", ErrInvalidInput)
	}
	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID != middleware.GetUserID(ctx) {
		return nil, fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	return trip, nil
}

// CreateTrip creates a trip owned by the caller.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	slog.Info("CreateTrip request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(fmt.Errorf("%w: trip name is required", ErrInvalidInput))
	}

	members := make([]models.Member, 0, len(req.Msg.Members))
	for _, m := range req.Msg.Members {
		if m = strings.TrimSpace(m); m != "" {
			members = append(members, models.Member{Name: m})
		}
	}

	trip := &models.Trip{
		OwnerID: middleware.GetUserID(ctx),
		Name:    name,
		Members: members,
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip created", "trip_id", trip.ID, "slug", trip.PublicSlug)
	return connect.NewResponse(&api.CreateTripResponse{Trip: trip}), nil
}

// ListTrips returns the caller's trips, newest first.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	trips, err := s.store.ListTripsByOwner(ctx, middleware.GetUserID(ctx))
	if err != nil {
		slog.Error("ListTrips failed", "error", err)
		return nil, toConnectError(err)
	}
	if trips == nil {
		trips = []*models.Trip{}
	}

	slog.Info("ListTrips successful", "count", len(trips))
	return connect.NewResponse(&api.ListTripsResponse{Trips: trips}), nil
}

// GetTrip retrieves one of the caller's trips.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	trip, err := ownedTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		slog.Warn("GetTrip failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetTripResponse{Trip: trip}), nil
}

// AddMember appends a zero-balance member to an open trip.
func (s *TripService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "trip_id", req.Msg.TripID, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(fmt.Errorf("%w: member name is required", ErrInvalidInput))
	}

	// Recompute saves the whole roster, so additions take the same lock.
	unlock := s.ledger.Lock(req.Msg.TripID)
	defer unlock()

	trip, err := ownedTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if trip.IsClosed {
		return nil, toConnectError(ErrTripClosed)
	}
	if trip.HasMember(name) {
		return nil, toConnectError(fmt.Errorf("member %q: %w", name, storage.ErrDuplicateMember))
	}

	if err := s.store.AddMember(ctx, trip.ID, name); err != nil {
		slog.Error("AddMember failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	updated, err := s.store.GetTrip(ctx, trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "trip_id", trip.ID, "members_count", len(updated.Members))
	return connect.NewResponse(&api.AddMemberResponse{Trip: updated}), nil
}

// DeleteTrip removes a trip together with its transactions.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	slog.Info("DeleteTrip request received", "trip_id", req.Msg.TripID)

	unlock := s.ledger.Lock(req.Msg.TripID)
	defer unlock()

	trip, err := ownedTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteTrip(ctx, trip.ID); err != nil {
		slog.Error("DeleteTrip failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip deleted", "trip_id", trip.ID)
	return connect.NewResponse(&api.DeleteTripResponse{OK: true}), nil
}

// CloseTrip ends a trip, locking edits and releasing its settlement.
// Closing a closed trip returns it unchanged.
func (s *TripService) CloseTrip(ctx context.Context, req *connect.Request[api.CloseTripRequest]) (*connect.Response[api.CloseTripResponse], error) {
	trip, err := s.setClosed(ctx, req.Msg.TripID, true)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CloseTripResponse{Trip: trip}), nil
}

// ReopenTrip allows edits again and hides the settlement.
// Reopening an open trip returns it unchanged.
func (s *TripService) ReopenTrip(ctx context.Context, req *connect.Request[api.ReopenTripRequest]) (*connect.Response[api.ReopenTripResponse], error) {
	trip, err := s.setClosed(ctx, req.Msg.TripID, false)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ReopenTripResponse{Trip: trip}), nil
}

func (s *TripService) setClosed(ctx context.Context, tripID string, closed bool) (*models.Trip, error) {
	unlock := s.ledger.Lock(tripID)
	defer unlock()

	trip, err := ownedTrip(ctx, s.store, tripID)
	if err != nil {
		return nil, err
	}
	if trip.IsClosed == closed {
		return trip, nil
	}

	var endedAt int64
	if closed {
		endedAt = time.Now().Unix()
	}
	if err := s.store.SetTripClosed(ctx, trip.ID, closed, endedAt); err != nil {
		slog.Error("Failed to update trip state", "trip_id", trip.ID, "closed", closed, "error", err)
		return nil, err
	}

	slog.Info("Trip state changed", "trip_id", trip.ID, "closed", closed)
	return s.store.GetTrip(ctx, trip.ID)
}
