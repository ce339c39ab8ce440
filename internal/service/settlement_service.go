package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"connectrpc.com/connect"
	"golang.org/x/sync/singleflight"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// SettlementObserver is notified of every computed settlement.
type SettlementObserver interface {
	ObserveSettlement(result models.SettlementResult)
}

type nopSettlementObserver struct{}

func (nopSettlementObserver) ObserveSettlement(models.SettlementResult) {}

// Settler computes the settlement of closed trips. Concurrent requests for
// the same trip share one computation.
type Settler struct {
	opts     calculator.Options
	observer SettlementObserver
	group    singleflight.Group
}

// NewSettler creates a Settler. A nil observer discards observations.
func NewSettler(opts calculator.Options, observer SettlementObserver) *Settler {
	if observer == nil {
		observer = nopSettlementObserver{}
	}
	return &Settler{opts: opts, observer: observer}
}

// Settle returns the transfers clearing trip's balances.
// Returns ErrTripNotClosed while the trip is open.
func (s *Settler) Settle(ctx context.Context, trip *models.Trip) (models.SettlementResult, error) {
	if !trip.IsClosed {
		return models.SettlementResult{}, ErrTripNotClosed
	}

	members := trip.Members
	ch := s.group.DoChan(settlementKey(trip), func() (any, error) {
		result := calculator.ComputeSettlementWithOptions(members, s.opts)
		s.observer.ObserveSettlement(result)
		slog.Info("Settlement computed",
			"trip_id", trip.ID,
			"algorithm", result.Algorithm,
			"transfers", len(result.Settlements),
		)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return models.SettlementResult{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return models.SettlementResult{}, r.Err
		}
		result := r.Val.(models.SettlementResult)
		if r.Shared {
			// Callers must not share the transfer slice.
			result.Settlements = append([]models.Transfer(nil), result.Settlements...)
		}
		return result, nil
	}
}

// settlementKey identifies a trip's balance snapshot. Two requests share a
// computation only when they would settle the same balances.
func settlementKey(trip *models.Trip) string {
	var sb strings.Builder
	sb.WriteString(trip.ID)
	for _, m := range trip.Members {
		sb.WriteByte('|')
		sb.WriteString(strconv.Quote(m.Name))
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(m.Balance, 'g', -1, 64))
	}
	return sb.String()
}

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	store   storage.TripStore
	settler *Settler
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.TripStore, settler *Settler) *SettlementService {
	return &SettlementService{store: store, settler: settler}
}

// GetSettlement returns the settlement of one of the caller's closed trips.
func (s *SettlementService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	slog.Info("GetSettlement request received", "trip_id", req.Msg.TripID)

	trip, err := ownedTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, toConnectError(err)
	}

	result, err := s.settler.Settle(ctx, trip)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetSettlementResponse{SettlementResult: result}), nil
}
