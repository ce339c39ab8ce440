package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/internal/validation"
)

var (
	// ErrInvalidInput is returned for malformed trip or member input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTripClosed is returned when a closed trip is edited.
	ErrTripClosed = errors.New("trip is closed")

	// ErrTripNotClosed is returned when settlement is requested before the trip ends.
	ErrTripNotClosed = errors.New("trip not closed: settlement is only available after the trip is ended")

	// ErrForbidden is returned when a transaction belongs to another owner's trip.
	ErrForbidden = errors.New("not allowed")
)

// TripClosedHeader is set to "false" on settlement responses refused because
// the trip is still open.
const TripClosedHeader = "Trip-Closed"

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, validation.ErrInvalid):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrTripClosed):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrDuplicateMember):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ErrTripNotClosed):
		ce := connect.NewError(connect.CodePermissionDenied, err)
		ce.Meta().Set(TripClosedHeader, "false")
		return ce
	case errors.Is(err, ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
