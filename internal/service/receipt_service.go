package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/receipt"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// MaxReceiptImageBytes bounds the uploaded image size.
const MaxReceiptImageBytes = 8 << 20

var errReceiptsDisabled = errors.New("receipt extraction is not configured")

// ReceiptExtractor reads receipts from images.
type ReceiptExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (*receipt.Receipt, error)
}

var _ apiconnect.ReceiptServiceHandler = (*ReceiptService)(nil)

// ReceiptService implements the Connect ReceiptService.
type ReceiptService struct {
	extractor ReceiptExtractor
}

// NewReceiptService creates a ReceiptService. A nil extractor answers every
// call with CodeUnavailable.
func NewReceiptService(extractor ReceiptExtractor) *ReceiptService {
	return &ReceiptService{extractor: extractor}
}

// ExtractReceipt suggests transaction fields from a receipt photo.
func (s *ReceiptService) ExtractReceipt(ctx context.Context, req *connect.Request[api.ExtractReceiptRequest]) (*connect.Response[api.ExtractReceiptResponse], error) {
	slog.Info("ExtractReceipt request received", "bytes", len(req.Msg.Image), "mime_type", req.Msg.MimeType)

	if s.extractor == nil {
		return nil, connect.NewError(connect.CodeUnavailable, errReceiptsDisabled)
	}
	if len(req.Msg.Image) > MaxReceiptImageBytes {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("image too large"))
	}

	r, err := s.extractor.Extract(ctx, req.Msg.Image, req.Msg.MimeType)
	if err != nil {
		slog.Error("ExtractReceipt failed", "error", err)
		switch {
		case errors.Is(err, receipt.ErrNoImage):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		case errors.Is(err, receipt.ErrUnavailable):
			return nil, connect.NewError(connect.CodeUnavailable, err)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, connect.NewError(connect.CodeDeadlineExceeded, err)
		}
		return nil, connect.NewError(connect.CodeInternal, errors.New("receipt parse failed"))
	}

	slog.Info("Receipt extracted", "model", r.Model, "category", r.Category, "items", len(r.Items))
	return connect.NewResponse(&api.ExtractReceiptResponse{
		Merchant: r.Merchant,
		Category: r.Category,
		Items:    r.Items,
		Total:    r.Total,
		Title:    r.Title,
		Model:    r.Model,
	}), nil
}
