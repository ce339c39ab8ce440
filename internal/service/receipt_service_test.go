package service

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/receipt"
	"github.com/mmynk/tripsplit/pkg/api"
)

type fakeExtractor struct {
	result *receipt.Receipt
	err    error
	mime   string
}

func (f *fakeExtractor) Extract(_ context.Context, image []byte, mimeType string) (*receipt.Receipt, error) {
	f.mime = mimeType
	if len(image) == 0 {
		return nil, receipt.ErrNoImage
	}
	return f.result, f.err
}

func TestExtractReceipt(t *testing.T) {
	fake := &fakeExtractor{result: &receipt.Receipt{
		Merchant: "Domino's",
		Category: "Food",
		Items:    []string{"pizza", "coke"},
		Total:    1249,
		Title:    "Domino's\npizza, coke",
		Model:    "gemini-2.5-flash",
	}}
	c := setupTestServer(t, fake).as(testOwner)

	resp, err := c.receipts.ExtractReceipt(context.Background(), connect.NewRequest(&api.ExtractReceiptRequest{
		Image:    []byte{0xff, 0xd8},
		MimeType: "image/png",
	}))
	if err != nil {
		t.Fatalf("ExtractReceipt failed: %v", err)
	}
	if resp.Msg.Merchant != "Domino's" || resp.Msg.Total != 1249 || resp.Msg.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected response: %+v", resp.Msg)
	}
	if resp.Msg.Title != "Domino's\npizza, coke" {
		t.Errorf("title: got %q", resp.Msg.Title)
	}
	if fake.mime != "image/png" {
		t.Errorf("mime type: expected image/png, got %s", fake.mime)
	}

	_, err = c.receipts.ExtractReceipt(context.Background(), connect.NewRequest(&api.ExtractReceiptRequest{}))
	expectCode(t, err, connect.CodeInvalidArgument)

	fake.err = receipt.ErrUnavailable
	_, err = c.receipts.ExtractReceipt(context.Background(), connect.NewRequest(&api.ExtractReceiptRequest{Image: []byte{1}}))
	expectCode(t, err, connect.CodeUnavailable)

	fake.err = errors.New("model exploded")
	_, err = c.receipts.ExtractReceipt(context.Background(), connect.NewRequest(&api.ExtractReceiptRequest{Image: []byte{1}}))
	expectCode(t, err, connect.CodeInternal)
}

func TestExtractReceipt_NotConfigured(t *testing.T) {
	srv := setupTestServer(t, nil)

	_, err := srv.as(testOwner).receipts.ExtractReceipt(context.Background(), connect.NewRequest(&api.ExtractReceiptRequest{Image: []byte{1}}))
	expectCode(t, err, connect.CodeUnavailable)

	_, err = srv.as("").receipts.ExtractReceipt(context.Background(), connect.NewRequest(&api.ExtractReceiptRequest{Image: []byte{1}}))
	expectCode(t, err, connect.CodeUnauthenticated)
}
