package receipt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator replies per model from a fixed table.
type fakeGenerator struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	calls   []string
	mime    string
}

func (f *fakeGenerator) Generate(_ context.Context, model, prompt string, image []byte, mimeType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, model)
	f.mime = mimeType
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	if reply, ok := f.replies[model]; ok {
		return reply, nil
	}
	return "", errors.New("unknown model")
}

var image = []byte{0xff, 0xd8, 0xff}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Receipt
	}{
		{
			name:  "plain json",
			reply: `{"merchant":"Domino's","category":"Food","items":["pizza","garlic bread","coke"],"total":1249}`,
			want:  Receipt{Merchant: "Domino's", Category: "Food", Items: []string{"pizza", "garlic bread", "coke"}, Total: 1249},
		},
		{
			name:  "code fences",
			reply: "```json\n{\"merchant\":\" Cafe XYZ \",\"category\":\"Food\",\"total\":\"320.50\"}\n```",
			want:  Receipt{Merchant: "Cafe XYZ", Category: "Food", Items: []string{}, Total: 320.5},
		},
		{
			name:  "surrounding prose",
			reply: `Sure! Here it is: {"merchant":"Uber","category":"Travel","total":18} Hope that helps.`,
			want:  Receipt{Merchant: "Uber", Category: "Travel", Items: []string{}, Total: 18},
		},
		{
			name:  "unknown category and bad total",
			reply: `{"merchant":"Shop","category":"Groceries","total":-5}`,
			want:  Receipt{Merchant: "Shop", Category: "Other", Items: []string{}, Total: 0},
		},
		{
			name:  "items trimmed and capped",
			reply: `{"items":[" a ","","b","c","d","e","f","g","h","i","j","k"],"total":"abc"}`,
			want:  Receipt{Category: "Other", Items: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, Total: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReply(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReplyFailures(t *testing.T) {
	for _, reply := range []string{"", "no json here", "{broken", "```json\n```"} {
		_, err := parseReply(reply)
		assert.ErrorIs(t, err, ErrUnparseable, "reply %q", reply)
	}
}

func TestSuggestTitle(t *testing.T) {
	assert.Equal(t, "Domino's\npizza, coke", suggestTitle(Receipt{Merchant: "Domino's", Category: "Food", Items: []string{"pizza", "coke"}}))
	assert.Equal(t, "Food", suggestTitle(Receipt{Category: "Food"}))
	assert.Equal(t, "Expense", suggestTitle(Receipt{}))
	assert.Equal(t, "M\n1, 2, 3, 4, 5, 6", suggestTitle(Receipt{Merchant: "M", Items: []string{"1", "2", "3", "4", "5", "6", "7"}}))
}

func TestModelList(t *testing.T) {
	got := modelList(" primary ", []string{"", "fallback-a", "primary", "fallback-b", "fallback-a "})
	assert.Equal(t, []string{"primary", "fallback-a", "fallback-b"}, got)
}

func TestExtract(t *testing.T) {
	t.Run("first model succeeds", func(t *testing.T) {
		gen := &fakeGenerator{replies: map[string]string{
			"m1": `{"merchant":"Domino's","category":"Food","items":["pizza"],"total":1249}`,
		}}
		e := NewExtractor(gen, Config{Model: "m1", Fallbacks: []string{"m2"}})

		r, err := e.Extract(context.Background(), image, "")
		require.NoError(t, err)
		assert.Equal(t, "m1", r.Model)
		assert.Equal(t, "Domino's\npizza", r.Title)
		assert.Equal(t, 1249.0, r.Total)
		assert.Equal(t, []string{"m1"}, gen.calls)
		assert.Equal(t, DefaultMimeType, gen.mime)
	})

	t.Run("falls back on error and bad reply", func(t *testing.T) {
		gen := &fakeGenerator{
			errs:    map[string]error{"m1": errors.New("quota exceeded")},
			replies: map[string]string{"m2": "not json", "m3": `{"merchant":"Cafe","total":10}`},
		}
		e := NewExtractor(gen, Config{Model: "m1", Fallbacks: []string{"m2", "m3"}})

		r, err := e.Extract(context.Background(), image, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "m3", r.Model)
		assert.Equal(t, []string{"m1", "m2", "m3"}, gen.calls)
		assert.Equal(t, "image/png", gen.mime)
	})

	t.Run("all models fail", func(t *testing.T) {
		last := errors.New("model two down")
		gen := &fakeGenerator{errs: map[string]error{"m1": errors.New("model one down"), "m2": last}}
		e := NewExtractor(gen, Config{Model: "m1", Fallbacks: []string{"m2"}})

		_, err := e.Extract(context.Background(), image, "")
		assert.ErrorIs(t, err, ErrAllModelsFailed)
		assert.ErrorIs(t, err, last)
	})

	t.Run("missing image", func(t *testing.T) {
		gen := &fakeGenerator{}
		e := NewExtractor(gen, Config{Model: "m1"})

		_, err := e.Extract(context.Background(), nil, "")
		assert.ErrorIs(t, err, ErrNoImage)
		assert.Empty(t, gen.calls)
	})
}

func TestExtractBreakerOpens(t *testing.T) {
	gen := &fakeGenerator{errs: map[string]error{"m1": errors.New("down")}}
	e := NewExtractor(gen, Config{Model: "m1", FailureThreshold: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := e.Extract(context.Background(), image, "")
		require.ErrorIs(t, err, ErrAllModelsFailed)
	}

	_, err := e.Extract(context.Background(), image, "")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Len(t, gen.calls, 2)
}
