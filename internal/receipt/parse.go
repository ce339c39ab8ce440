package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnparseable is returned when a model reply holds no JSON object.
var ErrUnparseable = errors.New("failed to parse JSON from model response")

const (
	maxItems      = 10
	titleItems    = 6
	otherCategory = "Other"
)

// Categories are the accepted receipt categories.
var Categories = []string{"Food", "Travel", "Stay", "Shopping", "Activity", otherCategory}

// rawReceipt accepts whatever types the model chose for each field.
type rawReceipt struct {
	Merchant any `json:"merchant"`
	Category any `json:"category"`
	Items    any `json:"items"`
	Total    any `json:"total"`
}

// parseReply extracts and normalizes the receipt JSON from a model reply.
// Code fences are stripped; if the rest is not valid JSON, the outermost
// {...} slice is tried.
func parseReply(text string) (Receipt, error) {
	clean := strings.TrimSpace(text)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return Receipt{}, fmt.Errorf("%w: empty reply", ErrUnparseable)
	}

	var raw rawReceipt
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		start := strings.Index(clean, "{")
		end := strings.LastIndex(clean, "}")
		if start < 0 || end <= start {
			return Receipt{}, ErrUnparseable
		}
		raw = rawReceipt{}
		if err := json.Unmarshal([]byte(clean[start:end+1]), &raw); err != nil {
			return Receipt{}, ErrUnparseable
		}
	}

	return normalize(raw), nil
}

func normalize(raw rawReceipt) Receipt {
	r := Receipt{
		Merchant: strings.TrimSpace(stringify(raw.Merchant)),
		Category: otherCategory,
		Items:    []string{},
		Total:    number(raw.Total),
	}

	if c := strings.TrimSpace(stringify(raw.Category)); isCategory(c) {
		r.Category = c
	}

	if list, ok := raw.Items.([]any); ok {
		if len(list) > maxItems {
			list = list[:maxItems]
		}
		for _, item := range list {
			if s := strings.TrimSpace(stringify(item)); s != "" {
				r.Items = append(r.Items, s)
			}
		}
	}

	return r
}

func isCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// number converts a JSON total to a finite non-negative amount, else 0.
func number(v any) float64 {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// suggestTitle builds a transaction title: the merchant, else the category,
// else "Expense", followed on a second line by the first few items.
func suggestTitle(r Receipt) string {
	top := r.Merchant
	if top == "" {
		top = r.Category
	}
	if top == "" {
		top = "Expense"
	}

	items := r.Items
	if len(items) > titleItems {
		items = items[:titleItems]
	}
	if len(items) == 0 {
		return top
	}
	return top + "\n" + strings.Join(items, ", ")
}
