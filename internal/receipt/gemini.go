package receipt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	generativelanguage "cloud.google.com/go/ai/generativelanguage/apiv1beta"
	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
	"google.golang.org/api/option"
)

// ErrEmptyReply is returned when a model answers without any text.
var ErrEmptyReply = errors.New("empty model response")

// GeminiGenerator calls the Gemini generateContent endpoint.
type GeminiGenerator struct {
	client *generativelanguage.GenerativeClient
}

// NewGeminiGenerator creates a generator authenticated with apiKey.
func NewGeminiGenerator(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GeminiGenerator, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := generativelanguage.NewGenerativeClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// Close releases the underlying connection.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// Generate sends the prompt and inline image to model.
func (g *GeminiGenerator) Generate(ctx context.Context, model, prompt string, image []byte, mimeType string) (string, error) {
	resp, err := g.client.GenerateContent(ctx, generateRequest(model, prompt, image, mimeType))
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", model, err)
	}

	text := replyText(resp)
	if text == "" {
		return "", fmt.Errorf("%s: %w", model, ErrEmptyReply)
	}
	return text, nil
}

func generateRequest(model, prompt string, image []byte, mimeType string) *generativelanguagepb.GenerateContentRequest {
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return &generativelanguagepb.GenerateContentRequest{
		Model: model,
		Contents: []*generativelanguagepb.Content{{
			Role: "user",
			Parts: []*generativelanguagepb.Part{
				{Data: &generativelanguagepb.Part_Text{Text: prompt}},
				{Data: &generativelanguagepb.Part_InlineData{InlineData: &generativelanguagepb.Blob{
					MimeType: mimeType,
					Data:     image,
				}}},
			},
		}},
	}
}

// replyText joins the text parts of the first candidate that has any.
func replyText(resp *generativelanguagepb.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.GetCandidates() {
		for _, part := range cand.GetContent().GetParts() {
			sb.WriteString(part.GetText())
		}
		if strings.TrimSpace(sb.String()) != "" {
			break
		}
		sb.Reset()
	}
	return strings.TrimSpace(sb.String())
}
