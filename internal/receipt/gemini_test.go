package receipt

import (
	"testing"

	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequest(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff}
	req := generateRequest("gemini-2.5-flash", "read this", img, "image/png")

	assert.Equal(t, "models/gemini-2.5-flash", req.GetModel())
	require.Len(t, req.GetContents(), 1)
	content := req.GetContents()[0]
	assert.Equal(t, "user", content.GetRole())
	require.Len(t, content.GetParts(), 2)
	assert.Equal(t, "read this", content.GetParts()[0].GetText())
	blob := content.GetParts()[1].GetInlineData()
	require.NotNil(t, blob)
	assert.Equal(t, "image/png", blob.GetMimeType())
	assert.Equal(t, img, blob.GetData())

	assert.Equal(t, "models/gemini-1.5-pro", generateRequest("models/gemini-1.5-pro", "", nil, "").GetModel())
}

func textPart(s string) *generativelanguagepb.Part {
	return &generativelanguagepb.Part{Data: &generativelanguagepb.Part_Text{Text: s}}
}

func TestReplyText(t *testing.T) {
	resp := &generativelanguagepb.GenerateContentResponse{
		Candidates: []*generativelanguagepb.Candidate{
			{},
			{Content: &generativelanguagepb.Content{Parts: []*generativelanguagepb.Part{textPart("  ")}}},
			{Content: &generativelanguagepb.Content{Parts: []*generativelanguagepb.Part{textPart(`{"merchant":`), textPart(`"Cafe"}`)}}},
			{Content: &generativelanguagepb.Content{Parts: []*generativelanguagepb.Part{textPart("ignored")}}},
		},
	}
	assert.Equal(t, `{"merchant":"Cafe"}`, replyText(resp))
	assert.Empty(t, replyText(&generativelanguagepb.GenerateContentResponse{}))
	assert.Empty(t, replyText(nil))
}
