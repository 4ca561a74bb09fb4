package backend

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", testLogger())
	require.Error(t, err)
}

func TestGenerateImagesRejectsOversizedCount(t *testing.T) {
	g := &Gemini{logger: testLogger()}
	_, err := g.GenerateImages(context.Background(), ImageRequest{Prompt: "cat", Count: math.MaxInt32 + 2})
	assert.ErrorContains(t, err, "out of range")
}

func TestToConfig(t *testing.T) {
	schema := &genai.Schema{Type: genai.TypeArray}
	cfg := toConfig(Request{
		SystemInstruction: "be kind",
		ResponseSchema:    schema,
		GoogleSearch:      true,
		Modalities:        []string{"IMAGE", "TEXT"},
	})

	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be kind", cfg.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Same(t, schema, cfg.ResponseSchema)
	require.Len(t, cfg.Tools, 1)
	assert.NotNil(t, cfg.Tools[0].GoogleSearch)
	assert.Equal(t, []string{"IMAGE", "TEXT"}, cfg.ResponseModalities)

	plain := toConfig(Request{})
	assert.Nil(t, plain.SystemInstruction)
	assert.Empty(t, plain.ResponseMIMEType)
	assert.Empty(t, plain.Tools)
}

func TestToContents(t *testing.T) {
	contents := toContents([]Part{{Data: []byte("img"), MIMEType: "image/png"}, {Text: "make it blue"}})
	require.Len(t, contents, 1)
	parts := contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "image/png", parts[0].InlineData.MIMEType)
	assert.Equal(t, "make it blue", parts[1].Text)
}

func TestFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Here is your image."},
				{InlineData: &genai.Blob{Data: []byte{0xff}, MIMEType: "image/png"}},
			}},
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{URI: "https://example.com", Title: "Example"}},
					{},
				},
			},
		}},
	}

	out := fromResponse(resp)
	assert.Equal(t, 1, out.Candidates)
	assert.Equal(t, "Here is your image.", out.Text())
	require.Len(t, out.Parts, 2)
	assert.Equal(t, "image/png", out.Parts[1].MIMEType)
	assert.Equal(t, []Source{{URI: "https://example.com", Title: "Example"}}, out.Sources)

	empty := fromResponse(&genai.GenerateContentResponse{})
	assert.Equal(t, 0, empty.Candidates)
	assert.Empty(t, empty.Text())
}
