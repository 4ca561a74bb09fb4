package backend

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math"

	"google.golang.org/genai"
)

const BackendGemini = "gemini"

// Gemini implements Backend over the Gemini API SDK
type Gemini struct {
	client *genai.Client
	logger *slog.Logger
}

var _ Backend = (*Gemini)(nil)

// NewGemini creates a Gemini backend. An empty API key is refused.
func NewGemini(ctx context.Context, apiKey string, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not set")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	logger.Info("created Gemini backend")
	return &Gemini{client: client, logger: logger}, nil
}

func (g *Gemini) Name() string {
	return BackendGemini
}

func (g *Gemini) Close() error {
	return nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, toContents(req.Parts), toConfig(req))
	if err != nil {
		return nil, err
	}
	return fromResponse(resp), nil
}

func (g *Gemini) Stream(ctx context.Context, req Request) iter.Seq2[*Response, error] {
	return func(yield func(*Response, error) bool) {
		for resp, err := range g.client.Models.GenerateContentStream(ctx, req.Model, toContents(req.Parts), toConfig(req)) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(fromResponse(resp), nil) {
				return
			}
		}
	}
}

func (g *Gemini) GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error) {
	if req.Count < math.MinInt32 || req.Count > math.MaxInt32 {
		return nil, fmt.Errorf("image count %d out of range", req.Count)
	}
	resp, err := g.client.Models.GenerateImages(ctx, req.Model, req.Prompt, &genai.GenerateImagesConfig{
		NumberOfImages: int32(req.Count),
		AspectRatio:    req.AspectRatio,
		OutputMIMEType: req.MIMEType,
	})
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(resp.GeneratedImages))
	for _, gen := range resp.GeneratedImages {
		if gen == nil || gen.Image == nil || len(gen.Image.ImageBytes) == 0 {
			continue
		}
		mimeType := gen.Image.MIMEType
		if mimeType == "" {
			mimeType = req.MIMEType
		}
		images = append(images, Image{Data: gen.Image.ImageBytes, MIMEType: mimeType})
	}
	return images, nil
}

func (g *Gemini) StartChat(ctx context.Context, req ChatRequest) (Chat, error) {
	history := make([]*genai.Content, 0, len(req.History))
	for _, turn := range req.History {
		role := genai.Role(genai.RoleUser)
		if turn.Role == string(genai.RoleModel) {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(turn.Text, role))
	}

	chat, err := g.client.Chats.Create(ctx, req.Model, toConfig(Request{SystemInstruction: req.SystemInstruction}), history)
	if err != nil {
		return nil, err
	}
	return &geminiChat{chat: chat}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (c *geminiChat) Send(ctx context.Context, text string) (*Response, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return nil, err
	}
	return fromResponse(resp), nil
}

func toContents(parts []Part) []*genai.Content {
	gparts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			gparts = append(gparts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		gparts = append(gparts, genai.NewPartFromText(p.Text))
	}
	return []*genai.Content{genai.NewContentFromParts(gparts, genai.RoleUser)}
}

func toConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:        req.Temperature,
		ResponseModalities: req.Modalities,
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.ResponseSchema
	}
	if req.GoogleSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return cfg
}

func fromResponse(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil {
		return out
	}
	out.Candidates = len(resp.Candidates)
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}

	cand := resp.Candidates[0]
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil {
				continue
			}
			switch {
			case p.InlineData != nil:
				out.Parts = append(out.Parts, Part{Data: p.InlineData.Data, MIMEType: p.InlineData.MIMEType})
			case p.Text != "" && !p.Thought:
				out.Parts = append(out.Parts, Part{Text: p.Text})
			}
		}
	}
	if cand.GroundingMetadata != nil {
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			out.Sources = append(out.Sources, Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}
	return out
}
