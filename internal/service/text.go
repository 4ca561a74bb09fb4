package service

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"

	"AIToolbox/internal/backend"
)

const (
	codeSystemInstruction      = "You are a coding assistant. Generate clean, efficient, and well-documented code based on the user's request. Respond only with the code block."
	storySystemInstruction     = "You are a creative and engaging storyteller. Write a story based on the user's prompt."
	summarizeSystemInstruction = "You are an expert summarizer. Provide concise and accurate summaries."
)

// Source is a web page backing a search answer
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// SearchResult is a grounded answer with its sources
type SearchResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Recipe is one generated recipe
type Recipe struct {
	Name         string   `json:"recipeName"`
	Description  string   `json:"description"`
	PrepTime     string   `json:"prepTime"`
	CookTime     string   `json:"cookTime"`
	Servings     string   `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// SummaryFormat selects the shape of a summary
type SummaryFormat string

const (
	FormatParagraph SummaryFormat = "paragraph"
	FormatBullets   SummaryFormat = "bullets"
)

// ParseSummaryFormat validates a raw format name
func ParseSummaryFormat(s string) (SummaryFormat, error) {
	switch f := SummaryFormat(s); f {
	case FormatParagraph, FormatBullets:
		return f, nil
	default:
		return "", fmt.Errorf("unknown summary format: %q", s)
	}
}

var recipeSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recipeName":  {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"prepTime":    {Type: genai.TypeString},
			"cookTime":    {Type: genai.TypeString},
			"servings":    {Type: genai.TypeString},
			"ingredients": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"instructions": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"recipeName", "description", "prepTime", "cookTime", "servings", "ingredients", "instructions"},
	},
}

// GroundedSearch answers prompt using web search. Sources without a URI are dropped.
func (s *Service) GroundedSearch(ctx context.Context, prompt string) (SearchResult, error) {
	resp, err := s.generate(ctx, "web_search", backend.Request{
		Model:        s.models.Text,
		Parts:        textParts(prompt),
		GoogleSearch: true,
	})
	if err != nil {
		return SearchResult{}, err
	}

	result := SearchResult{Answer: resp.Text(), Sources: []Source{}}
	for _, src := range resp.Sources {
		if src.URI == "" {
			continue
		}
		title := src.Title
		if title == "" {
			title = src.URI
		}
		result.Sources = append(result.Sources, Source{URI: src.URI, Title: title})
	}
	return result, nil
}

// GenerateRecipes asks for schema-constrained recipes. A response that does
// not parse is a FormatError, not a RemoteError.
func (s *Service) GenerateRecipes(ctx context.Context, prompt string) ([]Recipe, error) {
	fullPrompt := fmt.Sprintf("Generate recipes based on the following request: %q. Ensure the output is a JSON array of recipe objects matching the provided schema.", prompt)

	resp, err := s.generate(ctx, "recipe_generation", backend.Request{
		Model:          s.models.Text,
		Parts:          textParts(fullPrompt),
		ResponseSchema: recipeSchema,
	})
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(resp.Text())
	var recipes []Recipe
	if err := json.Unmarshal([]byte(raw), &recipes); err != nil {
		s.logger.Error("failed to parse recipes JSON", "error", err, "received", raw)
		return nil, &FormatError{Op: "recipe_generation", Detail: "recipes are not valid JSON", Raw: raw, Err: err}
	}
	if recipes == nil {
		recipes = []Recipe{}
	}
	return recipes, nil
}

// GenerateCode returns the model's raw answer; code fences are left in place
func (s *Service) GenerateCode(ctx context.Context, prompt string) (string, error) {
	resp, err := s.generate(ctx, "code_generation", backend.Request{
		Model:             s.models.Text,
		SystemInstruction: codeSystemInstruction,
		Parts:             textParts(prompt),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// StreamStory yields story fragments in the order the backend produces them.
// The sequence is single-pass and stops at the first error.
func (s *Service) StreamStory(ctx context.Context, prompt string) iter.Seq2[string, error] {
	req := backend.Request{
		Model:             s.models.Text,
		SystemInstruction: storySystemInstruction,
		Parts:             textParts(prompt),
	}
	return func(yield func(string, error) bool) {
		_ = s.observe(ctx, "story_generation", func(ctx context.Context) error {
			for resp, err := range s.backend.Stream(ctx, req) {
				if err != nil {
					rerr := &RemoteError{Op: "story_generation", Err: err}
					yield("", rerr)
					return rerr
				}
				text := resp.Text()
				if text == "" {
					continue
				}
				if !yield(text, nil) {
					return nil
				}
			}
			return nil
		})
	}
}

// GenerateStory buffers the whole stream and returns the finished story
func (s *Service) GenerateStory(ctx context.Context, prompt string) (string, error) {
	var sb strings.Builder
	for fragment, err := range s.StreamStory(ctx, prompt) {
		if err != nil {
			return "", err
		}
		sb.WriteString(fragment)
	}
	return sb.String(), nil
}

// SummarizeText condenses text as a paragraph or bullet list
func (s *Service) SummarizeText(ctx context.Context, text string, format SummaryFormat) (string, error) {
	temperature := float32(0.2)
	resp, err := s.generate(ctx, "summarization", backend.Request{
		Model:             s.models.Text,
		SystemInstruction: summarizeSystemInstruction,
		Parts:             textParts(fmt.Sprintf("Summarize the following text in %s format:\n\n%s", format, text)),
		Temperature:       &temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
