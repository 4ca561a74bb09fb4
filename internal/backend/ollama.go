package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const BackendOllama = "ollama"

// OllamaRequest represents the request body for Ollama API
type OllamaRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   any             `json:"format,omitempty"`
	Options  map[string]any  `json:"options,omitempty"`
}

// OllamaMessage is one chat message; Images holds base64 encoded input images
type OllamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

// OllamaResponse represents the response from Ollama API.
// Streaming responses deliver one of these per line.
type OllamaResponse struct {
	Model     string        `json:"model"`
	CreatedAt string        `json:"created_at"`
	Message   OllamaMessage `json:"message"`
	Done      bool          `json:"done"`
	Error     string        `json:"error,omitempty"`
}

// Ollama implements Backend against a local Ollama server.
// Text generation only: image generation and search grounding are unsupported.
type Ollama struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Backend = (*Ollama)(nil)

// NewOllama creates an Ollama backend. model overrides whatever model the
// caller asks for, since Gemini model names mean nothing to Ollama.
func NewOllama(baseURL, model string, logger *slog.Logger) (*Ollama, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model not set")
	}

	logger.Info("created Ollama backend", "url", baseURL, "model", model)
	return &Ollama{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{},
		logger:     logger,
	}, nil
}

func (o *Ollama) Name() string {
	return BackendOllama
}

func (o *Ollama) Close() error {
	return nil
}

func (o *Ollama) Generate(ctx context.Context, req Request) (*Response, error) {
	body, err := o.buildRequest(req, false)
	if err != nil {
		return nil, err
	}
	return o.chat(ctx, body)
}

func (o *Ollama) Stream(ctx context.Context, req Request) iter.Seq2[*Response, error] {
	return func(yield func(*Response, error) bool) {
		body, err := o.buildRequest(req, true)
		if err != nil {
			yield(nil, err)
			return
		}

		resp, err := o.post(ctx, body)
		if err != nil {
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var chunk OllamaResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				yield(nil, fmt.Errorf("failed to unmarshal stream chunk: %w", err))
				return
			}
			if chunk.Error != "" {
				yield(nil, fmt.Errorf("API error: %s", chunk.Error))
				return
			}
			if chunk.Message.Content != "" {
				out := &Response{Candidates: 1, Parts: []Part{{Text: chunk.Message.Content}}}
				if !yield(out, nil) {
					return
				}
			}
			if chunk.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("failed to read stream: %w", err))
		}
	}
}

func (o *Ollama) GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error) {
	return nil, fmt.Errorf("image generation: %w", ErrUnsupported)
}

func (o *Ollama) StartChat(ctx context.Context, req ChatRequest) (Chat, error) {
	c := &ollamaChat{backend: o}
	if req.SystemInstruction != "" {
		c.messages = append(c.messages, OllamaMessage{Role: "system", Content: req.SystemInstruction})
	}
	for _, turn := range req.History {
		c.messages = append(c.messages, OllamaMessage{Role: ollamaRole(turn.Role), Content: turn.Text})
	}
	return c, nil
}

type ollamaChat struct {
	backend  *Ollama
	mu       sync.Mutex
	messages []OllamaMessage
}

func (c *ollamaChat) Send(ctx context.Context, text string) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := append(append([]OllamaMessage{}, c.messages...), OllamaMessage{Role: "user", Content: text})
	resp, err := c.backend.chat(ctx, OllamaRequest{
		Model:    c.backend.model,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	c.messages = append(messages, OllamaMessage{Role: "assistant", Content: resp.Text()})
	return resp, nil
}

func ollamaRole(role string) string {
	if role == string(genai.RoleModel) {
		return "assistant"
	}
	return role
}

func (o *Ollama) buildRequest(req Request, stream bool) (OllamaRequest, error) {
	if req.GoogleSearch {
		return OllamaRequest{}, fmt.Errorf("search grounding: %w", ErrUnsupported)
	}

	var messages []OllamaMessage
	if req.SystemInstruction != "" {
		messages = append(messages, OllamaMessage{Role: "system", Content: req.SystemInstruction})
	}

	user := OllamaMessage{Role: "user"}
	var texts []string
	for _, p := range req.Parts {
		if len(p.Data) > 0 {
			user.Images = append(user.Images, base64.StdEncoding.EncodeToString(p.Data))
			continue
		}
		texts = append(texts, p.Text)
	}
	user.Content = strings.Join(texts, "\n")
	messages = append(messages, user)

	body := OllamaRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   stream,
	}
	if req.ResponseSchema != nil {
		body.Format = SchemaToJSON(req.ResponseSchema)
	}
	if req.Temperature != nil {
		body.Options = map[string]any{"temperature": *req.Temperature}
	}
	return body, nil
}

func (o *Ollama) post(ctx context.Context, body OllamaRequest) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request (is Ollama running?): %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}
	return resp, nil
}

func (o *Ollama) chat(ctx context.Context, body OllamaRequest) (*Response, error) {
	body.Stream = false
	resp, err := o.post(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp OllamaResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if apiResp.Error != "" {
		return nil, fmt.Errorf("API error: %s", apiResp.Error)
	}

	out := &Response{Candidates: 1}
	if apiResp.Message.Content != "" {
		out.Parts = []Part{{Text: apiResp.Message.Content}}
	}
	return out, nil
}

// SchemaToJSON converts a Gemini schema into a plain JSON Schema document
func SchemaToJSON(s *genai.Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{}
	if s.Type != "" {
		out["type"] = strings.ToLower(string(s.Type))
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Items != nil {
		out["items"] = SchemaToJSON(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = SchemaToJSON(prop)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
