package backend

import (
	"context"
	"errors"
	"iter"
	"strings"

	"google.golang.org/genai"
)

// ErrUnsupported is returned when a backend cannot serve a request kind
var ErrUnsupported = errors.New("operation not supported by backend")

// Part is one piece of request or response content: text or inline bytes
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// Source is a web page a grounded answer was built from
type Source struct {
	URI   string
	Title string
}

// Request describes a single content generation call
type Request struct {
	Model             string
	SystemInstruction string
	Parts             []Part
	Temperature       *float32

	// ResponseSchema constrains output to JSON matching the schema
	ResponseSchema *genai.Schema

	// GoogleSearch grounds the answer with web search results
	GoogleSearch bool

	// Modalities lists requested output kinds, e.g. "IMAGE", "TEXT"
	Modalities []string
}

// Response is the normalized first candidate of a generation call
type Response struct {
	Parts   []Part
	Sources []Source

	// Candidates is how many candidates the backend returned
	Candidates int
}

// Text concatenates every text part
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// ImageRequest describes an image generation call
type ImageRequest struct {
	Model       string
	Prompt      string
	AspectRatio string
	Count       int
	MIMEType    string
}

// Image is generated image data
type Image struct {
	Data     []byte
	MIMEType string
}

// ChatRequest opens a stateful conversation
type ChatRequest struct {
	Model             string
	SystemInstruction string
	History           []Turn
}

// Turn is a prior exchange used to seed a chat
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// Chat is a stateful conversation held by the backend
type Chat interface {
	Send(ctx context.Context, text string) (*Response, error)
}

// Backend is the remote generative-AI service
type Backend interface {
	// Name returns the backend identifier
	Name() string

	// Generate performs one content generation call
	Generate(ctx context.Context, req Request) (*Response, error)

	// Stream performs one streaming generation call, yielding chunks in order
	Stream(ctx context.Context, req Request) iter.Seq2[*Response, error]

	// GenerateImages creates images from a prompt
	GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error)

	// StartChat opens a conversation
	StartChat(ctx context.Context, req ChatRequest) (Chat, error)

	// Close releases backend resources
	Close() error
}
