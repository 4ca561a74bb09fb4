// Package backendtest provides a scriptable in-memory Backend for tests.
package backendtest

import (
	"context"
	"errors"
	"iter"
	"sync"

	"AIToolbox/internal/backend"
)

// Fake records every request and answers with the configured functions.
// Unset functions answer with an error.
type Fake struct {
	mu sync.Mutex

	GenerateFunc func(ctx context.Context, req backend.Request) (*backend.Response, error)
	StreamFunc   func(ctx context.Context, req backend.Request) ([]string, error)
	ImagesFunc   func(ctx context.Context, req backend.ImageRequest) ([]backend.Image, error)
	ChatFunc     func(ctx context.Context, text string) (*backend.Response, error)

	// StartChatFunc, when set, runs before a chat is opened; an error fails StartChat
	StartChatFunc func(ctx context.Context, req backend.ChatRequest) error

	Requests      []backend.Request
	ImageRequests []backend.ImageRequest
	ChatRequests  []backend.ChatRequest
	ChatMessages  []string
}

var _ backend.Backend = (*Fake)(nil)

var errNotScripted = errors.New("fake backend: call not scripted")

// Text builds a single-candidate text response
func Text(s string) *backend.Response {
	return &backend.Response{Candidates: 1, Parts: []backend.Part{{Text: s}}}
}

func (f *Fake) Name() string {
	return "fake"
}

func (f *Fake) Close() error {
	return nil
}

func (f *Fake) Generate(ctx context.Context, req backend.Request) (*backend.Response, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	fn := f.GenerateFunc
	f.mu.Unlock()

	if fn == nil {
		return nil, errNotScripted
	}
	return fn(ctx, req)
}

func (f *Fake) Stream(ctx context.Context, req backend.Request) iter.Seq2[*backend.Response, error] {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	fn := f.StreamFunc
	f.mu.Unlock()

	return func(yield func(*backend.Response, error) bool) {
		if fn == nil {
			yield(nil, errNotScripted)
			return
		}
		chunks, err := fn(ctx, req)
		for _, c := range chunks {
			if !yield(Text(c), nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

func (f *Fake) GenerateImages(ctx context.Context, req backend.ImageRequest) ([]backend.Image, error) {
	f.mu.Lock()
	f.ImageRequests = append(f.ImageRequests, req)
	fn := f.ImagesFunc
	f.mu.Unlock()

	if fn == nil {
		return nil, errNotScripted
	}
	return fn(ctx, req)
}

func (f *Fake) StartChat(ctx context.Context, req backend.ChatRequest) (backend.Chat, error) {
	f.mu.Lock()
	f.ChatRequests = append(f.ChatRequests, req)
	fn := f.StartChatFunc
	f.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, req); err != nil {
			return nil, err
		}
	}
	return &fakeChat{fake: f}, nil
}

// Snapshot returns copies of the recorded requests
func (f *Fake) Snapshot() ([]backend.Request, []backend.ImageRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.Request(nil), f.Requests...), append([]backend.ImageRequest(nil), f.ImageRequests...)
}

type fakeChat struct {
	fake *Fake
}

func (c *fakeChat) Send(ctx context.Context, text string) (*backend.Response, error) {
	c.fake.mu.Lock()
	c.fake.ChatMessages = append(c.fake.ChatMessages, text)
	fn := c.fake.ChatFunc
	c.fake.mu.Unlock()

	if fn == nil {
		return nil, errNotScripted
	}
	return fn(ctx, text)
}
