// Package view holds one state machine per tool. A view owns its input and
// result, moves idle -> submitting -> success|error, and turns facade errors
// into localized messages so nothing escapes past a single tool.
package view

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"

	"AIToolbox/internal/service"
	"AIToolbox/internal/session"
)

// State is where a view is in its request cycle
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

var (
	// ErrBusy is returned when a view already has a request in flight
	ErrBusy = errors.New("a request is already in progress")

	// ErrBlankInput is returned when required input is missing
	ErrBlankInput = errors.New("required input is blank")

	// ErrNotConfirmed is returned when a destructive action lacks confirmation
	ErrNotConfirmed = errors.New("action requires confirmation")
)

// Translator resolves localized messages
type Translator interface {
	T(key string, subs map[string]any) string
}

// Facade is the set of AI operations the views call
type Facade interface {
	CreateSession(ctx context.Context, history []session.Message) (*service.ChatSession, error)
	SendMessage(ctx context.Context, cs *service.ChatSession, text string) (session.Message, error)
	GenerateImages(ctx context.Context, prompt, aspectRatio string, count int) ([]string, error)
	EditImage(ctx context.Context, prompt string, image []byte, mimeType string) (service.EditResult, error)
	GroundedSearch(ctx context.Context, prompt string) (service.SearchResult, error)
	GenerateRecipes(ctx context.Context, prompt string) ([]service.Recipe, error)
	GenerateCode(ctx context.Context, prompt string) (string, error)
	StreamStory(ctx context.Context, prompt string) iter.Seq2[string, error]
	SummarizeText(ctx context.Context, text string, format service.SummaryFormat) (string, error)
}

var _ Facade = (*service.Service)(nil)

// Status is the request state shared by every view snapshot
type Status struct {
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
}

// machine tracks the request cycle. Its lock is never held across a facade call.
type machine struct {
	mu     sync.Mutex
	state  State
	errMsg string
}

// begin moves to submitting and runs reset under the lock
func (m *machine) begin(reset func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSubmitting {
		return ErrBusy
	}
	m.state = StateSubmitting
	m.errMsg = ""
	if reset != nil {
		reset()
	}
	return nil
}

// succeed applies the result under the lock
func (m *machine) succeed(apply func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if apply != nil {
		apply()
	}
	m.state = StateSuccess
}

// settle returns to idle, applying apply under the lock
func (m *machine) settle(apply func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if apply != nil {
		apply()
	}
	m.state = StateIdle
}

func (m *machine) fail(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateError
	m.errMsg = msg
}

// Status reports the current request state
func (m *machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status()
}

// status must be called with m.mu held
func (m *machine) status() Status {
	state := m.state
	if state == "" {
		state = StateIdle
	}
	return Status{State: state, Error: m.errMsg}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
