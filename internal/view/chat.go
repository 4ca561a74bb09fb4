package view

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"AIToolbox/internal/service"
	"AIToolbox/internal/session"
)

// ErrNoHistory is returned by Resume when transcripts are not persisted
var ErrNoHistory = errors.New("chat history is not available")

// Transcripts persists chat sessions so they can be resumed
type Transcripts interface {
	Start(sess *session.Session) error
	Append(sessionID string, msg session.Message) error
	Load(sessionID string) (*session.Session, error)
}

// ChatSnapshot is the visible state of the chat view
type ChatSnapshot struct {
	Status
	SessionID string            `json:"sessionId,omitempty"`
	Messages  []session.Message `json:"messages"`
}

// ChatView keeps an append-only transcript for one conversation
type ChatView struct {
	machine
	facade      Facade
	tr          Translator
	transcripts Transcripts
	logger      *slog.Logger

	sess     *service.ChatSession
	messages []session.Message
}

// NewChatView creates a chat view. transcripts may be nil to keep
// conversations in memory only.
func NewChatView(facade Facade, tr Translator, transcripts Transcripts, logger *slog.Logger) *ChatView {
	return &ChatView{
		facade:      facade,
		tr:          tr,
		transcripts: transcripts,
		logger:      logger,
		messages:    []session.Message{},
	}
}

// Submit sends text. The user message is appended before the call and the
// model reply after it, so the transcript keeps send order.
func (v *ChatView) Submit(ctx context.Context, text string) error {
	if blank(text) {
		return ErrBlankInput
	}

	userMsg := session.Message{Role: session.RoleUser, Text: text, Timestamp: time.Now()}
	var cs *service.ChatSession
	if err := v.begin(func() {
		v.messages = append(v.messages, userMsg)
		cs = v.sess
	}); err != nil {
		return err
	}

	if cs == nil {
		var err error
		cs, err = v.open(ctx, nil)
		if err != nil {
			v.fail(v.tr.T("chat.error", nil))
			return nil
		}
		v.mu.Lock()
		v.sess = cs
		v.mu.Unlock()
	}
	v.record(cs.ID, userMsg)

	reply, err := v.facade.SendMessage(ctx, cs, text)
	if err != nil {
		v.fail(v.tr.T("chat.error", nil))
		return nil
	}

	v.succeed(func() {
		v.messages = append(v.messages, reply)
	})
	v.record(cs.ID, reply)
	return nil
}

// Clear discards the conversation and opens a fresh session. The view stays
// busy until the new session is installed, so Submit cannot interleave.
func (v *ChatView) Clear(ctx context.Context) error {
	if err := v.begin(func() {
		v.sess = nil
		v.messages = []session.Message{}
	}); err != nil {
		return err
	}

	cs, err := v.open(ctx, nil)
	if err != nil {
		v.fail(v.tr.T("chat.error", nil))
		return nil
	}
	v.settle(func() {
		v.sess = cs
	})
	return nil
}

// Resume replaces the conversation with a stored transcript and seeds a new
// backend session with it. New messages are stored under the new session.
func (v *ChatView) Resume(ctx context.Context, sessionID string) error {
	if v.transcripts == nil {
		return ErrNoHistory
	}
	stored, err := v.transcripts.Load(sessionID)
	if err != nil {
		return err
	}

	if err := v.begin(nil); err != nil {
		return err
	}
	cs, err := v.open(ctx, stored.Messages)
	if err != nil {
		v.fail(v.tr.T("chat.error", nil))
		return nil
	}
	for _, msg := range stored.Messages {
		v.record(cs.ID, msg)
	}
	v.succeed(func() {
		v.sess = cs
		v.messages = append([]session.Message{}, stored.Messages...)
	})
	return nil
}

// Snapshot returns a copy of the visible state
func (v *ChatView) Snapshot() ChatSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := ChatSnapshot{
		Status:   v.status(),
		Messages: append([]session.Message{}, v.messages...),
	}
	if v.sess != nil {
		snap.SessionID = v.sess.ID
	}
	return snap
}

func (v *ChatView) open(ctx context.Context, history []session.Message) (*service.ChatSession, error) {
	cs, err := v.facade.CreateSession(ctx, history)
	if err != nil {
		return nil, err
	}
	if v.transcripts != nil {
		err := v.transcripts.Start(&session.Session{ID: cs.ID, StartTime: cs.StartTime, Backend: cs.Backend})
		if err != nil {
			v.logger.Warn("failed to store chat session", "session_id", cs.ID, "error", err)
		}
	}
	return cs, nil
}

func (v *ChatView) record(sessionID string, msg session.Message) {
	if v.transcripts == nil {
		return
	}
	if err := v.transcripts.Append(sessionID, msg); err != nil {
		v.logger.Warn("failed to store chat message", "session_id", sessionID, "error", err)
	}
}
