package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"AIToolbox/internal/backend"
	"AIToolbox/internal/session"
)

const chatSystemInstruction = "You are a helpful and friendly assistant."

// ChatSession is a conversation opened on the backend
type ChatSession struct {
	ID        string
	StartTime time.Time
	Backend   string
	chat      backend.Chat
}

// CreateSession opens a conversation with the fixed assistant instruction.
// history seeds the conversation when resuming a stored transcript.
func (s *Service) CreateSession(ctx context.Context, history []session.Message) (*ChatSession, error) {
	turns := make([]backend.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, backend.Turn{Role: string(m.Role), Text: m.Text})
	}

	chat, err := s.backend.StartChat(ctx, backend.ChatRequest{
		Model:             s.models.Text,
		SystemInstruction: chatSystemInstruction,
		History:           turns,
	})
	if err != nil {
		return nil, &RemoteError{Op: "create_session", Err: err}
	}

	cs := &ChatSession{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		Backend:   s.backend.Name(),
		chat:      chat,
	}
	s.logger.Info("created chat session", "session_id", cs.ID, "history", len(turns))
	return cs, nil
}

// SendMessage sends text on the session and returns the model's reply.
// The caller owns the visible transcript.
func (s *Service) SendMessage(ctx context.Context, cs *ChatSession, text string) (session.Message, error) {
	var reply session.Message
	err := s.observe(ctx, "chat", func(ctx context.Context) error {
		resp, err := cs.chat.Send(ctx, text)
		if err != nil {
			return &RemoteError{Op: "chat", Err: err}
		}
		if resp == nil || resp.Candidates == 0 {
			return &FormatError{Op: "chat", Detail: "empty candidate list"}
		}
		reply = session.Message{
			Role:      session.RoleModel,
			Text:      resp.Text(),
			Timestamp: time.Now(),
		}
		return nil
	})
	return reply, err
}
