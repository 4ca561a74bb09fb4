package session

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// History persists chat transcripts in the sessions and messages tables
type History struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewHistory creates a transcript store over db
func NewHistory(db *sqlx.DB, logger *slog.Logger) *History {
	return &History{db: db, logger: logger}
}

// Start registers a new session row
func (h *History) Start(sess *Session) error {
	_, err := h.db.Exec(
		"INSERT OR REPLACE INTO sessions (id, start_time, backend) VALUES (?, ?, ?)",
		sess.ID, sess.StartTime, sess.Backend,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	h.logger.Info("session saved", "session_id", sess.ID, "backend", sess.Backend)
	return nil
}

// Append stores one message at the end of a session's transcript
func (h *History) Append(sessionID string, msg Message) error {
	_, err := h.db.Exec(
		"INSERT INTO messages (session_id, role, content, timestamp) VALUES (?, ?, ?, ?)",
		sessionID, msg.Role, msg.Text, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// Load reads a session and its messages in send order
func (h *History) Load(sessionID string) (*Session, error) {
	var sess Session
	err := h.db.Get(&sess, "SELECT id, start_time, backend FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	messages := []Message{}
	err = h.db.Select(&messages,
		"SELECT role, content, timestamp FROM messages WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	sess.Messages = messages

	return &sess, nil
}
