package session

import "time"

// Role is the author of a chat message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message represents a single chat message
type Message struct {
	Role      Role      `json:"role" db:"role"`
	Text      string    `json:"text" db:"content"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// Session represents a chat session
type Session struct {
	ID        string    `json:"id" db:"id"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	Backend   string    `json:"backend" db:"backend"`
	Messages  []Message `json:"messages"`
}
