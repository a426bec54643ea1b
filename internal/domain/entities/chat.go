package entities

import "time"

// ChatRole identifies who authored a chat turn
type ChatRole string

const (
	ChatRoleUser   ChatRole = "user"
	ChatRoleDoctor ChatRole = "doctor"
)

// ChatMessage is one turn of an assistant conversation
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSession is the persisted conversation history
type ChatSession struct {
	ID       string        `json:"id"`
	Messages []ChatMessage `json:"messages"`
}
