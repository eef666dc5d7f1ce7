package domain

import "time"

// Role identifies the author of a message. There are exactly two
// variants; nothing in the system persists a third.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single utterance within a conversation. Messages are
// immutable once written and ordered by creation time.
type Message struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	Role           Role      `json:"role" gorm:"not null"`
	Content        string    `json:"content" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}
