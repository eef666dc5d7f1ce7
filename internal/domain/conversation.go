package domain

import "time"

// DefaultTitle marks a conversation that has not yet received its first
// message. The first send replaces it with a title derived from the
// message content; any other title is never overwritten by derivation.
const DefaultTitle = "New Chat"

// titleMaxLen is the number of leading characters of the first message
// used when deriving a conversation title.
const titleMaxLen = 50

// Conversation is a single thread of messages owned by one user.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeriveTitle builds a conversation title from the first message content:
// the first 50 characters, with an ellipsis when the content is longer.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxLen {
		return content
	}
	return string(runes[:titleMaxLen]) + "..."
}
