package handlers

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/converse-app/converse/internal/domain"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// renderMarkdown converts message content to HTML. Assistant replies are
// written as markdown; clients that cannot render it themselves use the
// content_html field instead.
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return ""
	}
	return buf.String()
}

type messageResponse struct {
	ID             uint   `json:"id"`
	ConversationID uint   `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	ContentHTML    string `json:"content_html"`
	CreatedAt      string `json:"created_at"`
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		ContentHTML:    renderMarkdown(m.Content),
		CreatedAt:      m.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

func toMessageResponses(messages []domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, toMessageResponse(&messages[i]))
	}
	return out
}
