package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/converse-app/converse/internal/domain"
	"github.com/converse-app/converse/internal/middleware"
	"github.com/converse-app/converse/internal/services"
)

type ConversationHandler struct {
	ConversationService *services.ConversationService
}

func NewConversationHandler(cs *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{ConversationService: cs}
}

type conversationResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toConversationResponse(c *domain.Conversation) conversationResponse {
	const layout = "2006-01-02T15:04:05.000Z"
	return conversationResponse{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt.UTC().Format(layout),
		UpdatedAt: c.UpdatedAt.UTC().Format(layout),
	}
}

func conversationID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}

// Create starts a new conversation, optionally with a caller-chosen title.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Bad Request", http.StatusBadRequest)
			return
		}
	}

	conv, err := h.ConversationService.CreateConversation(r.Context(), account.ID, req.Title)
	if err != nil {
		writeError(w, "Could not create conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toConversationResponse(conv))
}

// List returns the user's conversations, most recently updated first.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversations, err := h.ConversationService.ListConversations(r.Context(), account.ID)
	if err != nil {
		writeError(w, "Could not retrieve conversations", http.StatusInternalServerError)
		return
	}
	out := make([]conversationResponse, 0, len(conversations))
	for i := range conversations {
		out = append(out, toConversationResponse(&conversations[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one conversation with its full message history.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := conversationID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	conv, messages, err := h.ConversationService.GetConversation(r.Context(), account.ID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversation": toConversationResponse(conv),
		"messages":     toMessageResponses(messages),
	})
}

// SendMessage appends a user message and returns the generated reply.
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := conversationID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeError(w, "Message content is required", http.StatusBadRequest)
		return
	}

	reply, err := h.ConversationService.SendMessage(r.Context(), account.ID, id, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, "Conversation not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrGeneratorUnavailable):
			writeError(w, "Reply generation failed", http.StatusBadGateway)
		default:
			writeError(w, "Could not process message", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, toMessageResponse(reply))
}

// UpdateTitle renames a conversation.
func (h *ConversationHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := conversationID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, "Title is required", http.StatusBadRequest)
		return
	}

	conv, err := h.ConversationService.UpdateTitle(r.Context(), account.ID, id, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not update conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toConversationResponse(conv))
}

// Delete removes a conversation and its messages.
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := conversationID(r)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	if err := h.ConversationService.DeleteConversation(r.Context(), account.ID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not delete conversation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
