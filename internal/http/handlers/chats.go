package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"finbot/internal/domain"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatDTO struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Message   string    `json:"message"`
	IsSupport bool      `json:"is_support"`
	Timestamp time.Time `json:"timestamp"`
}

func toChatDTO(c *domain.Chat) chatDTO {
	return chatDTO{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Message:   c.Message,
		IsSupport: c.IsSupport,
		Timestamp: c.Timestamp,
	}
}

// CreateChat runs one conversational turn. The response is the stored inbound
// message; the assistant reply lands in the history as a side effect.
func (a *App) CreateChat(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Message == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "message is required")
		return
	}
	inbound, err := a.Chat.HandleUserMessage(r.Context(), user, req.Message)
	if err != nil {
		a.Logger.Error().Err(err).Msg("chat turn failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to process message")
		return
	}
	a.json(w, http.StatusOK, toChatDTO(inbound))
}

// ListChats returns the authenticated user's conversation history.
func (a *App) ListChats(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	chats, err := a.Chats.ListByOwner(r.Context(), user.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list chats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list chats")
		return
	}
	out := make([]chatDTO, 0, len(chats))
	for i := range chats {
		out = append(out, toChatDTO(&chats[i]))
	}
	a.json(w, http.StatusOK, out)
}
