package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/dxvzz/blend/internal/services/auth"
	chatssvc "github.com/dxvzz/blend/internal/services/chats"
	"github.com/dxvzz/blend/internal/transport/http/dto"
	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

type ChatsHandler struct {
	service *chatssvc.Service
}

func NewChatsHandler(service *chatssvc.Service) *ChatsHandler {
	return &ChatsHandler{service: service}
}

func (h *ChatsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	summaries, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load conversations")
		return
	}

	out := dto.ConversationsResponse{Conversations: make([]dto.ConversationSummaryResponse, 0, len(summaries))}
	for _, s := range summaries {
		summary := dto.ConversationSummaryResponse{
			ID:           s.ID,
			PeerID:       s.PeerID,
			PeerName:     s.PeerName,
			PeerPhotoURL: s.PeerPhotoURL,
			LastMessage:  s.LastMessage,
		}
		if !s.LastMessageTime.IsZero() && s.LastMessageTime.Unix() > 0 {
			summary.LastMessageTime = s.LastMessageTime.UTC().Format(time.RFC3339)
		}
		out.Conversations = append(out.Conversations, summary)
	}

	httperrors.Write(w, http.StatusOK, out)
}

func (h *ChatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	conversationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || conversationID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid conversation id")
		return
	}

	conversation, err := h.service.Get(r.Context(), identity.UserID, conversationID)
	if err != nil {
		handleChatError(w, err, "failed to load conversation")
		return
	}

	out := dto.ConversationResponse{
		ID:       conversation.ID,
		PeerID:   conversation.PeerID,
		Messages: make([]dto.MessageResponse, 0, len(conversation.Messages)),
	}
	for _, m := range conversation.Messages {
		out.Messages = append(out.Messages, mapMessage(m))
	}

	httperrors.Write(w, http.StatusOK, out)
}

// Resolve looks up the conversation with another user by that user's
// id. Only matched pairs have one.
func (h *ChatsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	otherID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil || otherID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	conversation, err := h.service.Resolve(r.Context(), identity.UserID, otherID)
	if err != nil {
		if errors.Is(err, chatssvc.ErrNotMatched) {
			writeForbidden(w, "NOT_MATCHED", "no match with this user")
			return
		}
		handleChatError(w, err, "failed to resolve conversation")
		return
	}

	out := dto.ConversationResponse{
		ID:       conversation.ID,
		PeerID:   conversation.PeerID,
		Messages: make([]dto.MessageResponse, 0, len(conversation.Messages)),
	}
	for _, m := range conversation.Messages {
		out.Messages = append(out.Messages, mapMessage(m))
	}

	httperrors.Write(w, http.StatusOK, out)
}

func (h *ChatsHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.ConversationID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "conversation_id is required")
		return
	}
	if req.SenderID != nil && *req.SenderID != identity.UserID {
		writeForbidden(w, "FORBIDDEN", "sender does not match authenticated user")
		return
	}

	message, err := h.service.Append(r.Context(), identity.UserID, req.ConversationID, req.Body)
	if err != nil {
		handleChatError(w, err, "failed to send message")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SendMessageResponse{
		OK:      true,
		Message: mapMessage(message),
	})
}

func handleChatError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, chatssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid chat request")
	case errors.Is(err, chatssvc.ErrNotFound):
		writeNotFound(w, "CONVERSATION_NOT_FOUND", "conversation does not exist")
	case errors.Is(err, chatssvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not a participant of this conversation")
	default:
		writeInternal(w, "INTERNAL_ERROR", fallback)
	}
}

func mapMessage(m chatssvc.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
