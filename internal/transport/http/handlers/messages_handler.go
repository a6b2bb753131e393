package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	convsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/conversations"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/dto"
	httperrors "github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/errors"
)

type MessagesHandler struct {
	service *convsvc.Service
}

func NewMessagesHandler(service *convsvc.Service) *MessagesHandler {
	return &MessagesHandler{service: service}
}

func (h *MessagesHandler) Post(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONVERSATION_SERVICE_UNAVAILABLE", "conversation service is unavailable")
		return
	}

	matchID, ok := urlParamInt64(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	var req dto.PostMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	message, err := h.service.PostMessage(r.Context(), identity.UserID, matchID, req.Content)
	if err != nil {
		handleConversationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toMessageResponse(message))
}

func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONVERSATION_SERVICE_UNAVAILABLE", "conversation service is unavailable")
		return
	}

	matchID, ok := urlParamInt64(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	messages, err := h.service.ListMessages(r.Context(), identity.UserID, matchID)
	if err != nil {
		handleConversationError(w, err)
		return
	}

	responseItems := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responseItems = append(responseItems, toMessageResponse(message))
	}

	httperrors.Write(w, http.StatusOK, dto.MessagesResponse{Items: responseItems})
}

func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONVERSATION_SERVICE_UNAVAILABLE", "conversation service is unavailable")
		return
	}

	matchID, ok := urlParamInt64(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	updated, err := h.service.MarkRead(r.Context(), identity.UserID, matchID)
	if err != nil {
		handleConversationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MarkReadResponse{OK: true, Updated: updated})
}

func handleConversationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, convsvc.ErrMatchNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, convsvc.ErrNotParticipant):
		writeForbidden(w, "NOT_PARTICIPANT", "user is not part of this match")
	case errors.Is(err, convsvc.ErrMatchInactive):
		writeConflict(w, "MATCH_INACTIVE", "match is no longer active")
	case errors.Is(err, convsvc.ErrEmptyMessage):
		writeBadRequest(w, "EMPTY_MESSAGE", "message content is empty")
	case errors.Is(err, convsvc.ErrMessageTooLong):
		writeBadRequest(w, "MESSAGE_TOO_LONG", "message content is too long")
	case errors.Is(err, convsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid message request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process message request")
	}
}

func toMessageResponse(message convsvc.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        message.ID,
		MatchID:   message.MatchID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		IsRead:    message.IsRead,
		CreatedAt: message.CreatedAt,
	}
}
