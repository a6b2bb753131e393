package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	matchessvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/matches"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/dto"
	httperrors "github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 100))
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}

	responseItems := make([]dto.MatchItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.MatchItemResponse{
			ID:          item.ID,
			OtherUserID: item.OtherUserID,
			Name:        item.Name,
			PhotoURL:    item.PhotoURL,
			Location:    item.Location,
			CreatedAt:   item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: responseItems})
}

func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	matchID, ok := urlParamInt64(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	details, err := h.service.Get(r.Context(), identity.UserID, matchID)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchDetailsResponse{
		ID:          details.ID,
		OtherUserID: details.OtherUserID,
		IsActive:    details.IsActive,
		CreatedAt:   details.CreatedAt,
	})
}

func (h *MatchesHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	matchID, ok := urlParamInt64(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	if err := h.service.Deactivate(r.Context(), identity.UserID, matchID); err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DeactivateMatchResponse{OK: true})
}

func handleMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchessvc.ErrMatchNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, matchessvc.ErrNotParticipant):
		writeForbidden(w, "NOT_PARTICIPANT", "user is not part of this match")
	case errors.Is(err, matchessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process match request")
	}
}
