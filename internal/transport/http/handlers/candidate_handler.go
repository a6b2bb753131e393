package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	profilesvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/profiles"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/dto"
	httperrors "github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/errors"
)

type CandidateHandler struct {
	service *profilesvc.Service
}

func NewCandidateHandler(service *profilesvc.Service) *CandidateHandler {
	return &CandidateHandler{service: service}
}

// Handle returns guide profiles the caller has not swiped on yet.
func (h *CandidateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 10)
	items, err := h.service.Candidates(r.Context(), identity.UserID, limit)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid candidates request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load candidates")
		}
		return
	}

	responseItems := make([]dto.ProfileResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, toProfileResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.CandidatesResponse{Items: responseItems})
}
