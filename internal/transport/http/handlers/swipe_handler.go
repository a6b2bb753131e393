package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	swipesvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/swipes"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/dto"
	httperrors "github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.TargetID, req.Direction)
	if err != nil {
		if tf, ok := swipesvc.IsTooFast(err); ok {
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_FAST",
				Message:       "swipe rate limit exceeded",
				RetryAfterSec: tf.RetryAfter(),
			})
			return
		}
		switch {
		case errors.Is(err, swipesvc.ErrSelfSwipe):
			writeBadRequest(w, "SELF_SWIPE", "cannot swipe on yourself")
		case errors.Is(err, swipesvc.ErrUnsupportedDirection):
			writeBadRequest(w, "UNSUPPORTED_DIRECTION", "direction must be like, dislike or super_like")
		case errors.Is(err, swipesvc.ErrDuplicateSwipe):
			writeConflict(w, "SWIPE_EXISTS", "swipe already recorded for this user")
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to record swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		Direction:       string(result.Direction),
		MatchCreated:    result.MatchCreated,
		MatchID:         result.MatchID,
		MatchedWith:     result.MatchedWith,
		MatchedName:     result.MatchedName,
		MatchedPhotoURL: result.MatchedPhotoURL,
		MatchedLocation: result.MatchedLocation,
	})
}
