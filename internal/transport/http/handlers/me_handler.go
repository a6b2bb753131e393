package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	userssvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/users"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/dto"
	httperrors "github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/errors"
)

type MeHandler struct {
	userService *userssvc.Service
	authService *authsvc.Service
}

func NewMeHandler(userService *userssvc.Service, authService *authsvc.Service) *MeHandler {
	return &MeHandler{
		userService: userService,
		authService: authService,
	}
}

func (h *MeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.userService == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	user, err := h.userService.GetByID(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load account")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MeResponse{
		ID:            user.ID,
		Email:         user.Email,
		PointsBalance: user.PointsBalance,
		IsActive:      user.IsActive,
		CreatedAt:     user.CreatedAt,
	})
}

// Deactivate soft-disables the account and revokes every session.
func (h *MeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.userService == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	if err := h.userService.Deactivate(r.Context(), identity.UserID); err != nil {
		switch {
		case errors.Is(err, userssvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to deactivate account")
		}
		return
	}

	if h.authService != nil {
		_ = h.authService.LogoutAll(r.Context(), identity.UserID)
	}

	httperrors.Write(w, http.StatusOK, dto.DeactivateAccountResponse{OK: true})
}
