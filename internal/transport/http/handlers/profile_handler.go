package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	profilesvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/profiles"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/dto"
	httperrors "github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	profile, err := h.service.Upsert(r.Context(), identity.UserID, profilesvc.UpsertInput{
		Name:        req.Name,
		Age:         req.Age,
		Bio:         req.Bio,
		Location:    req.Location,
		PhotoURL:    req.PhotoURL,
		Photos:      req.Photos,
		Type:        req.Type,
		HourlyRate:  req.HourlyRate,
		Specialties: req.Specialties,
		Languages:   req.Languages,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrUnsupportedType):
			writeBadRequest(w, "UNSUPPORTED_PROFILE_TYPE", "profile type must be tourist, guide or both")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile payload")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrProfileNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(profile))
}

func toProfileResponse(profile profilesvc.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:      profile.UserID,
		Name:        profile.Name,
		Age:         profile.Age,
		Bio:         profile.Bio,
		Location:    profile.Location,
		PhotoURL:    profile.PhotoURL,
		Photos:      profile.Photos,
		Type:        string(profile.Type),
		HourlyRate:  profile.HourlyRate,
		Specialties: profile.Specialties,
		Languages:   profile.Languages,
		UpdatedAt:   profile.UpdatedAt,
	}
}
