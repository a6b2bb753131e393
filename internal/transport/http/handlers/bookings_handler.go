package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/auth"
	bookingsvc "github.com/mr0kk/hackYeah2025-guidy/internal/services/bookings"
	"github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/dto"
	httperrors "github.com/mr0kk/hackYeah2025-guidy/internal/transport/http/errors"
)

type BookingsHandler struct {
	service *bookingsvc.Service
}

func NewBookingsHandler(service *bookingsvc.Service) *BookingsHandler {
	return &BookingsHandler{service: service}
}

func (h *BookingsHandler) Book(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BOOKING_SERVICE_UNAVAILABLE", "booking service is unavailable")
		return
	}

	var req dto.BookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	booking, err := h.service.Book(r.Context(), identity.UserID, req.GuideID, req.Hours, req.ScheduledAt)
	if err != nil {
		handleBookingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, userID int64, bookingID string) (bookingsvc.Booking, error) {
		return h.service.Confirm(r.Context(), userID, bookingID)
	})
}

func (h *BookingsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, userID int64, bookingID string) (bookingsvc.Booking, error) {
		return h.service.Complete(r.Context(), userID, bookingID)
	})
}

func (h *BookingsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, userID int64, bookingID string) (bookingsvc.Booking, error) {
		return h.service.Cancel(r.Context(), userID, bookingID)
	})
}

func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BOOKING_SERVICE_UNAVAILABLE", "booking service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 50))
	if err != nil {
		handleBookingError(w, err)
		return
	}

	responseItems := make([]dto.BookingResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, toBookingResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.BookingsResponse{Items: responseItems})
}

func (h *BookingsHandler) transition(w http.ResponseWriter, r *http.Request, apply func(*http.Request, int64, string) (bookingsvc.Booking, error)) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "BOOKING_SERVICE_UNAVAILABLE", "booking service is unavailable")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid booking id")
		return
	}

	booking, err := apply(r, identity.UserID, bookingID)
	if err != nil {
		handleBookingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toBookingResponse(booking))
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookingsvc.ErrBookingNotFound):
		writeNotFound(w, "BOOKING_NOT_FOUND", "booking not found")
	case errors.Is(err, bookingsvc.ErrNotParticipant):
		writeForbidden(w, "NOT_PARTICIPANT", "user is not part of this booking")
	case errors.Is(err, bookingsvc.ErrInvalidTransition):
		writeConflict(w, "INVALID_TRANSITION", "booking status transition is not allowed")
	case errors.Is(err, bookingsvc.ErrInsufficientFunds):
		httperrors.Write(w, http.StatusPaymentRequired, httperrors.APIError{
			Code:    "INSUFFICIENT_POINTS",
			Message: "not enough points for this booking",
		})
	case errors.Is(err, bookingsvc.ErrNotGuide):
		writeBadRequest(w, "NOT_A_GUIDE", "target user is not a guide")
	case errors.Is(err, bookingsvc.ErrSelfBooking):
		writeBadRequest(w, "SELF_BOOKING", "cannot book yourself")
	case errors.Is(err, bookingsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid booking request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process booking request")
	}
}

func toBookingResponse(booking bookingsvc.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:          booking.ID,
		TouristID:   booking.TouristID,
		GuideID:     booking.GuideID,
		PointsCost:  booking.PointsCost,
		Status:      string(booking.Status),
		ScheduledAt: booking.ScheduledAt,
		CreatedAt:   booking.CreatedAt,
	}
}
