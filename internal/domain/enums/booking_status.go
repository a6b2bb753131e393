package enums

import "strings"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(raw string) (BookingStatus, bool) {
	switch BookingStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case BookingStatusPending:
		return BookingStatusPending, true
	case BookingStatusConfirmed:
		return BookingStatusConfirmed, true
	case BookingStatusCompleted:
		return BookingStatusCompleted, true
	case BookingStatusCancelled:
		return BookingStatusCancelled, true
	default:
		return "", false
	}
}

// CanTransitionTo encodes the booking lifecycle: pending is confirmed or
// cancelled, confirmed is completed or cancelled, terminal states never
// move again.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}
