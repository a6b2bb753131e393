package enums

import "strings"

type SwipeDirection string

const (
	SwipeDirectionLike      SwipeDirection = "like"
	SwipeDirectionDislike   SwipeDirection = "dislike"
	SwipeDirectionSuperLike SwipeDirection = "super_like"
)

// ParseSwipeDirection rejects anything outside the closed set so that
// unrecognized values never reach storage.
func ParseSwipeDirection(raw string) (SwipeDirection, bool) {
	switch SwipeDirection(strings.ToLower(strings.TrimSpace(raw))) {
	case SwipeDirectionLike:
		return SwipeDirectionLike, true
	case SwipeDirectionDislike:
		return SwipeDirectionDislike, true
	case SwipeDirectionSuperLike:
		return SwipeDirectionSuperLike, true
	default:
		return "", false
	}
}

// IsLike reports whether the direction counts as a like for mutual-match
// evaluation.
func (d SwipeDirection) IsLike() bool {
	return d == SwipeDirectionLike || d == SwipeDirectionSuperLike
}
