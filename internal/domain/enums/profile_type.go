package enums

import "strings"

type ProfileType string

const (
	ProfileTypeTourist ProfileType = "tourist"
	ProfileTypeGuide   ProfileType = "guide"
	ProfileTypeBoth    ProfileType = "both"
)

func ParseProfileType(raw string) (ProfileType, bool) {
	switch ProfileType(strings.ToLower(strings.TrimSpace(raw))) {
	case ProfileTypeTourist:
		return ProfileTypeTourist, true
	case ProfileTypeGuide:
		return ProfileTypeGuide, true
	case ProfileTypeBoth:
		return ProfileTypeBoth, true
	default:
		return "", false
	}
}

// CanGuide reports whether a profile of this type may appear in guide
// discovery and accept bookings.
func (t ProfileType) CanGuide() bool {
	return t == ProfileTypeGuide || t == ProfileTypeBoth
}
