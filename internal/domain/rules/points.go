package rules

// Defaults for the points economy. Config may override the configurable
// ones; level thresholds are fixed product rules.
const (
	StartingPoints    = 50
	GuideReward       = 25
	DefaultHourlyRate = 25
	BookingDiscount   = 0.8
)

type Level struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
}

// LevelFor maps lifetime earned points to a user level.
func LevelFor(totalEarned int) Level {
	switch {
	case totalEarned < 50:
		return Level{Level: 1, Name: "Newcomer"}
	case totalEarned < 150:
		return Level{Level: 2, Name: "Guide"}
	case totalEarned < 500:
		return Level{Level: 3, Name: "Expert"}
	default:
		return Level{Level: 4, Name: "Legend"}
	}
}

// BookingCost is the points price of a tour: hourly rate times duration,
// with the platform discount applied.
func BookingCost(hourlyRate, hours int) int {
	if hourlyRate <= 0 || hours <= 0 {
		return 0
	}
	return int(float64(hourlyRate*hours) * BookingDiscount)
}
