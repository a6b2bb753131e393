package model

import (
	"time"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
)

type Profile struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Name        string            `json:"name"`
	Age         int               `json:"age"`
	Bio         string            `json:"bio"`
	Location    string            `json:"location"`
	PhotoURL    string            `json:"photo_url"`
	Photos      []string          `json:"photos"`
	Type        enums.ProfileType `json:"profile_type"`
	HourlyRate  int               `json:"hourly_rate"`
	Specialties []string          `json:"specialties"`
	Languages   []string          `json:"languages"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
