package dto

import "time"

type ProfileUpsertRequest struct {
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Bio         string   `json:"bio"`
	Location    string   `json:"location"`
	PhotoURL    string   `json:"photo_url"`
	Photos      []string `json:"photos"`
	Type        string   `json:"type"`
	HourlyRate  int      `json:"hourly_rate"`
	Specialties []string `json:"specialties"`
	Languages   []string `json:"languages"`
}

type ProfileResponse struct {
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	PhotoURL    string    `json:"photo_url"`
	Photos      []string  `json:"photos"`
	Type        string    `json:"type"`
	HourlyRate  int       `json:"hourly_rate"`
	Specialties []string  `json:"specialties"`
	Languages   []string  `json:"languages"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CandidatesResponse struct {
	Items []ProfileResponse `json:"items"`
}
