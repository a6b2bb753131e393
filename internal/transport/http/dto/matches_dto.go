package dto

import "time"

type MatchItemResponse struct {
	ID          int64     `json:"id"`
	OtherUserID int64     `json:"other_user_id"`
	Name        string    `json:"name"`
	PhotoURL    string    `json:"photo_url"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}

type MatchDetailsResponse struct {
	ID          int64     `json:"id"`
	OtherUserID int64     `json:"other_user_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type DeactivateMatchResponse struct {
	OK bool `json:"ok"`
}
