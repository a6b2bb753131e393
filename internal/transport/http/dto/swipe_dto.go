package dto

type SwipeRequest struct {
	TargetID  int64  `json:"target_id"`
	Direction string `json:"direction"`
}

type SwipeResponse struct {
	Direction       string `json:"direction"`
	MatchCreated    bool   `json:"match_created"`
	MatchID         int64  `json:"match_id,omitempty"`
	MatchedWith     int64  `json:"matched_with,omitempty"`
	MatchedName     string `json:"matched_name,omitempty"`
	MatchedPhotoURL string `json:"matched_photo_url,omitempty"`
	MatchedLocation string `json:"matched_location,omitempty"`
}
