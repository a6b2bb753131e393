package dto

import "time"

type BookRequest struct {
	GuideID     int64     `json:"guide_id"`
	Hours       int       `json:"hours"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type BookingResponse struct {
	ID          string    `json:"id"`
	TouristID   int64     `json:"tourist_id"`
	GuideID     int64     `json:"guide_id"`
	PointsCost  int       `json:"points_cost"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type BookingsResponse struct {
	Items []BookingResponse `json:"items"`
}
