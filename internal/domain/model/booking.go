package model

import (
	"time"

	"github.com/mr0kk/hackYeah2025-guidy/internal/domain/enums"
)

type Booking struct {
	ID          string              `json:"id"`
	TouristID   int64               `json:"tourist_id"`
	GuideID     int64               `json:"guide_id"`
	PointsCost  int                 `json:"points_cost"`
	Status      enums.BookingStatus `json:"status"`
	ScheduledAt time.Time           `json:"scheduled_at"`
	CreatedAt   time.Time           `json:"created_at"`
}
