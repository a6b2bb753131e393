package model

import "time"

type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PointsBalance int       `json:"points_balance"`
	TotalEarned   int       `json:"total_points_earned"`
	TotalSpent    int       `json:"total_points_spent"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
