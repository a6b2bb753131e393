package dto

import "time"

type MeResponse struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PointsBalance int       `json:"points_balance"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type DeactivateAccountResponse struct {
	OK bool `json:"ok"`
}
