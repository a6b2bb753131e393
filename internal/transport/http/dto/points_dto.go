package dto

import "time"

type PointTransactionResponse struct {
	ID        string    `json:"id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

type PointsSummaryResponse struct {
	Balance      int                        `json:"balance"`
	TotalEarned  int                        `json:"total_earned"`
	TotalSpent   int                        `json:"total_spent"`
	Level        int                        `json:"level"`
	LevelName    string                     `json:"level_name"`
	Transactions []PointTransactionResponse `json:"transactions"`
}
