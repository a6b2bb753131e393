package model

import "time"

// PointTransaction is an append-only audit record. Amount is signed:
// positive entries are earnings, negative entries are spends.
type PointTransaction struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (t PointTransaction) Kind() string {
	if t.Amount > 0 {
		return "earned"
	}
	return "spent"
}
