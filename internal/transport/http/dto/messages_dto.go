package dto

import "time"

type PostMessageRequest struct {
	Content string `json:"content"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	MatchID   int64     `json:"match_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type MessagesResponse struct {
	Items []MessageResponse `json:"items"`
}

type MarkReadResponse struct {
	OK      bool  `json:"ok"`
	Updated int64 `json:"updated"`
}
