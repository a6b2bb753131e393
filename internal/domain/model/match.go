package model

import "time"

// Match pairs two users. UserAID is always the smaller identifier so the
// pair has a single canonical representation.
type Match struct {
	ID        int64     `json:"id"`
	UserAID   int64     `json:"user_a_id"`
	UserBID   int64     `json:"user_b_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// OtherUser returns the match participant that is not userID, or 0 when
// userID is not part of the match.
func (m Match) OtherUser(userID int64) int64 {
	switch userID {
	case m.UserAID:
		return m.UserBID
	case m.UserBID:
		return m.UserAID
	default:
		return 0
	}
}

func (m Match) HasParticipant(userID int64) bool {
	return userID == m.UserAID || userID == m.UserBID
}

// CanonicalPair orders two user identifiers so that the smaller one comes
// first. Equality of unordered pairs reduces to equality of canonical pairs.
func CanonicalPair(userID, targetID int64) (int64, int64) {
	if userID > targetID {
		return targetID, userID
	}
	return userID, targetID
}
