package models

// Vote target kinds
const (
	TargetCard  = "card"
	TargetGroup = "group"
)

// Target references either a card or a group, disambiguated by Type.
// Consumers switch exhaustively on Type instead of guessing from the ID.
type Target struct {
	Type string `json:"type" binding:"required,oneof=card group"`
	ID   string `json:"id" binding:"required"`
}

// Vote is a single user's vote on a card or group. The unique index on
// (user_id, target_id) enforces at most one vote per pair at the database
// level, independent of the in-transaction duplicate check.
type Vote struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	SessionID  string `gorm:"index:idx_votes_user_session;size:36" json:"session_id"`
	UserID     string `gorm:"index:idx_votes_user_session;uniqueIndex:idx_votes_user_target;size:36" json:"user_id"`
	TargetType string `gorm:"size:8" json:"target_type"`
	TargetID   string `gorm:"index;uniqueIndex:idx_votes_user_target;size:36" json:"target_id"`
	CreatedAt  int64  `json:"created_at"`
}
