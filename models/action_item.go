package models

// Action item statuses
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// ValidStatus reports whether s is a known action item status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ActionItem is tracked follow-up work converted from a voted card or group.
// SourceType/SourceID are empty for bulk-imported AI suggestions.
type ActionItem struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	SessionID  string `gorm:"index;size:36" json:"session_id"`
	SourceType string `gorm:"size:8" json:"source_type,omitempty"`
	SourceID   string `gorm:"size:36" json:"source_id,omitempty"`
	Title      string `json:"title"`
	OwnerID    string `gorm:"index;size:36" json:"owner_id,omitempty"`
	DueDate    int64  `json:"due_date,omitempty"`
	Status     string `gorm:"index;size:16" json:"status"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}
