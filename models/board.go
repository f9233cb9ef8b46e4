package models

// Card is a feedback note inside a column. GroupID is empty while ungrouped.
type Card struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	SessionID string `gorm:"index;size:36" json:"session_id"`
	ColumnID  string `gorm:"index;size:36" json:"column_id"`
	GroupID   string `gorm:"index;size:36" json:"group_id,omitempty"`
	AuthorID  string `gorm:"index;size:36" json:"author_id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Group collects related cards within a column during the grouping phase.
type Group struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	SessionID string `gorm:"index;size:36" json:"session_id"`
	ColumnID  string `gorm:"index;size:36" json:"column_id"`
	Title     string `json:"title"`
	CreatedBy string `gorm:"size:36" json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}
