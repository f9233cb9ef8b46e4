package models

import "gorm.io/datatypes"

// Retrospective phases. Any facilitator-issued phase in this set is accepted;
// dependent operations re-validate the current phase at time of use.
const (
	PhaseSetup      = "setup"
	PhaseCollecting = "collecting"
	PhaseGrouping   = "grouping"
	PhaseVoting     = "voting"
	PhaseDiscussion = "discussion"
	PhaseCompleted  = "completed"
)

// Board templates
const (
	TemplateStartStopContinue = "start_stop_continue"
	TemplateMadSadGlad        = "mad_sad_glad"
	TemplateWentWell          = "went_well_to_improve_actions"
	TemplateCustom            = "custom"
)

// ValidPhase reports whether p is a known phase value.
func ValidPhase(p string) bool {
	switch p {
	case PhaseSetup, PhaseCollecting, PhaseGrouping, PhaseVoting, PhaseDiscussion, PhaseCompleted:
		return true
	}
	return false
}

// Session is a retrospective board owned by its facilitator.
// Timestamps are epoch milliseconds.
type Session struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Title         string         `json:"title"`
	TeamName      string         `json:"team_name"`
	FacilitatorID string         `gorm:"index;size:36" json:"facilitator_id"`
	TemplateType  string         `json:"template_type"`
	CustomColumns datatypes.JSON `json:"custom_columns,omitempty"` // column names, custom template only
	ShareLink     string         `gorm:"uniqueIndex;size:64" json:"share_link"`
	Phase         string         `gorm:"index" json:"phase"`
	VotesPerUser  int            `json:"votes_per_user"`
	TimerDuration int            `json:"timer_duration"` // minutes, 0 = no timer configured
	TimerEndsAt   int64          `json:"timer_ends_at"`  // 0 = timer not running
	IsActive      bool           `gorm:"index" json:"is_active"`
	CreatedAt     int64          `json:"created_at"`
	UpdatedAt     int64          `json:"updated_at"`
}

// Column belongs to exactly one session, provisioned from the template at
// session creation and immutable afterward.
type Column struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	SessionID string `gorm:"index;size:36" json:"session_id"`
	Title     string `json:"title"`
	Color     string `json:"color"`
	Order     int    `json:"order"` // zero-based display order
}
