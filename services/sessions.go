package services

import (
	"encoding/json"
	"strings"

	"github.com/bellapacxx/retro-backend/models"
	"github.com/bellapacxx/retro-backend/utils/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Column layouts for the built-in templates.
var templates = map[string][]models.Column{
	models.TemplateStartStopContinue: {
		{Title: "Start", Color: "bg-green-100"},
		{Title: "Stop", Color: "bg-red-100"},
		{Title: "Continue", Color: "bg-blue-100"},
	},
	models.TemplateMadSadGlad: {
		{Title: "Mad", Color: "bg-red-100"},
		{Title: "Sad", Color: "bg-yellow-100"},
		{Title: "Glad", Color: "bg-green-100"},
	},
	models.TemplateWentWell: {
		{Title: "Went Well", Color: "bg-green-100"},
		{Title: "To Improve", Color: "bg-orange-100"},
		{Title: "Action Items", Color: "bg-purple-100"},
	},
}

// Color cycle for custom columns.
var customPalette = []string{"bg-blue-100", "bg-green-100", "bg-purple-100", "bg-orange-100"}

// SessionService owns the session lifecycle: creation with template
// provisioning, phase transitions, timers and usage limits.
type SessionService struct {
	DB                   *gorm.DB
	Tiers                TierResolver
	Hub                  *Hub
	FreeSessionLimit     int
	FreeParticipantLimit int
}

func NewSessionService(db *gorm.DB, tiers TierResolver, hub *Hub, freeSessionLimit, freeParticipantLimit int) *SessionService {
	return &SessionService{
		DB:                   db,
		Tiers:                tiers,
		Hub:                  hub,
		FreeSessionLimit:     freeSessionLimit,
		FreeParticipantLimit: freeParticipantLimit,
	}
}

type CreateSessionInput struct {
	Title         string   `json:"title" binding:"required"`
	TeamName      string   `json:"team_name" binding:"required"`
	FacilitatorID string   `json:"facilitator_id" binding:"required"`
	TemplateType  string   `json:"template_type" binding:"required"`
	CustomColumns []string `json:"custom_columns"`
	VotesPerUser  int      `json:"votes_per_user"`
	TimerDuration int      `json:"timer_duration"` // minutes
}

// Create provisions a new session in the collecting phase together with its
// columns. Quota and template gating is enforced against the facilitator's
// effective tier inside a single transaction.
func (s *SessionService) Create(in CreateSessionInput) (*models.Session, error) {
	columns, err := resolveColumns(in.TemplateType, in.CustomColumns)
	if err != nil {
		return nil, err
	}

	votesPerUser := in.VotesPerUser
	if votesPerUser <= 0 {
		votesPerUser = 3
	}

	now := nowMillis()
	session := &models.Session{
		ID:            uuid.NewString(),
		Title:         in.Title,
		TeamName:      in.TeamName,
		FacilitatorID: in.FacilitatorID,
		TemplateType:  in.TemplateType,
		ShareLink:     newShareLink(),
		Phase:         models.PhaseCollecting,
		VotesPerUser:  votesPerUser,
		TimerDuration: in.TimerDuration,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.TemplateType == models.TemplateCustom {
		raw, _ := json.Marshal(in.CustomColumns)
		session.CustomColumns = datatypes.JSON(raw)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Row lock on the facilitator serializes the quota check against
		// concurrent creates by the same user.
		facilitator, err := getUserForUpdate(tx, in.FacilitatorID)
		if err != nil {
			return err
		}

		// Free tier is limited to the designated free template.
		if s.Tiers.Effective(facilitator) == models.TierFree && in.TemplateType != models.TemplateMadSadGlad {
			return models.ErrPlanRestriction
		}

		// Anonymous facilitators and the full-permission override skip the
		// per-period session quota and its counter.
		if !facilitator.IsAnonymous && !s.Tiers.FullPermission {
			if s.Tiers.Effective(facilitator) == models.TierFree &&
				facilitator.SessionsCreatedThisPeriod >= s.FreeSessionLimit {
				return models.ErrSessionLimitReached
			}
			if err := tx.Model(facilitator).
				Update("sessions_created_this_period", facilitator.SessionsCreatedThisPeriod+1).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(session).Error; err != nil {
			return err
		}
		for i := range columns {
			columns[i].ID = uuid.NewString()
			columns[i].SessionID = session.ID
			columns[i].Order = i
			if err := tx.Create(&columns[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("session %s created by %s (template=%s)", session.ID, in.FacilitatorID, in.TemplateType)
	return session, nil
}

func resolveColumns(templateType string, customColumns []string) ([]models.Column, error) {
	if templateType == models.TemplateCustom {
		if len(customColumns) == 0 {
			return nil, models.ErrInvalidTemplate
		}
		columns := make([]models.Column, 0, len(customColumns))
		for i, title := range customColumns {
			if strings.TrimSpace(title) == "" {
				return nil, models.ErrInvalidTemplate
			}
			columns = append(columns, models.Column{
				Title: title,
				Color: customPalette[i%len(customPalette)],
			})
		}
		return columns, nil
	}

	layout, ok := templates[templateType]
	if !ok {
		return nil, models.ErrInvalidTemplate
	}
	columns := make([]models.Column, len(layout))
	copy(columns, layout)
	return columns, nil
}

func newShareLink() string {
	return "retro-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// FacilitatorInfo is the minimal display info exposed on share-link lookup.
type FacilitatorInfo struct {
	Name string `json:"name"`
}

type SessionWithFacilitator struct {
	models.Session
	Facilitator *FacilitatorInfo `json:"facilitator"`
}

// GetByShareLink looks a session up by its public token. Returns nil when
// the token is unknown.
func (s *SessionService) GetByShareLink(token string) (*SessionWithFacilitator, error) {
	var session models.Session
	err := s.DB.First(&session, "share_link = ?", token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	result := &SessionWithFacilitator{Session: session}
	var facilitator models.User
	if err := s.DB.First(&facilitator, "id = ?", session.FacilitatorID).Error; err == nil {
		result.Facilitator = &FacilitatorInfo{Name: facilitator.Name}
	}
	return result, nil
}

// ListByFacilitator returns all sessions a user created, newest first.
func (s *SessionService) ListByFacilitator(userID string) ([]models.Session, error) {
	var sessions []models.Session
	err := s.DB.Where("facilitator_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// UpdatePhase records a facilitator-issued phase change. Transitions are
// deliberately unconstrained: dependent operations re-check the current
// phase themselves, so a facilitator may jump the workflow in any direction.
func (s *SessionService) UpdatePhase(sessionID, userID, phase string) error {
	if !models.ValidPhase(phase) {
		return models.ErrInvalidPhase
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.FacilitatorID != userID {
			return models.ErrNotFacilitator
		}
		return tx.Model(session).Updates(map[string]any{
			"phase":      phase,
			"updated_at": nowMillis(),
		}).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "phase_changed", map[string]string{"phase": phase})
	return nil
}

// End permanently deactivates a session and moves it to the completed phase.
func (s *SessionService) End(sessionID, userID string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.FacilitatorID != userID {
			return models.ErrNotFacilitator
		}
		return tx.Model(session).Updates(map[string]any{
			"is_active":  false,
			"phase":      models.PhaseCompleted,
			"updated_at": nowMillis(),
		}).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "session_ended", nil)
	return nil
}

// StartTimer arms the session timer. Requires a configured duration. The
// deadline is advisory: expiry is observed client-side and never enforced
// by the server.
func (s *SessionService) StartTimer(sessionID, userID string) error {
	return s.setTimer(sessionID, userID, true)
}

// StopTimer clears the running deadline but keeps the configured duration,
// so the timer can be restarted.
func (s *SessionService) StopTimer(sessionID, userID string) error {
	return s.setTimer(sessionID, userID, false)
}

// RestartTimer resets the deadline to now + configured duration.
func (s *SessionService) RestartTimer(sessionID, userID string) error {
	return s.setTimer(sessionID, userID, true)
}

func (s *SessionService) setTimer(sessionID, userID string, running bool) error {
	var endsAt int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.FacilitatorID != userID {
			return models.ErrNotFacilitator
		}
		if running {
			if session.TimerDuration <= 0 {
				return models.ErrTimerNotConfigured
			}
			endsAt = nowMillis() + int64(session.TimerDuration)*60_000
		}
		return tx.Model(session).Updates(map[string]any{
			"timer_ends_at": endsAt,
			"updated_at":    nowMillis(),
		}).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "timer_updated", map[string]int64{"timer_ends_at": endsAt})
	return nil
}

// CreateAllowance describes whether a user may create another session.
// Limit is -1 when unlimited.
type CreateAllowance struct {
	CanCreate bool   `json:"can_create"`
	Reason    string `json:"reason,omitempty"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
}

// CanCreate reports whether the user has room left under the per-period
// session quota.
func (s *SessionService) CanCreate(userID string) (*CreateAllowance, error) {
	user, err := getUser(s.DB, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAnonymous {
		return &CreateAllowance{CanCreate: false, Reason: "sign in to create sessions"}, nil
	}
	if s.Tiers.Unlimited(user) {
		return &CreateAllowance{CanCreate: true, Limit: -1, Used: user.SessionsCreatedThisPeriod}, nil
	}
	if user.SessionsCreatedThisPeriod >= s.FreeSessionLimit {
		return &CreateAllowance{
			CanCreate: false,
			Reason:    "session limit for this period reached",
			Limit:     s.FreeSessionLimit,
			Used:      user.SessionsCreatedThisPeriod,
		}, nil
	}
	return &CreateAllowance{
		CanCreate: true,
		Limit:     s.FreeSessionLimit,
		Used:      user.SessionsCreatedThisPeriod,
	}, nil
}

// Usage is a user's session-creation consumption for the current period.
// Limit and Remaining are -1 when unlimited.
type Usage struct {
	Tier      string `json:"tier"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

func (s *SessionService) GetUsage(userID string) (*Usage, error) {
	user, err := getUser(s.DB, userID)
	if err != nil {
		return nil, err
	}

	usage := &Usage{
		Tier: s.Tiers.Effective(user),
		Used: user.SessionsCreatedThisPeriod,
	}
	if s.Tiers.Unlimited(user) {
		usage.Limit = -1
		usage.Remaining = -1
		return usage, nil
	}
	usage.Limit = s.FreeSessionLimit
	usage.Remaining = max(0, s.FreeSessionLimit-user.SessionsCreatedThisPeriod)
	return usage, nil
}

// ParticipantCount counts distinct card authors in a session.
func (s *SessionService) ParticipantCount(sessionID string) (int64, error) {
	if _, err := getSession(s.DB, sessionID); err != nil {
		return 0, err
	}
	return distinctAuthorCount(s.DB, sessionID)
}

// JoinAllowance describes whether a user could contribute a first card to
// the session without tripping the participant cap.
type JoinAllowance struct {
	CanJoin bool   `json:"can_join"`
	Reason  string `json:"reason,omitempty"`
}

// CanJoin is a read-only preview of the participant cap that createCard
// enforces transactionally.
func (s *SessionService) CanJoin(sessionID, userID string) (*JoinAllowance, error) {
	session, err := getSession(s.DB, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return &JoinAllowance{CanJoin: false, Reason: "session has ended"}, nil
	}

	facilitator, err := getUser(s.DB, session.FacilitatorID)
	if err != nil {
		return nil, err
	}
	if facilitator.IsAnonymous || s.Tiers.Effective(facilitator) != models.TierFree {
		return &JoinAllowance{CanJoin: true}, nil
	}

	existing, err := isExistingAuthor(s.DB, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if existing {
		return &JoinAllowance{CanJoin: true}, nil
	}

	count, err := distinctAuthorCount(s.DB, sessionID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.FreeParticipantLimit) {
		return &JoinAllowance{CanJoin: false, Reason: "participant limit reached"}, nil
	}
	return &JoinAllowance{CanJoin: true}, nil
}
