package services

import (
	"errors"
	"sort"

	"github.com/bellapacxx/retro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteService enforces the voting rules: voting phase only, one vote per
// (user, target) pair, and the per-user quota unless the facilitator's
// effective tier is unlimited.
type VoteService struct {
	DB    *gorm.DB
	Tiers TierResolver
	Hub   *Hub
}

func NewVoteService(db *gorm.DB, tiers TierResolver, hub *Hub) *VoteService {
	return &VoteService{DB: db, Tiers: tiers, Hub: hub}
}

// Cast records a vote on a card or group. Duplicate and quota checks run in
// the same transaction as the insert so concurrent votes cannot overshoot
// the cap.
func (s *VoteService) Cast(sessionID, userID string, target models.Target) (*models.Vote, error) {
	vote := &models.Vote{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		UserID:     userID,
		TargetType: target.Type,
		TargetID:   target.ID,
		CreatedAt:  nowMillis(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := getSessionForUpdate(tx, sessionID)
		if err != nil {
			return err
		}
		if err := requirePhase(session, models.PhaseVoting); err != nil {
			return err
		}

		var dup int64
		if err := tx.Model(&models.Vote{}).
			Where("session_id = ? AND user_id = ? AND target_id = ?", sessionID, userID, target.ID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return models.ErrAlreadyVoted
		}

		facilitator, err := getUser(tx, session.FacilitatorID)
		if err != nil {
			return err
		}
		if !s.Tiers.Unlimited(facilitator) {
			var used int64
			if err := tx.Model(&models.Vote{}).
				Where("session_id = ? AND user_id = ?", sessionID, userID).
				Count(&used).Error; err != nil {
				return err
			}
			if used >= int64(session.VotesPerUser) {
				return models.ErrVoteLimitReached
			}
		}

		if err := s.validateTarget(tx, sessionID, target); err != nil {
			return err
		}
		// The unique index on (user_id, target_id) backstops the duplicate
		// check above.
		if err := tx.Create(vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrAlreadyVoted
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Hub.Notify(sessionID, "vote_cast", map[string]string{"target_id": target.ID})
	return vote, nil
}

func (s *VoteService) validateTarget(tx *gorm.DB, sessionID string, target models.Target) error {
	switch target.Type {
	case models.TargetCard:
		var card models.Card
		if err := tx.First(&card, "id = ?", target.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrInvalidTarget
			}
			return err
		}
		if card.SessionID != sessionID {
			return models.ErrInvalidTarget
		}
		return nil
	case models.TargetGroup:
		var group models.Group
		if err := tx.First(&group, "id = ?", target.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrInvalidTarget
			}
			return err
		}
		if group.SessionID != sessionID {
			return models.ErrInvalidTarget
		}
		return nil
	default:
		return models.ErrInvalidTarget
	}
}

// Remove deletes a user's own vote during the voting phase.
func (s *VoteService) Remove(voteID, userID string) error {
	var sessionID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var vote models.Vote
		if err := tx.First(&vote, "id = ?", voteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrVoteNotFound
			}
			return err
		}
		if vote.UserID != userID {
			return models.ErrNotVoteOwner
		}
		session, err := getSession(tx, vote.SessionID)
		if err != nil {
			return err
		}
		if err := requirePhase(session, models.PhaseVoting); err != nil {
			return err
		}
		sessionID = vote.SessionID
		return tx.Delete(&vote).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "vote_removed", map[string]string{"vote_id": voteID})
	return nil
}

// RemainingVotes is a user's vote budget in a session. Total and Remaining
// are -1 when the facilitator's effective tier is unlimited.
type RemainingVotes struct {
	Used        int  `json:"used"`
	Total       int  `json:"total"`
	Remaining   int  `json:"remaining"`
	IsUnlimited bool `json:"is_unlimited"`
}

func (s *VoteService) Remaining(sessionID, userID string) (*RemainingVotes, error) {
	session, err := getSession(s.DB, sessionID)
	if err != nil {
		return nil, err
	}

	var used int64
	if err := s.DB.Model(&models.Vote{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Count(&used).Error; err != nil {
		return nil, err
	}

	facilitator, err := getUser(s.DB, session.FacilitatorID)
	if err != nil {
		return nil, err
	}
	if s.Tiers.Unlimited(facilitator) {
		return &RemainingVotes{Used: int(used), Total: -1, Remaining: -1, IsUnlimited: true}, nil
	}
	return &RemainingVotes{
		Used:      int(used),
		Total:     session.VotesPerUser,
		Remaining: max(0, session.VotesPerUser-int(used)),
	}, nil
}

// VoteResult is the tally for one target.
type VoteResult struct {
	TargetID   string `json:"target_id"`
	TargetType string `json:"target_type"`
	VoteCount  int    `json:"vote_count"`
}

// Results tallies votes per target, sorted by count descending. Ties break
// by target creation time, then ID, so a fixed input set always produces
// the same order.
func (s *VoteService) Results(sessionID string) ([]VoteResult, error) {
	if _, err := getSession(s.DB, sessionID); err != nil {
		return nil, err
	}

	var votes []models.Vote
	if err := s.DB.Where("session_id = ?", sessionID).Find(&votes).Error; err != nil {
		return nil, err
	}

	createdAt := map[string]int64{}
	var cards []models.Card
	if err := s.DB.Select("id", "created_at").Where("session_id = ?", sessionID).Find(&cards).Error; err != nil {
		return nil, err
	}
	for _, c := range cards {
		createdAt[c.ID] = c.CreatedAt
	}
	var groups []models.Group
	if err := s.DB.Select("id", "created_at").Where("session_id = ?", sessionID).Find(&groups).Error; err != nil {
		return nil, err
	}
	for _, g := range groups {
		createdAt[g.ID] = g.CreatedAt
	}

	counts := map[string]*VoteResult{}
	for _, v := range votes {
		r, ok := counts[v.TargetID]
		if !ok {
			r = &VoteResult{TargetID: v.TargetID, TargetType: v.TargetType}
			counts[v.TargetID] = r
		}
		r.VoteCount++
	}

	results := make([]VoteResult, 0, len(counts))
	for _, r := range counts {
		results = append(results, *r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].VoteCount != results[j].VoteCount {
			return results[i].VoteCount > results[j].VoteCount
		}
		ci, cj := createdAt[results[i].TargetID], createdAt[results[j].TargetID]
		if ci != cj {
			return ci < cj
		}
		return results[i].TargetID < results[j].TargetID
	})
	return results, nil
}
