package services

import (
	"errors"

	"github.com/bellapacxx/retro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardService handles feedback cards: creation during the collecting and
// grouping phases, author-only edits, and regrouping.
type CardService struct {
	DB                   *gorm.DB
	Tiers                TierResolver
	Hub                  *Hub
	FreeParticipantLimit int
}

func NewCardService(db *gorm.DB, tiers TierResolver, hub *Hub, freeParticipantLimit int) *CardService {
	return &CardService{DB: db, Tiers: tiers, Hub: hub, FreeParticipantLimit: freeParticipantLimit}
}

// Create adds a card to a column. The free-tier participant cap is enforced
// here rather than at a separate join step: a new distinct author consumes
// a participant slot, and the check plus insert run in one transaction so
// two first-time authors cannot both take the last slot.
func (s *CardService) Create(sessionID, columnID, authorID, text string) (*models.Card, error) {
	now := nowMillis()
	card := &models.Card{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		ColumnID:  columnID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := getSessionForUpdate(tx, sessionID)
		if err != nil {
			return err
		}
		if err := requirePhase(session, models.PhaseCollecting, models.PhaseGrouping); err != nil {
			return err
		}

		var column models.Column
		if err := tx.First(&column, "id = ?", columnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrInvalidTarget
			}
			return err
		}
		if column.SessionID != sessionID {
			return models.ErrInvalidTarget
		}

		facilitator, err := getUser(tx, session.FacilitatorID)
		if err != nil {
			return err
		}
		if !facilitator.IsAnonymous && s.Tiers.Effective(facilitator) == models.TierFree {
			existing, err := isExistingAuthor(tx, sessionID, authorID)
			if err != nil {
				return err
			}
			if !existing {
				count, err := distinctAuthorCount(tx, sessionID)
				if err != nil {
					return err
				}
				if count >= int64(s.FreeParticipantLimit) {
					return models.ErrParticipantLimit
				}
			}
		}

		return tx.Create(card).Error
	})
	if err != nil {
		return nil, err
	}

	s.Hub.Notify(sessionID, "card_created", card)
	return card, nil
}

// Update rewrites a card's text. Author only, collecting or grouping phase.
func (s *CardService) Update(cardID, userID, text string) error {
	var sessionID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		card, err := s.getCard(tx, cardID)
		if err != nil {
			return err
		}
		if card.AuthorID != userID {
			return models.ErrNotAuthor
		}
		session, err := getSession(tx, card.SessionID)
		if err != nil {
			return err
		}
		if err := requirePhase(session, models.PhaseCollecting, models.PhaseGrouping); err != nil {
			return err
		}
		sessionID = card.SessionID
		return tx.Model(card).Updates(map[string]any{
			"text":       text,
			"updated_at": nowMillis(),
		}).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "card_updated", map[string]string{"card_id": cardID})
	return nil
}

// Delete removes a card and every vote cast on it in one transaction.
func (s *CardService) Delete(cardID, userID string) error {
	var sessionID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		card, err := s.getCard(tx, cardID)
		if err != nil {
			return err
		}
		if card.AuthorID != userID {
			return models.ErrNotAuthor
		}
		sessionID = card.SessionID

		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetCard, cardID).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(card).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "card_deleted", map[string]string{"card_id": cardID})
	return nil
}

// MoveToGroup re-parents a card. Empty groupID ungroups it. Grouping phase
// only; the group must belong to the card's session.
func (s *CardService) MoveToGroup(cardID, groupID string) error {
	var sessionID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		card, err := s.getCard(tx, cardID)
		if err != nil {
			return err
		}
		session, err := getSession(tx, card.SessionID)
		if err != nil {
			return err
		}
		if err := requirePhase(session, models.PhaseGrouping); err != nil {
			return err
		}

		if groupID != "" {
			var group models.Group
			if err := tx.First(&group, "id = ?", groupID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrInvalidTarget
				}
				return err
			}
			if group.SessionID != card.SessionID {
				return models.ErrInvalidTarget
			}
		}

		sessionID = card.SessionID
		return tx.Model(card).Updates(map[string]any{
			"group_id":   groupID,
			"updated_at": nowMillis(),
		}).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "card_moved", map[string]string{"card_id": cardID, "group_id": groupID})
	return nil
}

func (s *CardService) getCard(tx *gorm.DB, id string) (*models.Card, error) {
	var card models.Card
	if err := tx.First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}
