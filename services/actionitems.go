package services

import (
	"errors"

	"github.com/bellapacxx/retro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionItemService tracks follow-up work converted from voting results.
// Creation and deletion are facilitator-only; status moves are open to any
// participant so owners and teammates can progress their items.
type ActionItemService struct {
	DB  *gorm.DB
	Hub *Hub
}

func NewActionItemService(db *gorm.DB, hub *Hub) *ActionItemService {
	return &ActionItemService{DB: db, Hub: hub}
}

// Create converts a card or group into an action item.
func (s *ActionItemService) Create(sessionID, userID string, source models.Target, title, ownerID string, dueDate int64) (*models.ActionItem, error) {
	now := nowMillis()
	item := &models.ActionItem{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		SourceType: source.Type,
		SourceID:   source.ID,
		Title:      title,
		OwnerID:    ownerID,
		DueDate:    dueDate,
		Status:     models.StatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.FacilitatorID != userID {
			return models.ErrNotFacilitator
		}
		if err := s.validateSource(tx, sessionID, source); err != nil {
			return err
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}

	s.Hub.Notify(sessionID, "action_item_created", item)
	return item, nil
}

func (s *ActionItemService) validateSource(tx *gorm.DB, sessionID string, source models.Target) error {
	switch source.Type {
	case models.TargetCard:
		var card models.Card
		if err := tx.First(&card, "id = ?", source.ID).Error; err != nil {
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
		if err := tx.First(&group, "id = ?", source.ID).Error; err != nil {
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

// Suggestion is one entry from the external AI recommendation feed.
type Suggestion struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

// BulkCreate imports AI-suggested items. Titles are synthesized from the
// suggestion title and description; source references stay empty since
// these items are not backed by a single card or group.
func (s *ActionItemService) BulkCreate(sessionID, userID string, suggestions []Suggestion) ([]string, error) {
	ids := make([]string, 0, len(suggestions))

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.FacilitatorID != userID {
			return models.ErrNotFacilitator
		}

		now := nowMillis()
		for _, sug := range suggestions {
			title := sug.Title
			if sug.Description != "" {
				title += ": " + sug.Description
			}
			item := &models.ActionItem{
				ID:        uuid.NewString(),
				SessionID: sessionID,
				Title:     title,
				Status:    models.StatusOpen,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(item).Error; err != nil {
				return err
			}
			ids = append(ids, item.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Hub.Notify(sessionID, "action_items_imported", map[string]int{"count": len(ids)})
	return ids, nil
}

// Update patches an action item. A status-only update is allowed from any
// participant; touching title, owner or due date requires the facilitator
// or the item's current owner.
type ActionItemUpdate struct {
	Title   *string `json:"title"`
	OwnerID *string `json:"owner_id"`
	DueDate *int64  `json:"due_date"`
	Status  *string `json:"status"`
}

func (s *ActionItemService) Update(itemID, userID string, upd ActionItemUpdate) error {
	if upd.Status != nil && !models.ValidStatus(*upd.Status) {
		return models.ErrInvalidStatus
	}

	var sessionID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		item, err := s.getItem(tx, itemID)
		if err != nil {
			return err
		}
		session, err := getSession(tx, item.SessionID)
		if err != nil {
			return err
		}

		restricted := upd.Title != nil || upd.OwnerID != nil || upd.DueDate != nil
		if session.FacilitatorID != userID && item.OwnerID != userID {
			if restricted {
				return models.ErrForbidden
			}
			// Status moves are open to participants, meaning anyone who
			// authored a card in the session.
			participant, err := isExistingAuthor(tx, item.SessionID, userID)
			if err != nil {
				return err
			}
			if !participant {
				return models.ErrForbidden
			}
		}

		fields := map[string]any{"updated_at": nowMillis()}
		if upd.Title != nil {
			fields["title"] = *upd.Title
		}
		if upd.OwnerID != nil {
			fields["owner_id"] = *upd.OwnerID
		}
		if upd.DueDate != nil {
			fields["due_date"] = *upd.DueDate
		}
		if upd.Status != nil {
			fields["status"] = *upd.Status
		}

		sessionID = item.SessionID
		return tx.Model(item).Updates(fields).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "action_item_updated", map[string]string{"action_item_id": itemID})
	return nil
}

// Delete removes an action item. Facilitator only.
func (s *ActionItemService) Delete(itemID, userID string) error {
	var sessionID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		item, err := s.getItem(tx, itemID)
		if err != nil {
			return err
		}
		session, err := getSession(tx, item.SessionID)
		if err != nil {
			return err
		}
		if session.FacilitatorID != userID {
			return models.ErrNotFacilitator
		}
		sessionID = item.SessionID
		return tx.Delete(item).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "action_item_deleted", map[string]string{"action_item_id": itemID})
	return nil
}

func (s *ActionItemService) getItem(tx *gorm.DB, id string) (*models.ActionItem, error) {
	var item models.ActionItem
	if err := tx.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrActionItemNotFound
		}
		return nil, err
	}
	return &item, nil
}
