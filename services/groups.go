package services

import (
	"errors"

	"github.com/bellapacxx/retro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupService handles card groups. Everything here is legal only during
// the grouping phase.
type GroupService struct {
	DB  *gorm.DB
	Hub *Hub
}

func NewGroupService(db *gorm.DB, hub *Hub) *GroupService {
	return &GroupService{DB: db, Hub: hub}
}

// Create adds a group to a column of the session.
func (s *GroupService) Create(sessionID, columnID, userID, title string) (*models.Group, error) {
	group := &models.Group{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		ColumnID:  columnID,
		Title:     title,
		CreatedBy: userID,
		CreatedAt: nowMillis(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, sessionID)
		if err != nil {
			return err
		}
		if err := requirePhase(session, models.PhaseGrouping); err != nil {
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

		return tx.Create(group).Error
	})
	if err != nil {
		return nil, err
	}

	s.Hub.Notify(sessionID, "group_created", group)
	return group, nil
}

// Update renames a group.
func (s *GroupService) Update(groupID, title string) error {
	var sessionID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		group, err := s.getGroup(tx, groupID)
		if err != nil {
			return err
		}
		session, err := getSession(tx, group.SessionID)
		if err != nil {
			return err
		}
		if err := requirePhase(session, models.PhaseGrouping); err != nil {
			return err
		}
		sessionID = group.SessionID
		return tx.Model(group).Update("title", title).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "group_updated", map[string]string{"group_id": groupID})
	return nil
}

// Delete removes a group. Member cards are ungrouped, not deleted; votes on
// the group are removed. The whole cascade is one transaction.
func (s *GroupService) Delete(groupID string) error {
	var sessionID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		group, err := s.getGroup(tx, groupID)
		if err != nil {
			return err
		}
		session, err := getSession(tx, group.SessionID)
		if err != nil {
			return err
		}
		if err := requirePhase(session, models.PhaseGrouping); err != nil {
			return err
		}
		sessionID = group.SessionID

		if err := tx.Model(&models.Card{}).
			Where("group_id = ?", groupID).
			Updates(map[string]any{"group_id": "", "updated_at": nowMillis()}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetGroup, groupID).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
	if err != nil {
		return err
	}

	s.Hub.Notify(sessionID, "group_deleted", map[string]string{"group_id": groupID})
	return nil
}

func (s *GroupService) getGroup(tx *gorm.DB, id string) (*models.Group, error) {
	var group models.Group
	if err := tx.First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}
