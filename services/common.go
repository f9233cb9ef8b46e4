package services

import (
	"errors"
	"time"

	"github.com/bellapacxx/retro-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// lockForUpdate takes a row lock on the rows the query touches, so
// concurrent transactions validating against the same row serialize instead
// of both reading the pre-commit state under READ COMMITTED. SQLite has no
// FOR UPDATE; its single-writer model already serializes.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func getSession(tx *gorm.DB, id string) (*models.Session, error) {
	var session models.Session
	if err := tx.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// getSessionForUpdate is getSession holding a row lock on the session. Every
// mutation that validates a per-session invariant (vote quota, duplicate
// votes, the participant cap) fetches through here so concurrent commands on
// the same session run one at a time.
func getSessionForUpdate(tx *gorm.DB, id string) (*models.Session, error) {
	var session models.Session
	if err := lockForUpdate(tx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func getUser(tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// getUserForUpdate locks the user row for quota read-modify-write.
func getUserForUpdate(tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := lockForUpdate(tx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// requirePhase asserts the session is currently in one of the given phases.
// Phase legality is always checked at time of use, never at transition time.
func requirePhase(session *models.Session, phases ...string) error {
	for _, p := range phases {
		if session.Phase == p {
			return nil
		}
	}
	return models.ErrPhaseViolation
}

// distinctAuthorCount counts unique card authors in a session, which is how
// participation is defined: there is no separate join table.
func distinctAuthorCount(tx *gorm.DB, sessionID string) (int64, error) {
	var count int64
	err := tx.Model(&models.Card{}).
		Where("session_id = ?", sessionID).
		Distinct("author_id").
		Count(&count).Error
	return count, err
}

func isExistingAuthor(tx *gorm.DB, sessionID, authorID string) (bool, error) {
	var count int64
	err := tx.Model(&models.Card{}).
		Where("session_id = ? AND author_id = ?", sessionID, authorID).
		Count(&count).Error
	return count > 0, err
}
