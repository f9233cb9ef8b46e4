package services

import (
	"errors"

	"github.com/bellapacxx/retro-backend/models"
	"github.com/bellapacxx/retro-backend/utils/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService manages anonymous joins, identity-provider sync and the
// subscription fields written by the billing callback.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Create registers a user. Authenticated users are deduplicated by email:
// re-registering an existing address returns the existing record.
func (s *UserService) Create(name, email string, isAnonymous bool) (*models.User, error) {
	if email != "" {
		var existing models.User
		err := s.DB.First(&existing, "email = ?", email).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user := &models.User{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		IsAnonymous: isAnonymous,
		CreatedAt:   nowMillis(),
	}
	if err := s.DB.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SyncExternal creates or updates a user from the identity provider. An
// anonymous user who signs in with a known email is upgraded in place so
// their existing cards and votes stay attached. Lookup and write run in one
// transaction so concurrent syncs of the same identity cannot both create.
func (s *UserService) SyncExternal(externalID, name, email string) (*models.User, error) {
	var synced *models.User

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User

		err := tx.First(&user, "external_id = ?", externalID).Error
		if err == nil {
			if err := tx.Model(&user).Updates(map[string]any{
				"name":  name,
				"email": email,
			}).Error; err != nil {
				return err
			}
			user.Name, user.Email = name, email
			synced = &user
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if email != "" {
			err := tx.First(&user, "email = ?", email).Error
			if err == nil {
				if err := tx.Model(&user).Updates(map[string]any{
					"external_id":  externalID,
					"name":         name,
					"is_anonymous": false,
				}).Error; err != nil {
					return err
				}
				user.ExternalID, user.Name, user.IsAnonymous = externalID, name, false
				synced = &user
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		created := &models.User{
			ID:         uuid.NewString(),
			Name:       name,
			Email:      email,
			ExternalID: externalID,
			CreatedAt:  nowMillis(),
		}
		if err := tx.Create(created).Error; err != nil {
			return err
		}
		synced = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return synced, nil
}

// Get returns a user by ID.
func (s *UserService) Get(userID string) (*models.User, error) {
	return getUser(s.DB, userID)
}

// UpdateSubscription writes the tier and billing references coming from the
// billing provider. The references are opaque and stored verbatim.
func (s *UserService) UpdateSubscription(userID, tier, subscriptionID, customerID string) error {
	if tier != models.TierFree && tier != models.TierPro {
		return models.ErrPlanRestriction
	}
	user, err := getUser(s.DB, userID)
	if err != nil {
		return err
	}
	return s.DB.Model(user).Updates(map[string]any{
		"subscription_tier": tier,
		"subscription_id":   subscriptionID,
		"customer_id":       customerID,
	}).Error
}

// ResetUsageCounters zeroes every user's per-period session counter and
// stamps the new period start. Invoked by an external scheduler at the top
// of each billing period; running it twice is harmless.
func (s *UserService) ResetUsageCounters() error {
	res := s.DB.Model(&models.User{}).
		Where("sessions_created_this_period > 0").
		Updates(map[string]any{
			"sessions_created_this_period": 0,
			"current_period_start":         nowMillis(),
		})
	if res.Error != nil {
		return res.Error
	}
	logger.Infof("usage counters reset for %d users", res.RowsAffected)
	return nil
}
