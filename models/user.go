package models

// Subscription tiers
const (
	TierFree = "free"
	TierPro  = "pro"
)

// User supports both anonymous participants and authenticated accounts.
// Anonymous users are created on first join; authenticated users are synced
// from the external identity provider.
type User struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `json:"name"`
	Email       string `gorm:"index" json:"email,omitempty"`
	IsAnonymous bool   `json:"is_anonymous"`
	ExternalID  string `gorm:"index" json:"-"` // identity provider user ID

	SubscriptionTier string `json:"subscription_tier"` // free | pro
	SubscriptionID   string `json:"-"`                 // billing subscription reference
	CustomerID       string `json:"-"`                 // billing customer reference

	SessionsCreatedThisPeriod int   `json:"sessions_created_this_period"`
	CurrentPeriodStart        int64 `json:"current_period_start"`

	CreatedAt int64 `json:"created_at"`
}
