package services

import "github.com/bellapacxx/retro-backend/models"

// TierResolver resolves the effective subscription tier used by every
// tier-gated check. When FullPermission is set the stored tier is ignored
// and everything behaves as pro.
type TierResolver struct {
	FullPermission bool
}

// Effective returns the tier the given user should be treated as.
func (t TierResolver) Effective(u *models.User) string {
	if t.FullPermission {
		return models.TierPro
	}
	if u == nil || u.SubscriptionTier == "" {
		return models.TierFree
	}
	return u.SubscriptionTier
}

// Unlimited reports whether tier-based caps are bypassed for the user.
func (t TierResolver) Unlimited(u *models.User) bool {
	return t.Effective(u) == models.TierPro
}
