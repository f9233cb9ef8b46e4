package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterUser creates a user. This backs both the anonymous join flow and
// explicit sign-up; clients persist the returned ID locally for continuity.
func (a *API) RegisterUser(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Email       string `json:"email"`
		IsAnonymous bool   `json:"is_anonymous"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.Users.Create(req.Name, req.Email, req.IsAnonymous)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// SyncUser upserts a user from the external identity provider.
func (a *API) SyncUser(c *gin.Context) {
	var req struct {
		ExternalID string `json:"external_id" binding:"required"`
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.Users.SyncExternal(req.ExternalID, req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser fetches a user by ID.
func (a *API) GetUser(c *gin.Context) {
	user, err := a.Users.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateSubscription is the billing provider callback writing the tier and
// billing references onto the user.
func (a *API) UpdateSubscription(c *gin.Context) {
	var req struct {
		Tier           string `json:"tier" binding:"required"`
		SubscriptionID string `json:"subscription_id"`
		CustomerID     string `json:"customer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Users.UpdateSubscription(c.Param("id"), req.Tier, req.SubscriptionID, req.CustomerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// GetUserUsage returns the user's session-creation consumption this period.
func (a *API) GetUserUsage(c *gin.Context) {
	usage, err := a.Sessions.GetUsage(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// CanCreateSession reports whether the user may create another session.
func (a *API) CanCreateSession(c *gin.Context) {
	allowance, err := a.Sessions.CanCreate(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, allowance)
}

// ListUserSessions returns sessions the user facilitates, newest first.
func (a *API) ListUserSessions(c *gin.Context) {
	sessions, err := a.Sessions.ListByFacilitator(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// ResetUsageCounters is invoked by the external scheduler at the start of
// each billing period.
func (a *API) ResetUsageCounters(c *gin.Context) {
	if err := a.Users.ResetUsageCounters(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
