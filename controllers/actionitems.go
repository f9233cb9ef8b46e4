package controllers

import (
	"net/http"

	"github.com/bellapacxx/retro-backend/models"
	"github.com/bellapacxx/retro-backend/services"

	"github.com/gin-gonic/gin"
)

// CreateActionItem converts a card or group into a tracked action item.
func (a *API) CreateActionItem(c *gin.Context) {
	var req struct {
		SessionID string        `json:"session_id" binding:"required"`
		UserID    string        `json:"user_id" binding:"required"`
		Source    models.Target `json:"source" binding:"required"`
		Title     string        `json:"title" binding:"required"`
		OwnerID   string        `json:"owner_id"`
		DueDate   int64         `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := a.ActionItems.Create(req.SessionID, req.UserID, req.Source, req.Title, req.OwnerID, req.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// BulkCreateActionItems imports suggestions from the AI recommendation feed.
func (a *API) BulkCreateActionItems(c *gin.Context) {
	var req struct {
		SessionID string                `json:"session_id" binding:"required"`
		UserID    string                `json:"user_id" binding:"required"`
		Items     []services.Suggestion `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids, err := a.ActionItems.BulkCreate(req.SessionID, req.UserID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"count": len(ids), "ids": ids})
}

// UpdateActionItem patches an action item. Status-only updates are open to
// any participant; other fields need facilitator or owner.
func (a *API) UpdateActionItem(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		services.ActionItemUpdate
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.ActionItems.Update(c.Param("id"), req.UserID, req.ActionItemUpdate); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteActionItem removes an action item. Facilitator only.
func (a *API) DeleteActionItem(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.ActionItems.Delete(c.Param("id"), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
