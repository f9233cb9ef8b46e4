package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateCard adds a feedback card to a column.
func (a *API) CreateCard(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
		ColumnID  string `json:"column_id" binding:"required"`
		AuthorID  string `json:"author_id" binding:"required"`
		Text      string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := a.Cards.Create(req.SessionID, req.ColumnID, req.AuthorID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

// UpdateCard rewrites a card's text. Author only.
func (a *API) UpdateCard(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Text   string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Cards.Update(c.Param("id"), req.UserID, req.Text); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteCard removes a card and its votes. Author only.
func (a *API) DeleteCard(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Cards.Delete(c.Param("id"), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// MoveCard re-parents a card to a group, or ungroups it when group_id is
// empty.
func (a *API) MoveCard(c *gin.Context) {
	var req struct {
		GroupID string `json:"group_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Cards.MoveToGroup(c.Param("id"), req.GroupID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": true})
}
