package controllers

import (
	"errors"
	"net/http"

	"github.com/bellapacxx/retro-backend/models"
	"github.com/bellapacxx/retro-backend/services"
	"github.com/bellapacxx/retro-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

// API bundles the domain services behind the HTTP handlers.
type API struct {
	Users       *services.UserService
	Sessions    *services.SessionService
	Cards       *services.CardService
	Groups      *services.GroupService
	Votes       *services.VoteService
	ActionItems *services.ActionItemService
}

func NewAPI(users *services.UserService, sessions *services.SessionService, cards *services.CardService,
	groups *services.GroupService, votes *services.VoteService, items *services.ActionItemService) *API {
	return &API{
		Users:       users,
		Sessions:    sessions,
		Cards:       cards,
		Groups:      groups,
		Votes:       votes,
		ActionItems: items,
	}
}

// respondError maps domain errors onto HTTP status codes. Unknown errors
// are logged and surfaced as a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrCardNotFound),
		errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrVoteNotFound),
		errors.Is(err, models.ErrActionItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFacilitator),
		errors.Is(err, models.ErrNotAuthor),
		errors.Is(err, models.ErrNotVoteOwner),
		errors.Is(err, models.ErrForbidden),
		errors.Is(err, models.ErrVoteLimitReached),
		errors.Is(err, models.ErrSessionLimitReached),
		errors.Is(err, models.ErrParticipantLimit),
		errors.Is(err, models.ErrPlanRestriction):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrPhaseViolation),
		errors.Is(err, models.ErrAlreadyVoted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidTarget),
		errors.Is(err, models.ErrInvalidTemplate),
		errors.Is(err, models.ErrInvalidPhase),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrTimerNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("unexpected error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
