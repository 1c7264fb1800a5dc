package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusgames/fanzone-api/services"
)

type VotesCastReq struct {
	MatchID  uint64 `json:"match_id"`
	DeviceID string `json:"device_id"`
	Team     string `json:"team"`
}

// VotesCast records the device's pick for a match outcome
func VotesCast(
	scheduleService *services.ScheduleService,
	votesService *services.VotesService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req VotesCastReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// The device identifier has to at least be a UUID
		if _, err := uuid.Parse(req.DeviceID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
			return
		}

		// The match has to exist
		match, err := scheduleService.GetMatchByID(req.MatchID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if match == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "match not found"})
			return
		}

		// Cast the vote
		vote, err := votesService.CastVote(match, req.DeviceID, req.Team)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Return the vote
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"vote": services.NewMatchVoteView(vote),
			},
		})

	}
}
