package hooks

import (
	"net/http"
	"time"

	"github.com/campusgames/fanzone-api/services"
	"github.com/gin-gonic/gin"
)

type StudioMatchesUpdateReq struct {
	MatchID   uint64     `json:"match_id"`
	HomeScore *int       `json:"home_score"`
	AwayScore *int       `json:"away_score"`
	Status    *string    `json:"status"`
	Venue     *string    `json:"venue"`
	StartsAt  *time.Time `json:"starts_at"`
}

func StudioMatchesUpdate(
	scheduleService *services.ScheduleService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StudioMatchesUpdateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

		// Apply the edit
		updated, err := scheduleService.UpdateMatch(match, services.MatchUpdate{
			HomeScore: req.HomeScore,
			AwayScore: req.AwayScore,
			Status:    req.Status,
			Venue:     req.Venue,
			StartsAt:  req.StartsAt,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Return the updated match
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"match": services.NewMatchView(updated),
			},
		})

	}
}
