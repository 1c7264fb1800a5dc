package hooks

import (
	"net/http"
	"time"

	"github.com/campusgames/fanzone-api/services"
	"github.com/gin-gonic/gin"
)

type StudioMatchesCreateReq struct {
	SportID  uint64    `json:"sport_id"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"starts_at"`
}

func StudioMatchesCreate(
	scheduleService *services.ScheduleService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StudioMatchesCreateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// The sport has to exist
		sport, err := scheduleService.GetSportByID(req.SportID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if sport == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sport not found"})
			return
		}

		// Schedule the match
		match, err := scheduleService.CreateMatch(
			sport.ID,
			req.HomeTeam,
			req.AwayTeam,
			req.Venue,
			req.StartsAt,
		)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Return the new match
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"match": services.NewMatchView(match),
			},
		})

	}
}
