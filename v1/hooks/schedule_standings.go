package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/services"
)

type ScheduleStandingsReq struct {
	SportSlug string `json:"sport_slug"`
}

// ScheduleStandings returns a sport's standings table, derived from its
// finished matches
func ScheduleStandings(scheduleService *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ScheduleStandingsReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Resolve the sport
		sport, err := scheduleService.GetSportBySlug(req.SportSlug)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if sport == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sport not found"})
			return
		}

		// Compute the standings
		standings, err := scheduleService.Standings(sport.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Return the standings
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"sport":     services.NewSportView(sport),
				"standings": standings,
			},
		})

	}
}
