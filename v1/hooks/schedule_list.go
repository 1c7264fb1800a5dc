package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/services"
)

type ScheduleListReq struct {
	SportSlug string `json:"sport_slug"`
}

// ScheduleList returns the match schedule, for one sport or for the
// whole festival
func ScheduleList(scheduleService *services.ScheduleService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ScheduleListReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Resolve the sport filter, if one was given
		var matches []*models.Match
		if len(req.SportSlug) > 0 {
			sport, err := scheduleService.GetSportBySlug(req.SportSlug)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if sport == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "sport not found"})
				return
			}
			matches, err = scheduleService.GetMatches(sport.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		} else {
			var err error
			matches, err = scheduleService.GetAllMatches()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		// Serialize the matches
		views := make([]services.MatchView, 0, len(matches))
		for _, match := range matches {
			views = append(views, services.NewMatchView(match))
		}

		// Return the schedule
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"matches": views,
			},
		})

	}
}
