package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/services"
)

type StreamsListReq struct {
	SportSlug string `json:"sport_slug"`
}

// StreamsList returns a sport's streams, or every live stream when no
// sport is given
func StreamsList(
	scheduleService *services.ScheduleService,
	streamsService *services.StreamsService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StreamsListReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Resolve the sport filter, if one was given
		var streams []*models.Stream
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
			streams, err = streamsService.GetStreams(sport.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		} else {
			var err error
			streams, err = streamsService.GetLiveStreams()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		// Serialize the streams
		views := make([]services.StreamView, 0, len(streams))
		for _, stream := range streams {
			views = append(views, services.NewStreamView(stream))
		}

		// Return the streams
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"streams": views,
			},
		})

	}
}
