package hooks

import (
	"net/http"
	"time"

	"github.com/campusgames/fanzone-api/services"
	"github.com/gin-gonic/gin"
)

type StudioStreamsUpsertReq struct {
	SportID  uint64    `json:"sport_id"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Channel  string    `json:"channel"`
	Live     bool      `json:"live"`
	StartsAt time.Time `json:"starts_at"`
}

func StudioStreamsUpsert(
	scheduleService *services.ScheduleService,
	streamsService *services.StreamsService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StudioStreamsUpsertReq
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

		// Create or refresh the stream
		stream, err := streamsService.UpsertStream(
			sport.ID,
			req.Title,
			req.URL,
			req.Channel,
			req.Live,
			req.StartsAt,
		)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Return the stream
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"stream": services.NewStreamView(stream),
			},
		})

	}
}
