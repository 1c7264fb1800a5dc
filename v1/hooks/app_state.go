package hooks

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/services"
)

// AppState returns everything the app needs to boot: the sports with
// their teams, and whatever streams are on air right now.
func AppState(
	scheduleService *services.ScheduleService,
	streamsService *services.StreamsService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get all of the sports
		sports, err := scheduleService.GetSports()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Attach each sport's teams
		sportStates := make([]gin.H, 0, len(sports))
		for _, sport := range sports {
			teams, err := scheduleService.GetTeams(sport.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			teamViews := make([]services.TeamView, 0, len(teams))
			for _, team := range teams {
				teamViews = append(teamViews, services.NewTeamView(team))
			}
			sportStates = append(sportStates, gin.H{
				"sport": services.NewSportView(sport),
				"teams": teamViews,
			})
		}

		// Get the streams currently live
		liveStreams, err := streamsService.GetLiveStreams()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		streamViews := make([]services.StreamView, 0, len(liveStreams))
		for _, stream := range liveStreams {
			streamViews = append(streamViews, services.NewStreamView(stream))
		}

		// Return the app state
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"sports":       sportStates,
				"live_streams": streamViews,
				"server_time":  time.Now().UTC(),
			},
		})

	}
}
