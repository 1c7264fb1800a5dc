package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/services"
)

type VotesListReq struct {
	MatchID uint64 `json:"match_id"`
}

// VotesList returns every vote on a match, oldest first. This is the
// bulk read clients mirror before applying vote events.
func VotesList(votesService *services.VotesService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req VotesListReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Get the votes
		votes, err := votesService.GetVotes(req.MatchID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Serialize the votes
		views := make([]services.MatchVoteView, 0, len(votes))
		for _, vote := range votes {
			views = append(views, services.NewMatchVoteView(vote))
		}

		// Return the votes
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"votes": views,
			},
		})

	}
}
