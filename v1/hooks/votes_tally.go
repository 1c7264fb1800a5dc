package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/services"
)

type VotesTallyReq struct {
	MatchID uint64 `json:"match_id"`
}

// VotesTally returns the per-team vote counts for a match, served from
// the live mirror rather than a table scan
func VotesTally(tallyService *services.TallyService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req VotesTallyReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Count the votes
		counts, err := tallyService.Tally(req.MatchID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		total := 0
		for _, count := range counts {
			total += count
		}

		// Return the tally
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"counts": counts,
				"total":  total,
			},
		})

	}
}
