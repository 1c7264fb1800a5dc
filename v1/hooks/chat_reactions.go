package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/services"
)

type ChatReactionsReq struct {
	MessageID uint64 `json:"message_id"`
}

// ChatReactions returns a message's reactions along with their per-emoji
// counts
func ChatReactions(chatService *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ChatReactionsReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Get the reactions
		reactions, err := chatService.GetReactions(req.MessageID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Serialize the reactions
		views := make([]services.ChatReactionView, 0, len(reactions))
		for _, r := range reactions {
			views = append(views, services.NewChatReactionView(r))
		}

		// Return the reactions and their counts
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"reactions": views,
				"counts":    services.CountReactions(reactions),
			},
		})

	}
}
