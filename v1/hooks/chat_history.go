package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/services"
)

// defaultHistoryLength is how many messages come back when the client
// doesn't ask for a specific amount
const defaultHistoryLength = 50

// maxHistoryLength caps how far back one request can reach
const maxHistoryLength = 200

type ChatHistoryReq struct {
	SportID uint64 `json:"sport_id"`
	Limit   int    `json:"limit"`
}

// ChatHistory returns the recent messages in a sport's chat, oldest
// first
func ChatHistory(chatService *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ChatHistoryReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Clamp the limit
		limit := req.Limit
		if limit <= 0 {
			limit = defaultHistoryLength
		}
		if limit > maxHistoryLength {
			limit = maxHistoryLength
		}

		// Get the messages
		messages, err := chatService.GetMessages(req.SportID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Serialize the messages
		views := make([]services.ChatMessageView, 0, len(messages))
		for _, msg := range messages {
			views = append(views, services.NewChatMessageView(msg))
		}

		// Return the history
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"messages": views,
			},
		})

	}
}
