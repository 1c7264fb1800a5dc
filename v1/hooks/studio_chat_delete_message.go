package hooks

import (
	"net/http"

	"github.com/campusgames/fanzone-api/services"
	"github.com/gin-gonic/gin"
)

type StudioChatDeleteMessageReq struct {
	MessageID uint64 `json:"message_id"`
}

func StudioChatDeleteMessage(
	chatService *services.ChatService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StudioChatDeleteMessageReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Remove the message. Deleting one that is already gone is fine.
		if err := chatService.DeleteMessage(req.MessageID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Otherwise return something successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
