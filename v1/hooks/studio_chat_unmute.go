package hooks

import (
	"net/http"

	"github.com/campusgames/fanzone-api/services"
	"github.com/gin-gonic/gin"
)

type StudioChatUnmuteReq struct {
	User services.ChatUserInfo `json:"user"`
}

func StudioChatUnmute(
	chatService *services.ChatService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StudioChatUnmuteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Unmute the user on the chat
		if err := chatService.UnmuteUser(&req.User); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Otherwise return something successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
