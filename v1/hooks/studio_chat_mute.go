package hooks

import (
	"net/http"
	"time"

	"github.com/campusgames/fanzone-api/services"
	"github.com/gin-gonic/gin"
)

type StudioChatMuteReq struct {
	User            services.ChatUserInfo `json:"user"`
	DurationSeconds *int64                `json:"duration_seconds"`
}

func StudioChatMute(
	chatService *services.ChatService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StudioChatMuteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Work out when the mute lapses. No duration mutes forever.
		var untilDate *time.Time
		if req.DurationSeconds != nil {
			until := time.Now().Add(time.Duration(*req.DurationSeconds) * time.Second)
			untilDate = &until
		}

		// Mute the user on the chat
		if _, err := chatService.MuteUser(&req.User, untilDate); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Otherwise return something successfully
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{},
		})

	}
}
