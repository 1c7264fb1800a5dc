package hooks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusgames/fanzone-api/services"
)

type ChatReactReq struct {
	MessageID uint64 `json:"message_id"`
	DeviceID  string `json:"device_id"`
	Emoji     string `json:"emoji"`
}

// ChatReact toggles the device's emoji reaction on a message
func ChatReact(chatService *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ChatReactReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// The device identifier has to at least be a UUID
		if _, err := uuid.Parse(req.DeviceID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
			return
		}

		// Toggle the reaction
		added, err := chatService.ToggleReaction(req.MessageID, req.DeviceID, req.Emoji)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Return whether the reaction is now present
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"added": added,
			},
		})

	}
}
