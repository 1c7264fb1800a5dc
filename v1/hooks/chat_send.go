package hooks

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusgames/fanzone-api/services"
	"github.com/campusgames/fanzone-api/utils"
)

type ChatSendReq struct {
	SportID  uint64 `json:"sport_id"`
	DeviceID string `json:"device_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ChatSend posts a message to a sport's chat
func ChatSend(
	scheduleService *services.ScheduleService,
	chatService *services.ChatService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req ChatSendReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// The device identifier has to at least be a UUID. There is no
		// verification beyond the shape: senders are whoever they claim
		// to be.
		if _, err := uuid.Parse(req.DeviceID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
			return
		}

		// Tidy and validate the message and display name
		username := strings.TrimSpace(req.Username)
		message := strings.TrimSpace(req.Message)
		if len(username) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}
		if len(message) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
			return
		}
		if len(message) > services.MaxMessageLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is too long"})
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

		// Post the message through the send pipeline
		user := &services.ChatUserInfo{
			DeviceID:  req.DeviceID,
			IpAddress: utils.GetIpAddress(c.Request.Header, c.Request.RemoteAddr),
		}
		msg, err := chatService.PostMessage(sport.ID, user, username, message)
		if err != nil {
			if errors.Is(err, services.ErrMuted) || errors.Is(err, services.ErrMessageBlocked) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Return the stored message
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"message": services.NewChatMessageView(msg),
			},
		})

	}
}
