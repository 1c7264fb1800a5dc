package hooks

import (
	"net/http"

	"github.com/campusgames/fanzone-api/services"
	"github.com/gin-gonic/gin"
)

type StudioChatBannedWordsAddReq struct {
	Word                 string `json:"word"`
	TemporaryMuteSeconds *int64 `json:"temporary_mute_seconds"`
	PermanentBan         bool   `json:"permanent_ban"`
}

func StudioChatBannedWordsAdd(
	chatService *services.ChatService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get the request body
		var req StudioChatBannedWordsAddReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Register the banned word
		bannedWord, err := chatService.AddBannedWord(
			req.Word,
			req.TemporaryMuteSeconds,
			req.PermanentBan,
		)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Return the new word
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"banned_word": serializeBannedWord(bannedWord),
			},
		})

	}
}
