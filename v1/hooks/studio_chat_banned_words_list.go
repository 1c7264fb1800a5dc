package hooks

import (
	"net/http"

	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/services"
	"github.com/gin-gonic/gin"
)

func StudioChatBannedWordsList(
	chatService *services.ChatService,
) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Get all of the banned words
		bannedWords, err := chatService.GetBannedWords()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Serialize the words
		words := make([]map[string]interface{}, 0, len(bannedWords))
		for _, bw := range bannedWords {
			words = append(words, serializeBannedWord(bw))
		}

		// Return the word list
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"banned_words": words,
			},
		})

	}
}

func serializeBannedWord(bw *models.BannedWord) map[string]interface{} {

	// The mute duration is only present when set
	var muteSeconds interface{}
	if bw.TemporaryMuteSeconds.Valid {
		muteSeconds = bw.TemporaryMuteSeconds.Int64
	}

	// Return the map of word info
	return map[string]interface{}{
		"id":                     bw.ID,
		"word":                   bw.Word,
		"temporary_mute_seconds": muteSeconds,
		"permanent_ban":          bw.PermanentBan,
	}
}
