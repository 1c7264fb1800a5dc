package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/services"
	"github.com/campusgames/fanzone-api/v1/utils"
)

// CheckAuth resolves the bearer token, if any, and attaches the
// organizer account to the request. Requests without a valid token pass
// through unauthenticated; RequireLogin decides which routes insist on
// one.
func CheckAuth(authTokensService *services.AuthTokensService) gin.HandlerFunc {
	return func(c *gin.Context) {

		// Pull the token out of the Authorization header
		token := bearerToken(c)
		if len(token) == 0 {
			c.Next()
			return
		}

		// Resolve it to an account. Invalid tokens just leave the request
		// unauthenticated.
		account, err := authTokensService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if account != nil {
			utils.CtxSetAccount(c, account)
		}

		c.Next()

	}
}

// bearerToken gets the token from the Authorization header, or an empty
// string if there isn't one
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
