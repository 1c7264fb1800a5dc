package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/v1/utils"
)

// RequireLogin rejects any request CheckAuth did not resolve to an
// account
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {

		// CheckAuth has already run by this point
		if utils.CtxGetAccount(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}

		c.Next()

	}
}
