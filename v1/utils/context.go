package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/campusgames/fanzone-api/models"
)

// ctxKeyAccount is the gin context key the authenticated account is
// stored under
const ctxKeyAccount = "auth_account"

// CtxSetAccount attaches the authenticated account to the request
func CtxSetAccount(c *gin.Context, account *models.Account) {
	c.Set(ctxKeyAccount, account)
}

// CtxGetAccount gets the authenticated account from the request, or nil
// if the request is unauthenticated
func CtxGetAccount(c *gin.Context) *models.Account {
	value, ok := c.Get(ctxKeyAccount)
	if !ok {
		return nil
	}
	account, ok := value.(*models.Account)
	if !ok {
		return nil
	}
	return account
}
