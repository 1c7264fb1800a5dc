package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/campusgames/fanzone-api/models"
)

// tokenIssuer is the iss claim stamped into every session token
const tokenIssuer = "fanzone"

// AuthTokensService issues and validates organizer session tokens
type AuthTokensService struct {
	DB            *gorm.DB
	SigningPepper string
}

// CreateToken creates a signed session token for the account
func (s *AuthTokensService) CreateToken(
	account *models.Account,
	issuedAt time.Time,
	expiresAt time.Time,
) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatUint(account.ID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	return token.SignedString([]byte(s.SigningPepper))
}

// ValidateToken resolves a session token back to its account. A bad,
// expired or orphaned token is not an error, just an unauthenticated
// request, so those return nil with no error.
func (s *AuthTokensService) ValidateToken(tokenStr string) (*models.Account, error) {

	if len(tokenStr) == 0 {
		return nil, nil
	}

	// Parse and verify the signature and expiry
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(s.SigningPepper), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, nil
	}

	// Resolve the subject claim to an account
	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil
	}
	var account models.Account
	dbErr := s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", accountID).
		First(&account).
		Error
	if dbErr != nil {
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbErr
	}
	return &account, nil

}
