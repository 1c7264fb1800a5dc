package models

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is an organizer login for the studio dashboard. This is staff
// access only; festival visitors chatting and voting never hold accounts.
type Account struct {
	ID           uint64 `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	Name         string
	PasswordHash string
	CreatedDate  time.Time
	DeletedDate  sql.NullTime
}

// SetPassword hashes the plaintext password into PasswordHash.
func (a *Account) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// hash.
func (a *Account) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}
