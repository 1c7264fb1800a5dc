package services

import (
	"errors"

	"github.com/campusgames/fanzone-api/models"
	"gorm.io/gorm"
)

// AccountsService manages organizer access to the studio dashboard. This
// is staff access, and is unrelated to the device identities in the
// public chat and voting flows.
type AccountsService struct {
	DB *gorm.DB
}

// GetAccountByEmail gets the account with the provided email address
func (s *AccountsService) GetAccountByEmail(email string) (*models.Account, error) {
	var account models.Account
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("email LIKE ?", email).
		First(&account).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountByID gets the account with the provided identifier
func (s *AccountsService) GetAccountByID(accountID uint64) (*models.Account, error) {
	var account models.Account
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", accountID).
		First(&account).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByLogin finds an account with the provided login credentials
func (s *AccountsService) FindByLogin(email, password string) (*models.Account, error) {

	// Find the account with the email
	account, err := s.GetAccountByEmail(email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	// Verify the password
	if !account.VerifyPassword(password) {
		return nil, nil
	}

	// Return the account
	return account, nil

}
