package store

import (
	"context"

	"github.com/jocoker/cse340/models"
)

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.Account{}).Where("account_email = ?", email).Count(&count).Error; err != nil {
		return false, translate("check existing email", err)
	}
	return count > 0, nil
}

// CreateAccount inserts acct and sets its ID. An empty role defaults to Client.
func (s *Store) CreateAccount(ctx context.Context, acct *models.Account) error {
	if acct.Type == "" {
		acct.Type = models.RoleClient
	}
	db, cancel := s.conn(ctx)
	defer cancel()
	return translate("register account", db.Create(acct).Error)
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var acct models.Account
	if err := db.Where("account_email = ?", email).First(&acct).Error; err != nil {
		return models.Account{}, translate("get account by email", err)
	}
	return acct, nil
}

func (s *Store) AccountByID(ctx context.Context, id uint) (models.Account, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var acct models.Account
	if err := db.First(&acct, "account_id = ?", id).Error; err != nil {
		return models.Account{}, translate("get account by id", err)
	}
	return acct, nil
}

func (s *Store) UpdateAccount(ctx context.Context, id uint, firstName, lastName, email string) (models.Account, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&models.Account{}).Where("account_id = ?", id).Updates(map[string]any{
		"account_firstname": firstName,
		"account_lastname":  lastName,
		"account_email":     email,
	})
	if res.Error != nil {
		return models.Account{}, translate("update account", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Account{}, models.ErrNotFound
	}

	var acct models.Account
	if err := db.First(&acct, "account_id = ?", id).Error; err != nil {
		return models.Account{}, translate("reload account", err)
	}
	return acct, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id uint, digest string) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&models.Account{}).Where("account_id = ?", id).Update("account_password", digest)
	if res.Error != nil {
		return translate("update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
