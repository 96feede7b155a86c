package store

import (
	"context"

	"github.com/jocoker/cse340/models"
	"gorm.io/gorm/clause"
)

// SaveFavorite records (account, vehicle). Saving an existing pair is a no-op.
func (s *Store) SaveFavorite(ctx context.Context, accountID, vehicleID uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	fav := models.Favorite{AccountID: accountID, VehicleID: vehicleID}
	err := db.Omit("Vehicle").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "inv_id"}},
		DoNothing: true,
	}).Create(&fav).Error
	return translate("save favorite", err)
}

// RemoveFavorite deletes (account, vehicle). Removing a missing pair is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, accountID, vehicleID uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	err := db.Where("account_id = ? AND inv_id = ?", accountID, vehicleID).Delete(&models.Favorite{}).Error
	return translate("remove favorite", err)
}

// FavoritesByAccount lists the account's favorites, newest first, with the
// vehicle loaded.
func (s *Store) FavoritesByAccount(ctx context.Context, accountID uint) ([]models.Favorite, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var out []models.Favorite
	err := db.Preload("Vehicle").
		Where("account_id = ?", accountID).
		Order("created_at DESC, favorite_id DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list favorites", err)
	}
	return out, nil
}

func (s *Store) IsFavorite(ctx context.Context, accountID, vehicleID uint) (bool, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&models.Favorite{}).
		Where("account_id = ? AND inv_id = ?", accountID, vehicleID).
		Count(&count).Error
	if err != nil {
		return false, translate("check favorite", err)
	}
	return count > 0, nil
}
