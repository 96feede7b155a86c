package store

import (
	"context"

	"github.com/jocoker/cse340/models"
	"gorm.io/gorm"
)

// Classifications returns all classifications ordered by name.
func (s *Store) Classifications(ctx context.Context) ([]models.Classification, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var out []models.Classification
	if err := db.Order("classification_name").Find(&out).Error; err != nil {
		return nil, translate("list classifications", err)
	}
	return out, nil
}

func (s *Store) ClassificationByID(ctx context.Context, id uint) (models.Classification, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var c models.Classification
	if err := db.First(&c, "classification_id = ?", id).Error; err != nil {
		return models.Classification{}, translate("get classification", err)
	}
	return c, nil
}

func (s *Store) AddClassification(ctx context.Context, name string) (models.Classification, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	c := models.Classification{Name: name}
	if err := db.Create(&c).Error; err != nil {
		return models.Classification{}, translate("add classification", err)
	}
	return c, nil
}

func (s *Store) VehiclesByClassification(ctx context.Context, classificationID uint) ([]models.Vehicle, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var out []models.Vehicle
	err := db.Preload("Classification").
		Where("classification_id = ?", classificationID).
		Order("inv_make, inv_model").
		Find(&out).Error
	if err != nil {
		return nil, translate("list inventory by classification", err)
	}
	return out, nil
}

func (s *Store) VehicleByID(ctx context.Context, id uint) (models.Vehicle, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var v models.Vehicle
	if err := db.Preload("Classification").First(&v, "inv_id = ?", id).Error; err != nil {
		return models.Vehicle{}, translate("get inventory item", err)
	}
	return v, nil
}

// AddVehicle inserts v and sets its ID. The classification must exist.
func (s *Store) AddVehicle(ctx context.Context, v *models.Vehicle) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	return translate("add inventory", db.Transaction(func(tx *gorm.DB) error {
		var c models.Classification
		if err := tx.First(&c, "classification_id = ?", v.ClassificationID).Error; err != nil {
			return err
		}
		return tx.Omit("Classification").Create(v).Error
	}))
}

func (s *Store) UpdateVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		var c models.Classification
		if err := tx.First(&c, "classification_id = ?", v.ClassificationID).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Vehicle{}).Where("inv_id = ?", v.ID).Updates(map[string]any{
			"classification_id": v.ClassificationID,
			"inv_make":          v.Make,
			"inv_model":         v.Model,
			"inv_description":   v.Description,
			"inv_image":         v.Image,
			"inv_thumbnail":     v.Thumbnail,
			"inv_price":         v.Price,
			"inv_year":          v.Year,
			"inv_miles":         v.Miles,
			"inv_color":         v.Color,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Preload("Classification").First(&v, "inv_id = ?", v.ID).Error
	})
	if err != nil {
		return models.Vehicle{}, translate("update inventory", err)
	}
	return v, nil
}

// DeleteVehicle removes the vehicle and every favorite pointing at it in one
// transaction.
func (s *Store) DeleteVehicle(ctx context.Context, id uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	return translate("delete inventory", db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("inv_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Where("inv_id = ?", id).Delete(&models.Vehicle{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
