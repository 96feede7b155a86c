package models

import "time"

// Favorite is unique per (account, vehicle); the composite index backs the
// no-op behavior of a repeated save.
type Favorite struct {
	ID        uint      `json:"favorite_id" gorm:"column:favorite_id;primaryKey"`
	AccountID uint      `json:"account_id" gorm:"column:account_id;not null;uniqueIndex:idx_favorite_account_inv"`
	VehicleID uint      `json:"inv_id" gorm:"column:inv_id;not null;uniqueIndex:idx_favorite_account_inv"`
	Vehicle   Vehicle   `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID;references:ID"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Favorite) TableName() string { return "favorite" }

// Tables returns every model in migration order.
func Tables() []any {
	return []any{
		&Account{},
		&Classification{},
		&Vehicle{},
		&Favorite{},
	}
}
