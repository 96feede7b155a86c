package models

type Classification struct {
	ID   uint   `json:"classification_id" gorm:"column:classification_id;primaryKey"`
	Name string `json:"classification_name" gorm:"column:classification_name;not null"`
}

func (Classification) TableName() string { return "classification" }

// Vehicle is a row of the inventory table.
type Vehicle struct {
	ID               uint           `json:"inv_id" gorm:"column:inv_id;primaryKey"`
	ClassificationID uint           `json:"classification_id" gorm:"column:classification_id;not null;index"`
	Classification   Classification `json:"-" gorm:"foreignKey:ClassificationID;references:ID"`
	Make             string         `json:"inv_make" gorm:"column:inv_make;not null"`
	Model            string         `json:"inv_model" gorm:"column:inv_model;not null"`
	Description      string         `json:"inv_description" gorm:"column:inv_description;not null"`
	Image            string         `json:"inv_image" gorm:"column:inv_image;not null"`
	Thumbnail        string         `json:"inv_thumbnail" gorm:"column:inv_thumbnail;not null"`
	Price            float64        `json:"inv_price" gorm:"column:inv_price;not null"`
	Year             int            `json:"inv_year" gorm:"column:inv_year;not null"`
	Miles            int            `json:"inv_miles" gorm:"column:inv_miles;not null"`
	Color            string         `json:"inv_color" gorm:"column:inv_color;not null"`
}

func (Vehicle) TableName() string { return "inventory" }

// Name is the "make model" label used in titles and notices.
func (v Vehicle) Name() string {
	return v.Make + " " + v.Model
}
