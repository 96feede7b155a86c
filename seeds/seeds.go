// Package seeds loads development data (classifications, vehicles and staff
// accounts) from YAML. Seeding is idempotent.
package seeds

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/jocoker/cse340/auth"
	"github.com/jocoker/cse340/models"
	"gorm.io/gorm"
)

//go:embed default.yaml
var defaultFile []byte

type File struct {
	Classifications []string  `yaml:"classifications"`
	Vehicles        []Vehicle `yaml:"vehicles"`
	Accounts        []Account `yaml:"accounts"`
}

type Vehicle struct {
	Classification string  `yaml:"classification"`
	Make           string  `yaml:"make"`
	Model          string  `yaml:"model"`
	Year           int     `yaml:"year"`
	Description    string  `yaml:"description"`
	Image          string  `yaml:"image"`
	Thumbnail      string  `yaml:"thumbnail"`
	Price          float64 `yaml:"price"`
	Miles          int     `yaml:"miles"`
	Color          string  `yaml:"color"`
}

type Account struct {
	FirstName string      `yaml:"firstname"`
	LastName  string      `yaml:"lastname"`
	Email     string      `yaml:"email"`
	Password  string      `yaml:"password"`
	Type      models.Role `yaml:"type"`
}

// Result counts the rows created by one SeedAll run.
type Result struct {
	Classifications int
	Vehicles        int
	Accounts        int
}

// Load reads the seed file at path, or the embedded default when path is
// empty.
func Load(path string) (File, error) {
	data := defaultFile
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return File{}, fmt.Errorf("could not read %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes and checks a seed file.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse seed file: %w", err)
	}

	known := map[string]bool{}
	for _, name := range f.Classifications {
		known[name] = true
	}
	for _, v := range f.Vehicles {
		if !known[v.Classification] {
			return File{}, fmt.Errorf("vehicle %s %s: unknown classification %q", v.Make, v.Model, v.Classification)
		}
	}
	for _, a := range f.Accounts {
		if !a.Type.Valid() {
			return File{}, fmt.Errorf("account %s: invalid type %q", a.Email, a.Type)
		}
		if err := auth.CheckPasswordStrength(a.Password); err != nil {
			return File{}, fmt.Errorf("account %s: %w", a.Email, err)
		}
	}
	return f, nil
}

// SeedAll inserts everything in f that is not there yet, in one transaction.
func SeedAll(ctx context.Context, db *gorm.DB, hasher auth.Hasher, f File) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classIDs := map[string]uint{}
		for _, name := range f.Classifications {
			var c models.Classification
			err := tx.First(&c, "classification_name = ?", name).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c = models.Classification{Name: name}
				if err := tx.Create(&c).Error; err != nil {
					return fmt.Errorf("failed to create classification %s: %w", name, err)
				}
				res.Classifications++
			} else if err != nil {
				return fmt.Errorf("DB error on classification %s: %w", name, err)
			}
			classIDs[name] = c.ID
		}

		for _, sv := range f.Vehicles {
			classID := classIDs[sv.Classification]
			var count int64
			err := tx.Model(&models.Vehicle{}).
				Where("inv_make = ? AND inv_model = ? AND inv_year = ? AND classification_id = ?", sv.Make, sv.Model, sv.Year, classID).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("DB error on vehicle %s %s: %w", sv.Make, sv.Model, err)
			}
			if count > 0 {
				log.Printf("⚠️ Vehicle exists, skipping: %d %s %s", sv.Year, sv.Make, sv.Model)
				continue
			}
			v := models.Vehicle{
				ClassificationID: classID,
				Make:             sv.Make,
				Model:            sv.Model,
				Description:      sv.Description,
				Image:            sv.Image,
				Thumbnail:        sv.Thumbnail,
				Price:            sv.Price,
				Year:             sv.Year,
				Miles:            sv.Miles,
				Color:            sv.Color,
			}
			if err := tx.Omit("Classification").Create(&v).Error; err != nil {
				return fmt.Errorf("failed to create vehicle %s %s: %w", sv.Make, sv.Model, err)
			}
			res.Vehicles++
		}

		for _, sa := range f.Accounts {
			email := auth.NormalizeEmail(sa.Email)
			var count int64
			if err := tx.Model(&models.Account{}).Where("account_email = ?", email).Count(&count).Error; err != nil {
				return fmt.Errorf("DB error on account %s: %w", email, err)
			}
			if count > 0 {
				log.Printf("⚠️ Account exists, skipping: %s", email)
				continue
			}
			digest, err := hasher.Hash(sa.Password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", email, err)
			}
			acct := models.Account{
				FirstName: sa.FirstName,
				LastName:  sa.LastName,
				Email:     email,
				Password:  digest,
				Type:      sa.Type,
			}
			if err := tx.Create(&acct).Error; err != nil {
				return fmt.Errorf("failed to create account %s: %w", email, err)
			}
			res.Accounts++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
