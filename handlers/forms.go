package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jocoker/cse340/auth"
	"github.com/jocoker/cse340/models"
)

// formValidator runs validate tags and reports failures under the form
// field names.
type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return auth.CheckPasswordStrength(fl.Field().String()) == nil
	})
	return &formValidator{v: v}
}

// check validates form and maps every failing field to its message. The
// result is nil when the form is valid.
func (fv *formValidator) check(form any, messages map[string]string) *models.ValidationError {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.NewValidationError("", err.Error())
	}
	out := &models.ValidationError{}
	seen := map[string]bool{}
	for _, fe := range fieldErrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = fe.Field() + " is invalid."
		}
		out.Add(fe.Field(), msg)
	}
	return out
}

type registerForm struct {
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname" validate:"required,min=2"`
	Email     string `form:"account_email" validate:"required,email"`
	Password  string `form:"account_password" validate:"strongpassword"`
}

var registerMessages = map[string]string{
	"account_firstname": "Please provide a first name.",
	"account_lastname":  "Please provide a last name.",
	"account_email":     "A valid email is required.",
	"account_password":  "Password does not meet requirements.",
}

func (f *registerForm) normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = auth.NormalizeEmail(f.Email)
}

type loginForm struct {
	Email    string `form:"account_email" validate:"required,email"`
	Password string `form:"account_password" validate:"required"`
}

var loginMessages = map[string]string{
	"account_email":    "A valid email is required.",
	"account_password": "Password is required.",
}

func (f *loginForm) normalize() {
	f.Email = auth.NormalizeEmail(f.Email)
}

type accountForm struct {
	AccountID string `form:"account_id"`
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname" validate:"required"`
	Email     string `form:"account_email" validate:"required,email"`
}

var accountMessages = map[string]string{
	"account_firstname": "First name is required.",
	"account_lastname":  "Last name is required.",
	"account_email":     "A valid email is required.",
}

func (f *accountForm) normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = auth.NormalizeEmail(f.Email)
}

type passwordForm struct {
	AccountID string `form:"account_id"`
	Password  string `form:"account_password" validate:"strongpassword"`
}

var passwordMessages = map[string]string{
	"account_password": "Password does not meet requirements.",
}

type classificationForm struct {
	Name string `form:"classification_name" validate:"required,alphanum"`
}

var classificationMessages = map[string]string{
	"classification_name": "Classification name must be alphanumeric with no spaces or special characters.",
}

// vehicleForm keeps the raw submitted strings so a rejected form is
// re-rendered exactly as typed.
type vehicleForm struct {
	InvID            string `form:"inv_id"`
	ClassificationID string `form:"classification_id" validate:"required,number"`
	Make             string `form:"inv_make" validate:"required"`
	Model            string `form:"inv_model" validate:"required"`
	Description      string `form:"inv_description" validate:"required"`
	Image            string `form:"inv_image" validate:"required"`
	Thumbnail        string `form:"inv_thumbnail" validate:"required"`
	Price            string `form:"inv_price" validate:"required,numeric"`
	Year             string `form:"inv_year" validate:"required,number"`
	Miles            string `form:"inv_miles" validate:"required,number"`
	Color            string `form:"inv_color" validate:"required"`
}

const (
	msgClassificationRequired = "Classification is required."
	msgPriceInvalid           = "Valid price is required."
	msgYearInvalid            = "Valid year is required."
	msgMilesInvalid           = "Miles must be 0 or more."
	minVehicleYear            = 1885
)

var vehicleMessages = map[string]string{
	"classification_id": msgClassificationRequired,
	"inv_make":          "Make is required.",
	"inv_model":         "Model is required.",
	"inv_description":   "Description is required.",
	"inv_image":         "Image path is required.",
	"inv_thumbnail":     "Thumbnail path is required.",
	"inv_price":         msgPriceInvalid,
	"inv_year":          msgYearInvalid,
	"inv_miles":         msgMilesInvalid,
	"inv_color":         "Color is required.",
}

func (f *vehicleForm) normalize() {
	for _, s := range []*string{
		&f.InvID, &f.ClassificationID, &f.Make, &f.Model, &f.Description,
		&f.Image, &f.Thumbnail, &f.Price, &f.Year, &f.Miles, &f.Color,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// vehicle converts a form that passed check into a Vehicle, applying the
// numeric range rules.
func (f vehicleForm) vehicle() (models.Vehicle, *models.ValidationError) {
	verr := &models.ValidationError{}
	v := models.Vehicle{
		Make:        f.Make,
		Model:       f.Model,
		Description: f.Description,
		Image:       f.Image,
		Thumbnail:   f.Thumbnail,
		Color:       f.Color,
	}

	if id, err := strconv.ParseUint(f.InvID, 10, 64); err == nil {
		v.ID = uint(id)
	}
	if id, err := strconv.ParseUint(f.ClassificationID, 10, 64); err != nil || id == 0 {
		verr.Add("classification_id", msgClassificationRequired)
	} else {
		v.ClassificationID = uint(id)
	}
	if price, err := strconv.ParseFloat(f.Price, 64); err != nil || price < 0 {
		verr.Add("inv_price", msgPriceInvalid)
	} else {
		v.Price = price
	}
	if year, err := strconv.Atoi(f.Year); err != nil || year < minVehicleYear {
		verr.Add("inv_year", msgYearInvalid)
	} else {
		v.Year = year
	}
	if miles, err := strconv.Atoi(f.Miles); err != nil || miles < 0 {
		verr.Add("inv_miles", msgMilesInvalid)
	} else {
		v.Miles = miles
	}

	if !verr.Empty() {
		return models.Vehicle{}, verr
	}
	return v, nil
}

// mergeFieldErrors keeps the first message reported for each field.
func mergeFieldErrors(errs ...*models.ValidationError) *models.ValidationError {
	out := &models.ValidationError{}
	seen := map[string]bool{}
	for _, e := range errs {
		if e == nil {
			continue
		}
		for _, fe := range e.Errors {
			if seen[fe.Field] {
				continue
			}
			seen[fe.Field] = true
			out.Add(fe.Field, fe.Message)
		}
	}
	return out
}

func vehicleFormFrom(v models.Vehicle) vehicleForm {
	return vehicleForm{
		InvID:            strconv.FormatUint(uint64(v.ID), 10),
		ClassificationID: strconv.FormatUint(uint64(v.ClassificationID), 10),
		Make:             v.Make,
		Model:            v.Model,
		Description:      v.Description,
		Image:            v.Image,
		Thumbnail:        v.Thumbnail,
		Price:            strconv.FormatFloat(v.Price, 'f', -1, 64),
		Year:             strconv.Itoa(v.Year),
		Miles:            strconv.Itoa(v.Miles),
		Color:            v.Color,
	}
}

type favoriteForm struct {
	InvID string `form:"inv_id" validate:"required,number"`
}

const msgInvalidVehicle = "Invalid vehicle."

// parseID reads a positive integer path or form value.
func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
