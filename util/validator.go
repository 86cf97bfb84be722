package util

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/hkaplan/crisispin/internal/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)
	validate.RegisterValidation("finite", validateFinite)
	validate.RegisterValidation("maincategory", validateMainCategory)
	validate.RegisterValidation("subtype", validateSubType)
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90 && lat <= 90
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180 && lon <= 180
}

func validateFinite(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateMainCategory(fl validator.FieldLevel) bool {
	return model.IsMainCategory(fl.Field().String())
}

func validateSubType(fl validator.FieldLevel) bool {
	return model.IsSubType(fl.Field().String())
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FieldError is one field-level validation failure, reported back to the
// client in a 400 body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors flattens a validator error into field-level detail.
func FieldErrors(err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Namespace(),
			Message: fieldErrorMessage(fe),
		})
	}
	return out
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must have exactly %s elements", fe.Param())
	case "finite":
		return "must be a finite number"
	case "maincategory":
		return "is not a known main category"
	case "subtype":
		return "is not a known sub type"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
