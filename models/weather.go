package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

var weatherLabelPattern = regexp.MustCompile(`^[A-Za-z ]{0,40}$`)

// ValidateWeatherLabel accepts an empty label or a short word label.
func ValidateWeatherLabel(fl validator.FieldLevel) bool {
	return weatherLabelPattern.MatchString(fl.Field().String())
}

func ValidateWeatherLabelRaw(value string) bool {
	return weatherLabelPattern.MatchString(value)
}
