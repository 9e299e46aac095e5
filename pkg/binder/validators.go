package binder

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	isbnRE = regexp.MustCompile(`^[0-9]{9}[0-9Xx]$|^[0-9]{13}$`)
)

// isbnValidator accepts an empty value or a 10/13 character ISBN once
// hyphens and spaces are removed. Old Finnish books often have no ISBN.
func isbnValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	value = strings.NewReplacer("-", "", " ", "").Replace(value)
	return isbnRE.MatchString(value)
}

// yearValidator accepts years between the first printed books and a few
// years into the future; zero means "not set".
func yearValidator(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year == 0 || (year >= 1400 && year <= 2100)
}
