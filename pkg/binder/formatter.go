package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
)

const (
	email      = "email"
	gt         = "gt"
	gte        = "gte"
	isbnLoose  = "isbn_loose"
	mx         = "max"
	mn         = "min"
	ne         = "ne"
	oneof      = "oneof"
	required   = "required"
	year       = "year"
	requiredIf = "required_without"
)

var typeNames = map[string]string{
	"string":  "merkkijono",
	"int":     "kokonaisluku",
	"int64":   "kokonaisluku",
	"bool":    "totuusarvo",
	"float64": "luku",
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "tuntematon"
	}
	if name, ok := typeNames[t.String()]; ok {
		return name
	}
	if t.Kind() == reflect.Slice {
		return "lista"
	}
	if t.Kind() == reflect.Struct || t.Kind() == reflect.Map {
		return "objekti"
	}
	return t.String()
}

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("Kentän %q tulee olla tyyppiä %s.", strings.Trim(err.Field, "."), typeName(err.Type))
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("Parametrin %q tulee olla tyyppiä %s.", err.Key, typeName(err.Type))
}

func isNumeric(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func lengthUnit(k reflect.Kind) string {
	if k == reflect.Slice {
		return "alkiota"
	}
	return "merkkiä"
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case email:
		return fmt.Sprintf("Kenttä %q ei ole kelvollinen sähköpostiosoite.", field)
	case gt:
		return fmt.Sprintf("Kentän %q tulee olla suurempi kuin %s.", field, err.Param())
	case gte:
		return fmt.Sprintf("Kentän %q tulee olla vähintään %s.", field, err.Param())
	case isbnLoose:
		return fmt.Sprintf("Kenttä %q ei ole kelvollinen ISBN.", field)
	case mx:
		if isNumeric(err.Kind()) {
			return fmt.Sprintf("Kentän %q tulee olla enintään %s.", field, err.Param())
		}
		return fmt.Sprintf("Kentän %q pituus saa olla enintään %s %s.", field, err.Param(), lengthUnit(err.Kind()))
	case mn:
		if isNumeric(err.Kind()) {
			return fmt.Sprintf("Kentän %q tulee olla vähintään %s.", field, err.Param())
		}
		return fmt.Sprintf("Kentän %q pituuden tulee olla vähintään %s %s.", field, err.Param(), lengthUnit(err.Kind()))
	case ne:
		return fmt.Sprintf("Kenttä %q ei voi olla %q.", field, err.Param())
	case oneof:
		valids := []string{}
		for _, p := range strings.Fields(err.Param()) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return fmt.Sprintf("Kentän %q tulee olla jokin seuraavista: %s.", field, strings.Join(valids, ", "))
	case required, requiredIf:
		return fmt.Sprintf("Kenttä %q puuttuu.", field)
	case year:
		return fmt.Sprintf("Kenttä %q ei ole kelvollinen vuosiluku.", field)
	default:
		return fmt.Sprintf("Kentän %q arvo on virheellinen.", field)
	}
}
