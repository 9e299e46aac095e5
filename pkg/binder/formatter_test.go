package binder

import (
	"reflect"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
)

type mockFieldError struct {
	tag   string
	field string
	param string
	kind  reflect.Kind
}

func (e *mockFieldError) Error() string           { return "Mock Field Error" }
func (e *mockFieldError) Tag() string             { return e.tag }
func (e *mockFieldError) ActualTag() string       { return e.tag }
func (e *mockFieldError) Namespace() string       { return "" }
func (e *mockFieldError) StructNamespace() string { return "" }
func (e *mockFieldError) Field() string           { return e.field }
func (e *mockFieldError) StructField() string     { return "" }
func (e *mockFieldError) Value() interface{}      { return "" }
func (e *mockFieldError) Param() string           { return e.param }
func (e *mockFieldError) Kind() reflect.Kind {
	if e.kind == 0 {
		return reflect.String
	}
	return e.kind
}
func (e *mockFieldError) Type() reflect.Type               { return reflect.TypeOf("") }
func (e *mockFieldError) Translate(_ ut.Translator) string { return "" }

func TestFormatValidationError(t *testing.T) {
	cases := []struct {
		tag   string
		param string
		kind  reflect.Kind
		msg   string
	}{
		{email, "", 0, `Kenttä "orig_title" ei ole kelvollinen sähköpostiosoite.`},
		{gt, "0", 0, `Kentän "orig_title" tulee olla suurempi kuin 0.`},
		{mx, "20", reflect.String, `Kentän "orig_title" pituus saa olla enintään 20 merkkiä.`},
		{mn, "2", reflect.String, `Kentän "orig_title" pituuden tulee olla vähintään 2 merkkiä.`},
		{mx, "50", reflect.Int, `Kentän "orig_title" tulee olla enintään 50.`},
		{mn, "1", reflect.Int64, `Kentän "orig_title" tulee olla vähintään 1.`},
		{mx, "5", reflect.Slice, `Kentän "orig_title" pituus saa olla enintään 5 alkiota.`},
		{ne, "", 0, `Kenttä "orig_title" ei voi olla "".`},
		{oneof, "a b", 0, `Kentän "orig_title" tulee olla jokin seuraavista: "a", "b".`},
		{required, "", 0, `Kenttä "orig_title" puuttuu.`},
		{year, "", reflect.Int, `Kenttä "orig_title" ei ole kelvollinen vuosiluku.`},
		{"unknown_tag", "", 0, `Kentän "orig_title" arvo on virheellinen.`},
	}

	for _, tc := range cases {
		t.Run(tc.tag, func(tt *testing.T) {
			err := &mockFieldError{tag: tc.tag, field: "orig_title", param: tc.param, kind: tc.kind}
			assert.Equal(tt, tc.msg, formatValidationError(err))
		})
	}
}
