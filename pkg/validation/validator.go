package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps validator.Validate for echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func New() *CustomValidator {
	return build(nil)
}

// NewWithFieldTag reports field errors under the name found in the given
// struct tag (e.g. "csv" for import rows) instead of the Go field name.
func NewWithFieldTag(tag string) *CustomValidator {
	return build(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func build(nameFunc validator.TagNameFunc) *CustomValidator {
	v := validator.New()
	if nameFunc != nil {
		v.RegisterTagNameFunc(nameFunc)
	}

	registerNullTypes(v)

	// the server must not start without its rules
	if err := registerRules(v); err != nil {
		panic("failed to register validation rules: " + err.Error())
	}

	return &CustomValidator{validator: v}
}
