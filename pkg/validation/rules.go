package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var assignmentTypes = map[string]bool{
	"PRIMARY":   true,
	"SECONDARY": true,
	"TEMPORARY": true,
	"TRAINING":  true,
}

// registerRules registers the tags used in struct tags.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("not_blank", isNotBlank); err != nil {
		return err
	}
	if err := v.RegisterValidation("assignment_type", isAssignmentType); err != nil {
		return err
	}
	return nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isAssignmentType(fl validator.FieldLevel) bool {
	return assignmentTypes[strings.ToUpper(fl.Field().String())]
}
