package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Registration only fails for empty tags or nil funcs
		_ = v.RegisterValidation("catalogid", func(fl validator.FieldLevel) bool {
			id, ok := fl.Field().Interface().(CatalogID)
			return ok && id.IsValid()
		})
		_ = v.RegisterValidation("releasestatus", func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(ReleaseStatus)
			return ok && s.IsValid()
		})
		_ = v.RegisterValidation("objecttype", func(fl validator.FieldLevel) bool {
			t, ok := fl.Field().Interface().(ObjectType)
			return ok && t.IsValid()
		})

		validate = v
	})
	return validate
}

// validateEntity runs the struct tags of v and converts failures into a *ValidationError
func validateEntity(entity string, v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Entity: entity, Violations: []string{err.Error()}, Err: err}
	}

	verr := &ValidationError{Entity: entity, Err: err}
	for _, fe := range fieldErrs {
		verr.Violations = append(verr.Violations, describeViolation(fe))
		verr.tags = append(verr.tags, fe.Tag())
	}
	return verr
}

func describeViolation(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s element(s) or characters", field, fe.Param())
	case "catalogid":
		return fmt.Sprintf("%s has unknown catalog %q", field, fe.Value())
	case "releasestatus":
		return fmt.Sprintf("%s has invalid release status %v", field, fe.Value())
	case "objecttype":
		return fmt.Sprintf("%s has unknown object type %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
