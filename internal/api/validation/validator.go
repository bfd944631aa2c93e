package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/mesaverdecleaning/site/internal/api/dto/common"
	"github.com/mesaverdecleaning/site/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9\-+()]*$`)
)

// New returns a validator that reads `binding` tags, reports JSON field
// names and knows the custom contact form rules
func New(services []string) *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	RegisterValidators(v, services)
	return v
}

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate, services []string) {
	v.RegisterValidation("email", validateEmail)
	v.RegisterValidation("phone", validatePhone)
	v.RegisterValidation("contact_method", validateContactMethod)
	v.RegisterValidation("offered_service", offeredService(services))
}

// validateEmail checks if the email is valid
func validateEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// validatePhone allows digits and - + ( ) only; empty is allowed
func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateContactMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.ContactByEmail, models.ContactByPhone:
		return true
	}
	return false
}

// offeredService restricts a field to the configured services. With no
// services configured any value passes.
func offeredService(services []string) validator.Func {
	allowed := make(map[string]struct{}, len(services))
	for _, s := range services {
		allowed[s] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		if len(allowed) == 0 {
			return true
		}
		_, ok := allowed[fl.Field().String()]
		return ok
	}
}

var fieldMessages = map[string]string{
	"name:required":                   "Name is required",
	"email:required":                  "Email is required",
	"email:email":                     "Invalid email address",
	"phone:phone":                     "Invalid phone number",
	"service:required":                "Service selection is required",
	"service:offered_service":         "Unknown service",
	"message:required":                "Message is required",
	"preferredContact:required":       "Preferred contact method is required",
	"preferredContact:contact_method": "Preferred contact must be email or phone",
}

// FormatValidationError turns a validation or decoding error into one entry
// per offending field
func FormatValidationError(err error) []common.FieldError {
	var errs []common.FieldError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			msg, ok := fieldMessages[e.Field()+":"+e.Tag()]
			if !ok {
				msg = "Failed on the '" + e.Tag() + "' rule"
			}
			errs = append(errs, common.FieldError{Field: e.Field(), Message: msg})
		}
		return errs
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []common.FieldError{{Field: typeErr.Field, Message: "Expected a " + typeErr.Type.String()}}
	}

	if err != nil {
		errs = append(errs, common.FieldError{Field: "body", Message: "Malformed JSON body"})
	}
	return errs
}
