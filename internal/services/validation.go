package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	linkPattern  = regexp.MustCompile(`^(https?://)?([\w-]+\.)+[\w-]+(/[\w\-./?%&=#@:+~]*)?$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report field names the way clients send them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("link", func(fl validator.FieldLevel) bool {
		return linkPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("reportstatus", func(fl validator.FieldLevel) bool {
		return models.ReportStatus(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the struct's validate tags and turns the first
// failure into a client-facing Validation error.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Validation("Invalid request")
	}

	var missing []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return apperr.Validationf("Missing required fields: %s", strings.Join(missing, ", "))
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "phone":
		return apperr.Validation("Invalid phone number format")
	case "link":
		return apperr.Validation("Invalid Facebook link format")
	case "reportstatus":
		return apperr.Validation("Invalid status. Must be 'suspended' or 'banned'")
	case "email":
		return apperr.Validation("Invalid email format")
	}
	return apperr.Validation(fmt.Sprintf("Invalid %s", fe.Field()))
}

// trimStrings trims surrounding whitespace from every exported string field
// of the struct s points to.
func trimStrings(s interface{}) {
	v := reflect.ValueOf(s).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}
