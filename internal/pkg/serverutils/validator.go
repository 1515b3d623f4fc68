package serverutils

import (
	"errors"
	"reflect"
	"strings"

	"library-management-be/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// report json field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// ValidateRequest runs the struct's validate tags. Failures come back as a
// Validation error that still unwraps to validator.ValidationErrors.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(apperror.KindValidation, "invalid request", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return apperror.Wrap(apperror.KindValidation, "invalid fields: "+strings.Join(fields, ", "), verrs)
}

// ValidateVar checks a single value against a tag, e.g. "isbn".
func ValidateVar(value interface{}, tag string) bool {
	return validate.Var(value, tag) == nil
}

func validationDetails(err error) map[string]interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return out
}
