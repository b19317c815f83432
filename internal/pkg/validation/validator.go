package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the process-wide validator. It reads the `binding` tag so
// request DTOs and stored models share one set of rules with gin.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates obj and converts validator errors into an apperrors validation error
func Struct(obj interface{}) error {
	if err := Validator().Struct(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate turns validator.ValidationErrors into a CustomError wrapping
// ErrValidationFailed. Other errors are wrapped as bad requests.
func Translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewCustomError(apperrors.ErrBadRequest, "Invalid request body").
			WithDetails(map[string]interface{}{"error": err.Error()})
	}

	messages := make([]string, 0, len(verrs))
	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		msg := FormatFieldError(fe)
		messages = append(messages, msg)
		details[fieldPath(fe)] = msg
	}

	return apperrors.NewValidationError(strings.Join(messages, ", "), details)
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	field := fieldPath(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return field + " must be at least " + e.Param()
	case "max", "lte":
		if e.Kind() == reflect.String {
			return field + " cannot exceed " + e.Param() + " characters"
		}
		return field + " must be at most " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}

// fieldPath drops the top-level struct name from the namespace, e.g. soilNutrients.pH
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// ginValidator plugs the shared validator into gin's binding
type ginValidator struct{}

// ValidateStruct implements binding.StructValidator
func (ginValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}

	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return ginValidator{}.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		return Validator().Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := (ginValidator{}).ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Engine implements binding.StructValidator
func (ginValidator) Engine() interface{} {
	return Validator()
}

// RegisterWithGin makes gin's ShouldBind* use the shared validator
func RegisterWithGin() {
	binding.Validator = ginValidator{}
}
