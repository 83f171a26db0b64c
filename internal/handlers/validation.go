package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/giannis84/favorites-admin/internal/models"
)

// FavoriteNamespace prefixes the message keys of the Favorite field names.
const FavoriteNamespace = "favorites.model.entity.favorite.attribute."

// Translator resolves message keys into user-facing texts.
type Translator interface {
	Get(key string, args ...any) string
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their form name so errors line up with the submitted inputs.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// Validate checks the favorite against its declared constraints. Field names
// in messages are resolved as namespace+form name through tr.
func Validate(favorite *models.Favorite, namespace string, tr Translator) error {
	err := structValidator.Struct(favorite)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating favorite: %w", err)
	}

	valErr := &ValidationError{Errors: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		label := tr.Get(namespace + fe.Field())
		valErr.Errors = append(valErr.Errors, FieldError{
			Field:   fe.Field(),
			Message: constraintMessage(tr, fe, label),
		})
	}
	return valErr
}

func constraintMessage(tr Translator, fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return tr.Get("favorites.validation.required", label)
	case "max":
		return tr.Get("favorites.validation.max", label, fe.Param())
	case "url":
		return tr.Get("favorites.validation.url", label)
	default:
		return tr.Get("favorites.validation.invalid", label)
	}
}

// RequestError reports a malformed request parameter.
type RequestError struct {
	Param string
	Value string
	Err   error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request parameter %s=%q: %v", e.Param, e.Value, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ParseID parses a favorite id request parameter. Missing or non-numeric
// values yield a *RequestError.
func ParseID(value string) (int, error) {
	if value == "" {
		return 0, &RequestError{Param: "id", Value: value, Err: errors.New("missing value")}
	}
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, &RequestError{Param: "id", Value: value, Err: err}
	}
	return id, nil
}
