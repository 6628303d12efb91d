package monmarche

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	inputValidator *validator.Validate
	validatorOnce  sync.Once
)

// V returns the shared input validator.
func V() *validator.Validate {
	validatorOnce.Do(func() {
		inputValidator = validator.New(validator.WithRequiredStructEnabled())
		inputValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			return jsonName(f.Tag.Get("json"), f.Name)
		})
	})
	return inputValidator
}

// SearchInput holds the arguments of a search.
type SearchInput struct {
	Query string `json:"query" mapstructure:"query" validate:"required,min=1,max=100"`
}

// AddItemInput holds the arguments of an add-to-cart.
type AddItemInput struct {
	ID       string `json:"id" mapstructure:"id" validate:"required"`
	Quantity int    `json:"quantity" mapstructure:"quantity" validate:"gte=1"`
}

// validateInput runs the struct validator and folds the field errors into
// ErrInvalidInput.
func validateInput(v any) error {
	err := V().Struct(v)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ErrInvalidInput.Err(err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return ErrInvalidInput.Msg(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

func jsonName(tag, fallback string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return fallback
	}
	return name
}
