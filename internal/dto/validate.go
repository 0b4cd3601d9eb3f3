package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/SscSPs/oneflow/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// The same "binding" tags drive gin's request binding and the core-side check below,
// so a request built in code is held to the same rules as one decoded from JSON.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks s against its binding tags. Failures wrap apperrors.ErrValidation.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// Fraction digits the storage columns keep. Finer values are rejected
// rather than rounded so both storage drivers hold the same numbers.
const (
	MoneyScale int32 = 4
	HoursScale int32 = 2
)

func requireScale(field string, v decimal.Decimal, places int32) error {
	if !v.Equal(v.Truncate(places)) {
		return validationErr("%s allows at most %d decimal places", field, places)
	}
	return nil
}

func requireNonNegative(field string, v decimal.Decimal, places int32) error {
	if v.IsNegative() {
		return validationErr("%s must not be negative", field)
	}
	return requireScale(field, v, places)
}

func requirePositive(field string, v decimal.Decimal, places int32) error {
	if !v.IsPositive() {
		return validationErr("%s must be greater than zero", field)
	}
	return requireScale(field, v, places)
}

// ValidateHours checks an hours value logged outside a request struct.
func ValidateHours(hours decimal.Decimal) error {
	return requirePositive("hours", hours, HoursScale)
}

func requireNotBlank(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return validationErr("%s must not be blank", field)
	}
	return nil
}
