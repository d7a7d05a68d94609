// Package validation registers the custom struct tags shared by request
// binding and the service-level validation boundary.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// TagName is the struct tag used by both gin binding and services.
const TagName = "binding"

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the process-wide validator with custom tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.SetTagName(TagName)
		if err := Register(v); err != nil {
			panic(err)
		}
		instance = v
	})
	return instance
}

// Register adds the cpf and phone_br tags to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return IsValidCPF(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register cpf validation: %w", err)
	}
	if err := v.RegisterValidation("phone_br", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register phone_br validation: %w", err)
	}
	return nil
}

// OnlyDigits strips every non-digit rune.
func OnlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// IsValidCPF checks length, repeated digits and both check digits.
func IsValidCPF(cpf string) bool {
	c := OnlyDigits(cpf)
	if len(c) != 11 {
		return false
	}
	if strings.Count(c, c[:1]) == 11 {
		return false
	}
	check := func(n int) int {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(c[i]-'0') * (n + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			return 0
		}
		return rest
	}
	return check(9) == int(c[9]-'0') && check(10) == int(c[10]-'0')
}

// IsValidPhone accepts 10 or 11 digits (area code plus number).
func IsValidPhone(phone string) bool {
	n := len(OnlyDigits(phone))
	return n == 10 || n == 11
}

// ToValidationError converts validator failures to field-level errors.
// Other errors are returned unchanged.
func ToValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &apperrors.ValidationError{}
	for _, fe := range verrs {
		out.Add(lowerFirst(fe.Field()), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "cpf":
		return "must be a valid CPF"
	case "phone_br":
		return "must have 10 or 11 digits"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date formatted " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must have at least " + fe.Param() + " item(s)"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
