package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/beautyshop/internal/domain"
)

// Form is what the shopper typed on the checkout page. Only the field for the
// selected payment method is read.
type Form struct {
	Customer   domain.Customer `json:"customer"`
	CardNumber string          `json:"card"`
	MpesaPhone string          `json:"mpesaPhone"`
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateCustomer(c domain.Customer) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	fe := fieldErrs[0]
	reason := "is required"
	if fe.Tag() == "email" {
		reason = "is not a valid email address"
	}

	return &ValidationError{Field: fe.Field(), Reason: reason}
}

func cardPayment(number string) (domain.CardPayment, error) {
	if strings.TrimSpace(number) == "" {
		return domain.CardPayment{}, &ValidationError{Field: "card", Reason: "is required"}
	}

	last4, err := domain.CardLast4(number)
	if err != nil {
		return domain.CardPayment{}, &ValidationError{Field: "card", Reason: err.Error()}
	}

	return domain.CardPayment{Last4: last4}, nil
}

func mpesaPhone(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ValidationError{Field: "mpesaPhone", Reason: "is required"}
	}

	phone, err := domain.ValidatePhone(raw)
	if err != nil {
		return "", &ValidationError{Field: "mpesaPhone", Reason: "is not a valid phone number"}
	}

	return phone, nil
}
