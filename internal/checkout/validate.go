package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/format"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is the checkout page's input: contact fields, the resolved address
// parts and the chosen payment method.
type Form struct {
	FullName         string
	Email            string
	Phone            string
	AddressMain      string
	AddressSecondary string
	PaymentMethod    domain.PaymentMethod
}

// ValidationError carries one message per offending field. While any field
// is invalid, submission issues no network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	return fmt.Sprintf("invalid checkout form: %s", strings.Join(names, ", "))
}

// Validate checks every field and collects all failures at once, so the
// form can mark each offending input inline.
func Validate(form Form) *ValidationError {
	fields := map[string]string{}

	if strings.TrimSpace(form.FullName) == "" {
		fields["full_name"] = "full name is required"
	}
	if strings.TrimSpace(form.Email) == "" {
		fields["email"] = "email is required"
	} else if !emailPattern.MatchString(form.Email) {
		fields["email"] = "email is not valid"
	}
	if strings.TrimSpace(form.Phone) == "" {
		fields["phone"] = "phone is required"
	} else if !format.ValidPhone(form.Phone) {
		fields["phone"] = "phone is not valid"
	}
	if strings.TrimSpace(form.AddressMain) == "" {
		fields["address"] = "address is required"
	}
	switch form.PaymentMethod {
	case domain.PaymentMethodCash, domain.PaymentMethodBank:
	default:
		fields["payment_method"] = "payment method must be selected"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
