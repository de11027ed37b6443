package validate

import (
	"strings"

	"storefront/internal/domain"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed, in form order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "invalid customer info: " + strings.Join(names, ", ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Customer trims every field of ci and checks the checkout form rules.
// It returns the trimmed record, or a *ValidationError.
func Customer(ci domain.CustomerInfo) (domain.CustomerInfo, error) {
	var errs []FieldError
	check := func(field string, ok bool, msg string) {
		if !ok {
			errs = append(errs, FieldError{Field: field, Message: msg})
		}
	}

	var ok bool
	ci.FirstName, ok = MinLen(ci.FirstName, 2)
	check("firstName", ok, "First name must be at least 2 characters")
	ci.LastName, ok = MinLen(ci.LastName, 2)
	check("lastName", ok, "Last name must be at least 2 characters")
	email, ok := Email(ci.Email)
	if ok {
		ci.Email = email
	} else {
		ci.Email = strings.TrimSpace(ci.Email)
	}
	check("email", ok, "Enter a valid email address")
	ci.Phone, ok = Phone(ci.Phone)
	check("phone", ok, "Phone must be at least 10 digits")
	ci.Address, ok = MinLen(ci.Address, 5)
	check("address", ok, "Address must be at least 5 characters")
	ci.City, ok = MinLen(ci.City, 2)
	check("city", ok, "City must be at least 2 characters")
	ci.State, ok = MinLen(ci.State, 2)
	check("state", ok, "State must be at least 2 characters")
	ci.ZipCode, ok = ZIP(ci.ZipCode)
	check("zipCode", ok, "ZIP code must be at least 5 digits")

	if len(errs) > 0 {
		return ci, &ValidationError{Fields: errs}
	}
	return ci, nil
}
