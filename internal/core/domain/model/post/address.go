package post

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"posttracker/internal/pkg/errs"
)

// ErrAddressIsNotConstructed is returned when an Address was not built by NewAddress or RestoreAddress.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

var (
	postalCodePattern  = regexp.MustCompile(`^\d{8}$`)
	houseNumberPattern = regexp.MustCompile(`(?i)^(\d+|S/N)$`)
)

// Address is the delivery address of a post. It is created once together with
// the post and is read-only afterwards. Text fields are stored upper-cased.
type Address struct {
	id         int64
	postalCode string
	city       string
	state      string
	street     string
	district   string
	number     string
	complement string

	isConstructed bool
}

// ValidatePostalCode checks that code has exactly eight digits.
func ValidatePostalCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("postal code")
	}
	if !postalCodePattern.MatchString(code) {
		return errs.NewValueIsInvalidErrorWithCause(
			"postal code",
			fmt.Errorf("%q must contain exactly 8 digits", code),
		)
	}
	return nil
}

// ValidateHouseNumber accepts digits only or "S/N" (no number).
func ValidateHouseNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return errs.NewValueIsRequiredError("house number")
	}
	if !houseNumberPattern.MatchString(number) {
		return errs.NewValueIsInvalidErrorWithCause(
			"house number",
			fmt.Errorf("%q must contain only digits or S/N", number),
		)
	}
	return nil
}

// NewAddress builds a not-yet-persisted address from the postal code lookup
// result and the caller-provided number and complement.
func NewAddress(postalCode, city, state, street, district, number, complement string) (*Address, error) {
	a := &Address{isConstructed: true}

	if err := errors.Join(
		ValidatePostalCode(postalCode),
		ValidateHouseNumber(number),
		requireText("city", city),
		requireText("state", state),
	); err != nil {
		return nil, err
	}

	a.postalCode = postalCode
	a.city = upper(city)
	a.state = upper(state)
	a.street = upper(street)
	a.district = upper(district)
	a.number = upper(number)
	a.complement = upper(complement)
	return a, nil
}

// RestoreAddress rebuilds a persisted address.
func RestoreAddress(id int64, postalCode, city, state, street, district, number, complement string) (*Address, error) {
	if id <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("address id", fmt.Errorf("%d is not greater than 0", id))
	}

	a, err := NewAddress(postalCode, city, state, street, district, number, complement)
	if err != nil {
		return nil, err
	}
	a.id = id
	return a, nil
}

// Validate returns ErrAddressIsNotConstructed for zero values.
func (a *Address) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAddressIsNotConstructed
	}
	return nil
}

// ID returns the store-assigned id, or 0 before the address is persisted.
func (a *Address) ID() int64 { return a.id }

// PostalCode returns the eight-digit postal code.
func (a *Address) PostalCode() string { return a.postalCode }

// City returns the city name.
func (a *Address) City() string { return a.city }

// State returns the state abbreviation.
func (a *Address) State() string { return a.state }

// Street returns the street name.
func (a *Address) Street() string { return a.street }

// District returns the district (neighbourhood) name.
func (a *Address) District() string { return a.district }

// Number returns the house number or "S/N".
func (a *Address) Number() string { return a.number }

// Complement returns the optional complement, empty when absent.
func (a *Address) Complement() string { return a.complement }

func requireText(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
