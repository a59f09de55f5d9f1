package commands

import (
	"errors"
	"strings"

	"posttracker/internal/core/domain/model/kernel"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"
	"posttracker/internal/pkg/guard"
)

var ErrCreatePostCommandIsNotConstructed = errors.New(
	"CreatePostCommand must be created via NewCreatePostCommand constructor",
)

// CreatePostCommand is a request to register a new post.
//
// Example:
//
//	cmd, err := NewCreatePostCommand(
//	    "john@example.com", 6.8, 10, 5, 10, "correios", "01001000", "100", "apt 12",
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid post data: %w", err)
//	}
//	p, err := handler.Handle(ctx, cmd)
type CreatePostCommand struct { //nolint:recvcheck //using for validation
	email      string
	parcel     kernel.Parcel
	carrier    string
	postalCode string
	number     string
	complement string

	guard guard.ConstructorGuard
}

// NewCreatePostCommand validates the request fields. Weight and dimensions
// are rounded to two decimals; e-mail format, carrier, postal code and house
// number are checked before any lookup or persistence happens.
func NewCreatePostCommand(
	email string,
	weight, height, width, length float64,
	carrier string,
	postalCode string,
	number string,
	complement string,
) (CreatePostCommand, error) {
	cmd := CreatePostCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setEmail(email),
		cmd.setParcel(weight, height, width, length),
		cmd.setCarrier(carrier),
		cmd.setPostalCode(postalCode),
		cmd.setNumber(number),
	); err != nil {
		return CreatePostCommand{}, err
	}
	cmd.complement = strings.TrimSpace(complement)

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePostCommand) Validate() error {
	return c.guard.Validate(ErrCreatePostCommandIsNotConstructed)
}

func (c CreatePostCommand) Email() string         { return c.email }
func (c CreatePostCommand) Parcel() kernel.Parcel { return c.parcel }
func (c CreatePostCommand) Carrier() string       { return c.carrier }
func (c CreatePostCommand) PostalCode() string    { return c.postalCode }
func (c CreatePostCommand) Number() string        { return c.number }
func (c CreatePostCommand) Complement() string    { return c.complement }

func (c *CreatePostCommand) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if err := post.ValidateEmail(email); err != nil {
		return err
	}
	c.email = email
	return nil
}

func (c *CreatePostCommand) setParcel(weight, height, width, length float64) error {
	parcel, err := kernel.NewParcel(weight, height, width, length)
	if err != nil {
		return err
	}
	c.parcel = parcel
	return nil
}

func (c *CreatePostCommand) setCarrier(carrier string) error {
	carrier = strings.TrimSpace(carrier)
	if carrier == "" {
		return errs.NewValueIsRequiredError("carrier")
	}
	c.carrier = carrier
	return nil
}

func (c *CreatePostCommand) setPostalCode(postalCode string) error {
	postalCode = strings.TrimSpace(postalCode)
	if err := post.ValidatePostalCode(postalCode); err != nil {
		return err
	}
	c.postalCode = postalCode
	return nil
}

func (c *CreatePostCommand) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if err := post.ValidateHouseNumber(number); err != nil {
		return err
	}
	c.number = number
	return nil
}
