package models

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ErrEmptyUpdate is returned when a UserUpdate sets no field.
var ErrEmptyUpdate = errors.New("nothing to update")

// Validate checks the sign-up form before it is sent.
func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// Validate rejects empty updates and malformed values for the fields that are set.
func (u UserUpdate) Validate() error {
	if u.Empty() {
		return ErrEmptyUpdate
	}
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&u.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&u.Password, validation.NilOrNotEmpty),
	)
}

// Credentials is the login form.
type Credentials struct {
	Identifier string
	Secret     string
}

func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Identifier, validation.Required),
		validation.Field(&c.Secret, validation.Required),
	)
}

// ValidateEmail checks a single email address.
func ValidateEmail(email string) error {
	return validation.Validate(email, validation.Required, is.Email)
}
