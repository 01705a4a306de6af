package leads

import "errors"

var (
	// ErrMissingKind is returned when the submission has no type tag
	ErrMissingKind = errors.New("missing type")

	// ErrInvalidEmail is returned when the email is absent or malformed
	ErrInvalidEmail = errors.New("invalid email")

	// ErrMissingBusinessType is returned when a contact-form submission has no business type
	ErrMissingBusinessType = errors.New("missing businessType")

	// ErrMissingMessage is returned when a contact-form submission has no message
	ErrMissingMessage = errors.New("missing message")
)
