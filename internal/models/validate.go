package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// UploadInput carries the user-entered fields of an upload or edit form.
type UploadInput struct {
	Title    string    `validate:"required,max=100"`
	Quote    string    `validate:"required,max=500"`
	Category Category  `validate:"required"`
	Tags     []Emotion `validate:"required,min=1"`
}

// Validate checks the form against the same bounds the service enforces:
// title 1-100 characters, quote 1-500 characters, a storable category and at
// least one known tag with no duplicates.
func (in UploadInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Quote = strings.TrimSpace(in.Quote)

	if err := validate.Struct(in); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("invalid %s field", strings.ToLower(errs[0].Field()))
		}
		return err
	}
	if !in.Category.Valid() {
		return fmt.Errorf("unknown category %q", in.Category)
	}
	seen := make(map[Emotion]bool, len(in.Tags))
	for _, tag := range in.Tags {
		if !tag.Valid() {
			return fmt.Errorf("unknown tag %q", tag)
		}
		if seen[tag] {
			return fmt.Errorf("duplicate tag %q", tag)
		}
		seen[tag] = true
	}
	return nil
}

// SignUpInput carries registration form fields.
type SignUpInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Nickname string `validate:"required,min=2,max=20"`
}

// Validate checks the registration form (nickname 2-20 characters, valid
// email, password at least 6 characters).
func (in SignUpInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			switch errs[0].Field() {
			case "Email":
				return fmt.Errorf("a valid email is required")
			case "Password":
				return fmt.Errorf("password must be at least 6 characters")
			case "Nickname":
				return fmt.Errorf("nickname must be 2-20 characters")
			}
		}
		return err
	}
	return nil
}
