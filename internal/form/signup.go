package form

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Messages shown next to registration form fields.
const (
	MsgFieldRequired   = "This field has to be filled."
	MsgPasswordTooWeak = "Password must be at least 8 characters long."
	MsgEmailInvalid    = "This is not a valid email."
	MsgEmailTaken      = "This email is already registered"
)

// MinPasswordLength is the minimum accepted password length, in characters.
const MinPasswordLength = 8

// SignupInput is the typed result of a valid registration form submission.
// The password is carried in plaintext only for the duration of the request;
// the caller is responsible for hashing it before persistence.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// ParseSignup validates raw registration form values. The parsed input is
// returned even when errors are present so the caller can run the
// email-uniqueness lookup and merge its outcome into the same error set.
// Uniqueness is not checked here: it requires a store lookup.
func ParseSignup(values url.Values) (SignupInput, Errors) {
	errs := Errors{}

	in := SignupInput{
		Name:     strings.TrimSpace(values.Get("name")),
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}

	if in.Name == "" {
		errs.Add("name", MsgFieldRequired)
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		errs.Add("password", MsgPasswordTooWeak)
	}
	if in.Email == "" {
		errs.Add("email", MsgFieldRequired)
	} else if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		errs.Add("email", MsgEmailInvalid)
	}

	return in, errs
}
