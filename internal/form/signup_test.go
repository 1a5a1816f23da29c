package form

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupValues(name, email, password string) url.Values {
	return url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	}
}

func TestParseSignup_Valid(t *testing.T) {
	in, errs := ParseSignup(signupValues("Ada", "ada@example.com", "longenough"))
	require.Empty(t, errs)
	assert.Equal(t, "Ada", in.Name)
	assert.Equal(t, "ada@example.com", in.Email)
	assert.Equal(t, "longenough", in.Password)
}

func TestParseSignup_PasswordMinimumLength(t *testing.T) {
	_, errs := ParseSignup(signupValues("Ada", "ada@example.com", "1234567"))
	assert.Equal(t, []string{MsgPasswordTooWeak}, errs["password"])

	_, errs = ParseSignup(signupValues("Ada", "ada@example.com", "12345678"))
	assert.Empty(t, errs)

	// Length counts characters, not bytes.
	_, errs = ParseSignup(signupValues("Ada", "ada@example.com", "ñññññññ"))
	assert.Equal(t, []string{MsgPasswordTooWeak}, errs["password"])

	_, errs = ParseSignup(signupValues("Ada", "ada@example.com", "ññññññññ"))
	assert.Empty(t, errs)
}

func TestParseSignup_RequiresName(t *testing.T) {
	_, errs := ParseSignup(signupValues("", "ada@example.com", "longenough"))
	assert.Equal(t, []string{MsgFieldRequired}, errs["name"])
}

func TestParseSignup_EmailSyntax(t *testing.T) {
	_, errs := ParseSignup(signupValues("Ada", "", "longenough"))
	assert.Equal(t, []string{MsgFieldRequired}, errs["email"])

	for _, email := range []string{"not-an-email", "a@", "Ada <ada@example.com>"} {
		_, errs := ParseSignup(signupValues("Ada", email, "longenough"))
		assert.Equal(t, []string{MsgEmailInvalid}, errs["email"], "email %q", email)
	}
}

func TestParseSignup_ReturnsInputAlongsideErrors(t *testing.T) {
	// The caller needs the email for the uniqueness lookup even when other
	// fields failed.
	in, errs := ParseSignup(signupValues("Ada", "ada@example.com", "short"))
	require.Contains(t, errs, "password")
	assert.Equal(t, "ada@example.com", in.Email)
}
