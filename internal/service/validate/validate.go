// Package validate holds form rules for signup and new posts.
package validate

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/blogz/internal/apperrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	_ = validate.RegisterValidation("nospace", validateNoSpace)
	_ = validate.RegisterValidation("text", validateText)
}

// Postgres text columns accept only valid UTF-8 without NUL bytes
func validateText(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

func validateNoSpace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

type credentialsForm struct {
	Username string `validate:"text,nospace"`
	Password string `validate:"text,nospace"`
}

type loginForm struct {
	Username string `validate:"text"`
}

// Field order is the order failures are reported in
type signupForm struct {
	Username string `validate:"min=3,max=32"`
	Password string `validate:"min=3"`
	Verify   string `validate:"eqfield=Password"`
}

type postForm struct {
	Title string `validate:"required,text"`
	Body  string `validate:"required,text"`
}

// Credentials rejects usernames or passwords containing whitespace or invalid text
func Credentials(username string, password string) error {
	return firstError(validate.Struct(credentialsForm{Username: username, Password: password}))
}

// Login rejects usernames no user could have signed up with
func Login(username string) error {
	return firstError(validate.Struct(loginForm{Username: username}))
}

// Signup checks lengths (in characters) and that verify matches password.
// The first failing rule wins.
func Signup(username string, password string, verify string) error {
	return firstError(validate.Struct(signupForm{Username: username, Password: password, Verify: verify}))
}

// Post requires both title and body to be non-empty valid text
func Post(title string, body string) error {
	return firstError(validate.Struct(postForm{Title: title, Body: body}))
}

func firstError(err error) error {
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	switch fe.Tag() {
	case "text":
		return apperrors.ErrInvalidText
	case "nospace":
		return apperrors.ErrCredentialsWhitespace
	case "required":
		return apperrors.ErrPostIncomplete
	case "eqfield":
		return apperrors.ErrPasswordMismatch
	}

	switch {
	case fe.Field() == "Username" && fe.Tag() == "min":
		return apperrors.ErrUsernameTooShort
	case fe.Field() == "Username" && fe.Tag() == "max":
		return apperrors.ErrUsernameTooLong
	case fe.Field() == "Password" && fe.Tag() == "min":
		return apperrors.ErrPasswordTooShort
	}

	return err
}
