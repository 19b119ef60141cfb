package validator // import "github.com/truyenhub/truyenhub/validator"

import (
	"github.com/pkg/errors"
)

// Validation failures never reach the gateway; the form surfaces them
// directly, message and all.
var (
	ErrMissingFields    = errors.New("Vui lòng nhập đầy đủ thông tin!")
	ErrPasswordMismatch = errors.New("Mật khẩu nhập lại không khớp!")
)

func ValidateRegister(email, username, password, repeatPassword string) error {
	if email == "" || username == "" || password == "" || repeatPassword == "" {
		return ErrMissingFields
	}
	if password != repeatPassword {
		return ErrPasswordMismatch
	}
	return nil
}

func ValidateLogin(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingFields
	}
	return nil
}

// IsValidationError reports whether err is a client-side form error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields) || errors.Is(err, ErrPasswordMismatch)
}
