package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRegister(t *testing.T) {
	require.NoError(t, ValidateRegister("an@example.com", "an", "secret", "secret"))
	require.ErrorIs(t, ValidateRegister("", "an", "secret", "secret"), ErrMissingFields)
	require.ErrorIs(t, ValidateRegister("an@example.com", "an", "secret", ""), ErrMissingFields)
	require.ErrorIs(t, ValidateRegister("an@example.com", "an", "secret", "other"), ErrPasswordMismatch)
}

func TestValidateLogin(t *testing.T) {
	require.NoError(t, ValidateLogin("an@example.com", "secret"))
	require.ErrorIs(t, ValidateLogin("an@example.com", ""), ErrMissingFields)
	require.True(t, IsValidationError(ValidateLogin("", "")))
}
