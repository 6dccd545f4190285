package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNationalID(t *testing.T) {
	valid := []string{"1712345678", "V-12.345.678", " 0912345678 ", "AB1234"}
	invalid := []string{"", "12", "-123456", "12 34 56", "1234567890123456789012345678901234"}

	for _, v := range valid {
		assert.True(t, IsNationalID(v), v)
	}
	for _, v := range invalid {
		assert.False(t, IsNationalID(v), v)
	}
}

func TestIsPhone(t *testing.T) {
	valid := []string{"+593 99 123 4567", "(02) 245-6789", "0991234567"}
	invalid := []string{"", "12345", "phone", "+++", "(((((())))))"}

	for _, v := range valid {
		assert.True(t, IsPhone(v), v)
	}
	for _, v := range invalid {
		assert.False(t, IsPhone(v), v)
	}
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type payload struct {
		NationalID string  `validate:"required,cedula"`
		Phone      *string `validate:"omitempty,telefono"`
	}

	bad := "abc"
	good := "0991234567"
	assert.NoError(t, v.Struct(payload{NationalID: "1712345678"}))
	assert.NoError(t, v.Struct(payload{NationalID: "1712345678", Phone: &good}))
	assert.Error(t, v.Struct(payload{NationalID: "1712345678", Phone: &bad}))
	assert.Error(t, v.Struct(payload{NationalID: "!"}))
}
