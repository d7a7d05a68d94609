package validation

import (
	"errors"
	"testing"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidCPF(t *testing.T) {
	assert.True(t, IsValidCPF("529.982.247-25"))
	assert.True(t, IsValidCPF("52998224725"))
	assert.False(t, IsValidCPF("529.982.247-24"))
	assert.False(t, IsValidCPF("111.111.111-11"))
	assert.False(t, IsValidCPF("1234"))
	assert.False(t, IsValidCPF(""))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("(11) 98765-4321"))
	assert.True(t, IsValidPhone("1134567890"))
	assert.False(t, IsValidPhone("98765-4321"))
}

type sample struct {
	Email string `binding:"required,email"`
	TaxID string `binding:"required,cpf"`
	Phone string `binding:"omitempty,phone_br"`
}

func TestValidator_CustomTags(t *testing.T) {
	err := Validator().Struct(sample{Email: "a@b.co", TaxID: "52998224725", Phone: "11987654321"})
	assert.NoError(t, err)

	err = ToValidationError(Validator().Struct(sample{Email: "nope", TaxID: "123"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "must be a valid CPF", fields["taxID"])
}
