package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/internal/identity/app"
	"conduit/internal/identity/domain/entities"
)

func TestCredentialValidator_ValidatePassword(t *testing.T) {
	v := app.NewCredentialValidator(nil)

	assert.ErrorIs(t, v.ValidatePassword(strings.Repeat("x", 7)), entities.ErrInvalidPasswordLength)
	assert.NoError(t, v.ValidatePassword(strings.Repeat("x", 8)))
	assert.NoError(t, v.ValidatePassword(strings.Repeat("x", 64)))
	assert.ErrorIs(t, v.ValidatePassword(strings.Repeat("x", 65)), entities.ErrInvalidPasswordLength)
}

func TestCredentialValidator_ValidateEmailFormat(t *testing.T) {
	v := app.NewCredentialValidator(nil)

	valid := []string{
		"alice@example.com",
		"alice.smith+tag@mail.example.co.uk",
		"a_b-c@sub-domain.example.org",
	}
	for _, email := range valid {
		assert.NoError(t, v.ValidateEmailFormat(email), email)
	}

	invalid := []string{
		"",
		"not-an-email",
		"a@b",
		"alice@localhost",
		"alice@",
		"@example.com",
		"alice@exa mple.com",
		"alice@example.com.",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, email := range invalid {
		err := v.ValidateEmailFormat(email)
		require.ErrorIs(t, err, entities.ErrInvalidEmail, email)
		assert.ErrorIs(t, err, entities.ErrValidation)
	}
}

func TestCredentialValidator_Availability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.useCase.Register(ctx, testUsername, testEmail, testPassword)
	require.NoError(t, err)

	v := f.useCase.Validator()

	assert.ErrorIs(t, v.ValidateUsernameAvailable(ctx, testUsername), entities.ErrUsernameTaken)
	assert.NoError(t, v.ValidateUsernameAvailable(ctx, "bob"))
	assert.ErrorIs(t, v.ValidateEmailAvailable(ctx, testEmail), entities.ErrEmailTaken)
	assert.NoError(t, v.ValidateEmailAvailable(ctx, "bob@example.com"))
}

func TestNormalizeIdentifier(t *testing.T) {
	decomposed := "jose\u0301"
	composed := "jos\u00e9"

	require.NotEqual(t, composed, decomposed)
	assert.Equal(t, composed, app.NormalizeIdentifier(decomposed))
	assert.Equal(t, composed, app.NormalizeIdentifier(composed))
	assert.Equal(t, " alice ", app.NormalizeIdentifier(" alice "), "no trimming")
}
