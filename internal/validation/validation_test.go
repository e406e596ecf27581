package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"08031234567", "2348031234567", "+2348031234567", "8031234567"}
	for _, p := range valid {
		assert.NoError(t, ValidatePhoneNumber(p), p)
	}

	invalid := []string{"", "12345", "0803-123-4567", "phone"}
	for _, p := range invalid {
		assert.Error(t, ValidatePhoneNumber(p), p)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("Ada.Obi@Example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("ada@"))
	assert.Error(t, ValidateEmail("ada@example"))
	assert.Error(t, ValidateEmail("a@b@c.com"))
}

func TestValidatePersonName(t *testing.T) {
	assert.NoError(t, ValidatePersonName("first_name", "Chukwuemeka"))
	assert.NoError(t, ValidatePersonName("last_name", "O'Neil-Adeyemi"))
	assert.Error(t, ValidatePersonName("first_name", " "))
	assert.Error(t, ValidatePersonName("first_name", "R2D2"))
}

func TestValidateExternalLink(t *testing.T) {
	assert.NoError(t, ValidateExternalLink("portfolio_link", ""))
	assert.NoError(t, ValidateExternalLink("portfolio_link", "https://github.com/ada"))
	assert.Error(t, ValidateExternalLink("portfolio_link", "ftp://example.com"))
	assert.Error(t, ValidateExternalLink("portfolio_link", "https://"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Secret123"))
	assert.Error(t, ValidatePassword("short1A"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
}
