package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"reader@example.com",
		"first.last@sub.example.org",
		"tag+filter@example.co.uk",
	}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@host",
		"user @example.com",
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Passw0rd"))
	assert.True(t, ValidatePassword("longEnough123"))

	assert.False(t, ValidatePassword("Sh0rt"))
	assert.False(t, ValidatePassword("alllowercase1"))
	assert.False(t, ValidatePassword("ALLUPPERCASE1"))
	assert.False(t, ValidatePassword("NoDigitsHere"))
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "reader@example.com", SanitizeEmail("  Reader@Example.COM "))
	assert.Equal(t, "a@b.co", SanitizeEmail("a@b.co"))
}
