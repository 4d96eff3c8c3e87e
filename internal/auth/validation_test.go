package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Abcdef1!", true},
		{"abcdefgh", false},
		{"ABCDEFG1!", false},
		{"Abcdefgh", false},
		{"Abcdef1", false},
		{"Ab1!", false},
		{"Sup3r$ecret", true},
	}

	for _, tc := range cases {
		t.Run(tc.password, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidatePassword(tc.password))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("jane@museum.org"))
	assert.False(t, ValidateEmail("jane@museum"))
	assert.False(t, ValidateEmail("not an email"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateFullName(t *testing.T) {
	assert.True(t, ValidateFullName("Jane Doe"))
	assert.True(t, ValidateFullName("  Jane   van Doe "))
	assert.False(t, ValidateFullName("Jane"))
	assert.False(t, ValidateFullName(""))
}

func TestValidateUserType(t *testing.T) {
	assert.True(t, ValidateUserType("museum"))
	assert.True(t, ValidateUserType("individual"))
	assert.False(t, ValidateUserType("curator"))
	assert.False(t, ValidateUserType(""))
}

func TestConfirmPasswordMatch(t *testing.T) {
	assert.True(t, ConfirmPasswordMatch("Abcdef1!", "Abcdef1!"))
	assert.False(t, ConfirmPasswordMatch("Abcdef1!", "Abcdef1?"))
}

func TestValidateTerms(t *testing.T) {
	assert.True(t, ValidateTerms(true))
	assert.False(t, ValidateTerms(false))
}
