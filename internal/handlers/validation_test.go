package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrongPassword(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		password string
		valid    bool
	}{
		{"Password123", true},
		{"Password!", true},
		{"pässWORt#", true},
		{"password123", false},
		{"PASSWORD123", false},
		{"Password", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := validate.Var(tt.password, "strongpassword")
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	validate := newValidator()

	err := validate.Struct(SearchRequest{})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "searchTerm")
	}

	radius := 0
	assert.Error(t, validate.Struct(SearchRequest{SearchTerm: "Bogotá", Radius: &radius}))
	radius = 50000
	assert.NoError(t, validate.Struct(SearchRequest{SearchTerm: "Bogotá", Radius: &radius}))
	assert.NoError(t, validate.Struct(SearchRequest{SearchTerm: "Bogotá"}))
}

func TestBcryptSize(t *testing.T) {
	validate := newValidator()

	assert.NoError(t, validate.Var(strings.Repeat("a", 72), "bcryptsize"))
	assert.Error(t, validate.Var(strings.Repeat("a", 73), "bcryptsize"))

	// 50 runes, 97 bytes
	multibyte := "Aa1" + strings.Repeat("é", 47)
	assert.NoError(t, validate.Var(multibyte, "max=50"))
	assert.Error(t, validate.Var(multibyte, "bcryptsize"))

	err := validate.Struct(RegisterRequest{Name: "Alice", Email: "al@example.com", Password: multibyte})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "bcryptsize")
	}
}

func TestNewValidator_RegistersCustomRules(t *testing.T) {
	assert.NotPanics(t, func() {
		validate := newValidator()
		assert.NoError(t, validate.Var("Password123", "strongpassword,bcryptsize"))
	})
}
