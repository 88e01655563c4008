package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/voya/internal/domain"
)

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)
	assert.True(t, h.Compare(hash, "Secret123"))
	assert.False(t, h.Compare(hash, "secret123"))
	assert.False(t, h.Compare("not-a-hash", "Secret123"))
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"Abcdefgh", false},
		{"Passw0rdé", false},
		{"Short1A", true},
		{"alllowercase", true},
		{"ALLUPPERCASE", true},
		{"12345678", true},
		{"", true},
	}
	for _, tc := range tests {
		t.Run(tc.password, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
