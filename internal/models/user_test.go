package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_HasAnyRole(t *testing.T) {
	user := &User{Roles: []string{RoleUser}}

	assert.True(t, user.HasAnyRole(RoleUser))
	assert.True(t, user.HasAnyRole(RoleAdmin, RoleUser))
	assert.False(t, user.HasAnyRole(RoleAdmin))
	assert.False(t, user.HasAnyRole())
	assert.False(t, (&User{}).HasAnyRole(RoleUser))
}
