package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleMember.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("Admin").Valid())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "teams", Team{}.TableName())
	assert.Equal(t, "team_members", Member{}.TableName())
}
