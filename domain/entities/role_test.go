package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleCEO.AtLeast(RoleOperator))
	assert.True(t, RoleOperator.AtLeast(RoleOperator))
	assert.False(t, RoleStaff.AtLeast(RoleOperator))
	assert.False(t, RoleEmployee.AtLeast(RoleStaff))
}

func TestActor_Permissions(t *testing.T) {
	assert.True(t, Actor{UserID: 1, Role: RoleOperator}.CanApprove())
	assert.True(t, Actor{UserID: 1, Role: RoleAdmin}.CanApprove())
	assert.False(t, Actor{UserID: 1, Role: RoleStaff}.CanApprove())

	assert.True(t, Actor{UserID: 1, Role: RoleStaff}.CanRequest())
	assert.False(t, Actor{UserID: 1, Role: RoleEmployee}.CanRequest())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleCEO.Valid())
	assert.False(t, Role("janitor").Valid())
}
