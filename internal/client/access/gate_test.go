package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folkz/storeadmin/internal/client/models"
	"github.com/folkz/storeadmin/internal/client/session"
)

func userWithRole(role models.Role) *models.User {
	return &models.User{ID: 1, Email: "u@example.com", Role: role, IsActive: true}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		state    session.State
		required []models.Role
		want     Outcome
	}{
		{
			name:     "loading yields pending even with required roles",
			state:    session.State{Loading: true},
			required: []models.Role{models.RolePlatformAdmin},
			want:     Pending,
		},
		{
			name:  "resolved and anonymous yields signed-out",
			state: session.State{Loading: false},
			want:  SignedOut,
		},
		{
			name:     "role not in required list yields forbidden",
			state:    session.State{User: userWithRole(models.RoleCustomer)},
			required: []models.Role{models.RolePlatformAdmin},
			want:     Forbidden,
		},
		{
			name:     "role in required list yields granted",
			state:    session.State{User: userWithRole(models.RolePlatformAdmin)},
			required: []models.Role{models.RolePlatformAdmin, models.RoleStoreManager},
			want:     Granted,
		},
		{
			name:  "no required roles means any authenticated session",
			state: session.State{User: userWithRole(models.RoleDeliveryPerson)},
			want:  Granted,
		},
		{
			name:     "anonymous beats forbidden",
			state:    session.State{},
			required: []models.Role{models.RolePlatformAdmin},
			want:     SignedOut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.state, tt.required...)
			assert.Equal(t, tt.want, d.Outcome)
		})
	}
}

func TestDecision_MessageNamesRequiredRoles(t *testing.T) {
	d := Decide(session.State{User: userWithRole(models.RoleCustomer)},
		models.RolePlatformAdmin, models.RoleCompanyAdmin)

	assert.Equal(t, Forbidden, d.Outcome)
	assert.Contains(t, d.Message(), "PLATFORM_ADMIN")
	assert.Contains(t, d.Message(), "COMPANY_ADMIN")
}

func TestDecide_ReEvaluatesOnSessionChange(t *testing.T) {
	required := []models.Role{models.RoleStoreManager}

	st := session.State{Loading: true}
	assert.Equal(t, Pending, Decide(st, required...).Outcome)

	st = session.State{User: userWithRole(models.RoleStoreManager)}
	assert.Equal(t, Granted, Decide(st, required...).Outcome)

	st = session.State{}
	assert.Equal(t, SignedOut, Decide(st, required...).Outcome)
}
