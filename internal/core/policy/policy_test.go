package policy_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/policy"
)

func claims(id int64, role domain.Role) domain.SessionClaims {
	return domain.SessionClaims{SubjectID: id, Email: "someone@x.com", Role: role}
}

func TestDecide_Table(t *testing.T) {
	user := claims(1, domain.RoleUser)
	manager := claims(2, domain.RoleManager)
	admin := claims(3, domain.RoleAdmin)

	tests := []struct {
		name    string
		actor   domain.SessionClaims
		action  domain.Action
		res     policy.Resource
		allowed bool
		reason  string
	}{
		{"user reads own profile", user, domain.ActionReadProfile, policy.Resource{TargetID: 1}, true, ""},
		{"user reads other profile", user, domain.ActionReadProfile, policy.Resource{TargetID: 9}, true, ""},
		{"admin reads any profile", admin, domain.ActionReadProfile, policy.Resource{TargetID: 9}, true, ""},

		{"user updates own email", user, domain.ActionUpdateProfile, policy.Resource{Fields: []domain.Field{domain.FieldEmail}}, true, ""},
		{"user updates own address and birthday", user, domain.ActionUpdateProfile, policy.Resource{TargetID: 1, Fields: []domain.Field{domain.FieldAddress, domain.FieldPostalCode, domain.FieldBirthdayDate}}, true, ""},
		{"user updates someone else", user, domain.ActionUpdateProfile, policy.Resource{TargetID: 7, Fields: []domain.Field{domain.FieldEmail}}, false, policy.ReasonUpdateOthers},
		{"user updates own firstname", user, domain.ActionUpdateProfile, policy.Resource{Fields: []domain.Field{domain.FieldFirstname}}, false, policy.ReasonUpdateName},
		{"user updates own lastname", user, domain.ActionUpdateProfile, policy.Resource{Fields: []domain.Field{domain.FieldLastname}}, false, policy.ReasonUpdateName},
		{"user sets own role", user, domain.ActionUpdateProfile, policy.Resource{Fields: []domain.Field{domain.FieldRole}}, false, policy.ReasonUpdateRole},
		{"manager sets own role", manager, domain.ActionUpdateProfile, policy.Resource{Fields: []domain.Field{domain.FieldRole}}, false, policy.ReasonUpdateRole},
		{"admin sets role on other", admin, domain.ActionUpdateProfile, policy.Resource{TargetID: 1, Fields: []domain.Field{domain.FieldRole, domain.FieldFirstname}}, true, ""},

		{"user manages department", user, domain.ActionManageDepartment, policy.Resource{}, false, policy.ReasonNotPermitted},
		{"manager manages department", manager, domain.ActionManageDepartment, policy.Resource{}, false, policy.ReasonNotPermitted},
		{"admin manages department", admin, domain.ActionManageDepartment, policy.Resource{}, true, ""},
		{"manager lists department", manager, domain.ActionReadDepartment, policy.Resource{}, false, policy.ReasonNotPermitted},
		{"admin lists department", admin, domain.ActionReadDepartment, policy.Resource{}, true, ""},

		{"user creates hr request", user, domain.ActionCreateHRRequest, policy.Resource{}, false, policy.ReasonCreateHRRequest},
		{"manager creates hr request", manager, domain.ActionCreateHRRequest, policy.Resource{}, true, ""},
		{"admin creates hr request", admin, domain.ActionCreateHRRequest, policy.Resource{}, true, ""},

		{"admin reads closed request", admin, domain.ActionReadHRRequest, policy.Resource{OwnerID: 1, Closed: true}, true, ""},
		{"manager reads open request", manager, domain.ActionReadHRRequest, policy.Resource{OwnerID: 1}, true, ""},
		{"manager reads closed request", manager, domain.ActionReadHRRequest, policy.Resource{OwnerID: 1, Closed: true}, false, policy.ReasonHRRequestHidden},
		{"user reads own open request", user, domain.ActionReadHRRequest, policy.Resource{OwnerID: 1}, true, ""},
		{"user reads own closed request", user, domain.ActionReadHRRequest, policy.Resource{OwnerID: 1, Closed: true}, false, policy.ReasonHRRequestHidden},
		{"user reads foreign request", user, domain.ActionReadHRRequest, policy.Resource{OwnerID: 2}, false, policy.ReasonHRRequestHidden},

		{"user edits foreign request", user, domain.ActionEditHRRequest, policy.Resource{OwnerID: 2}, true, ""},
		{"user closes foreign request", user, domain.ActionCloseHRRequest, policy.Resource{OwnerID: 2}, true, ""},

		{"unknown role", claims(4, domain.Role("root")), domain.ActionReadProfile, policy.Resource{}, false, policy.ReasonInvalidRole},
		{"unknown action", admin, domain.Action("payroll.run"), policy.Resource{}, false, policy.ReasonUnknownAction},
	}

	engine := policy.NewEngine()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := engine.Decide(tc.actor, tc.action, tc.res)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.reason, d.Reason)

			// Same input, same answer.
			assert.Equal(t, d, engine.Decide(tc.actor, tc.action, tc.res))
		})
	}
}

func TestDecide_ProfileFieldMasks(t *testing.T) {
	engine := policy.NewEngine()

	restricted := engine.Decide(claims(1, domain.RoleUser), domain.ActionReadProfile, policy.Resource{TargetID: 1})
	require.True(t, restricted.Allowed)
	for _, f := range []domain.Field{domain.FieldEmail, domain.FieldFirstname, domain.FieldLastname, domain.FieldAge, domain.FieldRegistrationDate, domain.FieldRole} {
		assert.True(t, restricted.Fields.Has(f), "restricted view should expose %s", f)
	}
	for _, f := range []domain.Field{domain.FieldAddress, domain.FieldPostalCode, domain.FieldAccountToken, domain.FieldBirthdayDate, domain.FieldMeta} {
		assert.False(t, restricted.Fields.Has(f), "restricted view should hide %s", f)
	}

	full := engine.Decide(claims(3, domain.RoleAdmin), domain.ActionReadProfile, policy.Resource{TargetID: 1})
	assert.True(t, full.Fields.Has(domain.FieldAccountToken))
	assert.True(t, full.Fields.Has(domain.FieldAddress))

	self := engine.Decide(claims(1, domain.RoleUser), domain.ActionUpdateProfile, policy.Resource{})
	require.True(t, self.Allowed)
	assert.Len(t, self.Fields, 4)
	assert.False(t, self.Fields.Has(domain.FieldRole))

	adm := engine.Decide(claims(3, domain.RoleAdmin), domain.ActionUpdateProfile, policy.Resource{TargetID: 1})
	assert.True(t, adm.Fields.Has(domain.FieldRole))
}

func TestDecision_Err(t *testing.T) {
	engine := policy.NewEngine()

	d := engine.Decide(claims(1, domain.RoleUser), domain.ActionUpdateProfile, policy.Resource{Fields: []domain.Field{domain.FieldRole}})
	err := d.Err(domain.ActionUpdateProfile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	var denied *domain.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, domain.ActionUpdateProfile, denied.Action)
	assert.Equal(t, policy.ReasonUpdateRole, denied.Error())

	ok := engine.Decide(claims(3, domain.RoleAdmin), domain.ActionUpdateProfile, policy.Resource{Fields: []domain.Field{domain.FieldRole}})
	assert.NoError(t, ok.Err(domain.ActionUpdateProfile))
}
