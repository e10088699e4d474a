// Package policy holds the access decision table. Decide is a pure function
// of the actor's claims, the attempted action and a resource descriptor; it
// never touches storage.
package policy

import (
	"github.com/protorh/protorh-api/internal/core/domain"
)

// Denial reasons surfaced to API clients.
const (
	ReasonInvalidRole     = "Invalid role"
	ReasonUnknownAction   = "Unknown action"
	ReasonUpdateOthers    = "You can only update yourself"
	ReasonUpdateName      = "Not allowed to update your name"
	ReasonUpdateRole      = "Not allowed to update your role"
	ReasonNotPermitted    = "not permitted"
	ReasonCreateHRRequest = "You are not allowed to add request rh"
	ReasonHRRequestHidden = "Request RH not visible"
)

var (
	restrictedProfileFields = domain.NewFieldSet(
		domain.FieldEmail,
		domain.FieldFirstname,
		domain.FieldLastname,
		domain.FieldAge,
		domain.FieldRegistrationDate,
		domain.FieldRole,
	)
	fullProfileFields = domain.NewFieldSet(
		domain.FieldEmail,
		domain.FieldFirstname,
		domain.FieldLastname,
		domain.FieldBirthdayDate,
		domain.FieldAddress,
		domain.FieldPostalCode,
		domain.FieldAge,
		domain.FieldMeta,
		domain.FieldRegistrationDate,
		domain.FieldAccountToken,
		domain.FieldRole,
	)
	selfUpdatableFields = domain.NewFieldSet(
		domain.FieldEmail,
		domain.FieldAddress,
		domain.FieldPostalCode,
		domain.FieldBirthdayDate,
	)
	adminUpdatableFields = domain.NewFieldSet(
		domain.FieldEmail,
		domain.FieldFirstname,
		domain.FieldLastname,
		domain.FieldBirthdayDate,
		domain.FieldAddress,
		domain.FieldPostalCode,
		domain.FieldRole,
	)
)

// Resource describes what an action targets.
type Resource struct {
	// TargetID is the identity a profile action applies to. Zero means the
	// actor itself.
	TargetID int64
	// OwnerID and Closed describe an HR request.
	OwnerID int64
	Closed  bool
	// Fields lists the profile fields an update wants to change.
	Fields []domain.Field
}

// Decision is the outcome of Decide. Fields is the readable or writable
// field mask for profile actions and nil otherwise.
type Decision struct {
	Allowed bool
	Fields  domain.FieldSet
	Reason  string
}

// Err converts a denial into a *domain.AccessDeniedError, or returns nil.
func (d Decision) Err(action domain.Action) error {
	if d.Allowed {
		return nil
	}
	return &domain.AccessDeniedError{Action: action, Reason: d.Reason}
}

// Engine evaluates the decision table.
type Engine struct{}

// NewEngine returns a ready Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Decide returns the decision for actor attempting action on res.
func (e *Engine) Decide(actor domain.SessionClaims, action domain.Action, res Resource) Decision {
	if !actor.Role.Valid() {
		return deny(ReasonInvalidRole)
	}

	switch action {
	case domain.ActionReadProfile:
		if actor.Role == domain.RoleAdmin {
			return allow(fullProfileFields)
		}
		return allow(restrictedProfileFields)

	case domain.ActionUpdateProfile:
		return e.decideProfileUpdate(actor, res)

	case domain.ActionManageDepartment, domain.ActionReadDepartment:
		if actor.Role == domain.RoleAdmin {
			return allow(nil)
		}
		return deny(ReasonNotPermitted)

	case domain.ActionCreateHRRequest:
		if actor.Role == domain.RoleManager || actor.Role == domain.RoleAdmin {
			return allow(nil)
		}
		return deny(ReasonCreateHRRequest)

	case domain.ActionReadHRRequest:
		switch {
		case actor.Role == domain.RoleAdmin:
			return allow(nil)
		case res.Closed:
			return deny(ReasonHRRequestHidden)
		case actor.Role == domain.RoleManager, res.OwnerID == actor.SubjectID:
			return allow(nil)
		}
		return deny(ReasonHRRequestHidden)

	case domain.ActionEditHRRequest, domain.ActionCloseHRRequest, domain.ActionManagePicture:
		// Any valid session.
		return allow(nil)
	}

	return deny(ReasonUnknownAction)
}

func (e *Engine) decideProfileUpdate(actor domain.SessionClaims, res Resource) Decision {
	if actor.Role == domain.RoleAdmin {
		return allow(adminUpdatableFields)
	}
	if res.TargetID != 0 && res.TargetID != actor.SubjectID {
		return deny(ReasonUpdateOthers)
	}
	for _, f := range res.Fields {
		if f == domain.FieldFirstname || f == domain.FieldLastname {
			return deny(ReasonUpdateName)
		}
	}
	for _, f := range res.Fields {
		if f == domain.FieldRole {
			return deny(ReasonUpdateRole)
		}
	}
	for _, f := range res.Fields {
		if !selfUpdatableFields.Has(f) {
			return deny(ReasonNotPermitted)
		}
	}
	return allow(selfUpdatableFields)
}

func allow(fields domain.FieldSet) Decision {
	return Decision{Allowed: true, Fields: fields}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
