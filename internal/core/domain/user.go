package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of actor roles carried by identities and session claims.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", &ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", s)}
	}
	return r, nil
}

// MaxEmailLength is the longest email address accepted for an identity.
const MaxEmailLength = 320

// MinPasswordLength is the shortest raw password accepted at registration
// and on password change.
const MinPasswordLength = 8

// Identity models a registered employee account.
type Identity struct {
	ID               int64          `json:"id"`
	Email            string         `json:"email"`
	PasswordDigest   string         `json:"-"`
	Firstname        string         `json:"firstname"`
	Lastname         string         `json:"lastname"`
	BirthdayDate     time.Time      `json:"birthday_date"`
	Address          string         `json:"address"`
	PostalCode       string         `json:"postal_code"`
	Age              int            `json:"age"`
	Meta             map[string]any `json:"meta"`
	RegistrationDate time.Time      `json:"registration_date"`
	// AccountToken is derived once at creation and never recomputed, even
	// when the email or names it was derived from change later.
	AccountToken string `json:"account_token"`
	Role         Role   `json:"role"`
}

// IdentityPatch carries the optional fields of a profile update. Nil
// pointers are left untouched.
type IdentityPatch struct {
	Email        *string
	Firstname    *string
	Lastname     *string
	BirthdayDate *time.Time
	Age          *int
	Address      *string
	PostalCode   *string
	Role         *Role
}

// Fields lists the profile fields the patch would change.
func (p IdentityPatch) Fields() []Field {
	var out []Field
	if p.Email != nil {
		out = append(out, FieldEmail)
	}
	if p.Firstname != nil {
		out = append(out, FieldFirstname)
	}
	if p.Lastname != nil {
		out = append(out, FieldLastname)
	}
	if p.BirthdayDate != nil {
		out = append(out, FieldBirthdayDate)
	}
	if p.Address != nil {
		out = append(out, FieldAddress)
	}
	if p.PostalCode != nil {
		out = append(out, FieldPostalCode)
	}
	if p.Role != nil {
		out = append(out, FieldRole)
	}
	return out
}

// Empty reports whether the patch changes nothing.
func (p IdentityPatch) Empty() bool {
	return len(p.Fields()) == 0
}

// SessionClaims is the decoded, time-bounded identity assertion carried by
// a signed session token. It has no storage of its own.
type SessionClaims struct {
	SubjectID int64
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// MemberSummary is the short identity view returned by department
// membership operations.
type MemberSummary struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// CalculateAge returns the age in whole years at today for the given birthday.
func CalculateAge(birthday, today time.Time) int {
	age := today.Year() - birthday.Year()
	if today.Month() < birthday.Month() ||
		(today.Month() == birthday.Month() && today.Day() < birthday.Day()) {
		age--
	}
	return age
}

// Today truncates t to a UTC calendar date.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
