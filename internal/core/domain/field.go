package domain

// Field names a single identity attribute, as exposed on the wire.
type Field string

const (
	FieldEmail            Field = "email"
	FieldFirstname        Field = "firstname"
	FieldLastname         Field = "lastname"
	FieldBirthdayDate     Field = "birthday_date"
	FieldAddress          Field = "address"
	FieldPostalCode       Field = "postal_code"
	FieldAge              Field = "age"
	FieldMeta             Field = "meta"
	FieldRegistrationDate Field = "registration_date"
	FieldAccountToken     Field = "account_token"
	FieldRole             Field = "role"
)

// FieldSet is an unordered set of fields.
type FieldSet map[Field]struct{}

// NewFieldSet builds a FieldSet from the given fields.
func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}
