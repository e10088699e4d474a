package handler

import (
	"strings"
	"time"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toRegisterInput(req registerRequest) (ports.RegisterInput, error) {
	birthday, err := parseDate(req.BirthdayDate)
	if err != nil {
		return ports.RegisterInput{}, err
	}
	address := req.Address
	if address == "" {
		address = req.Adress
	}
	return ports.RegisterInput{
		Email:        strings.TrimSpace(req.Email),
		Password:     req.Password,
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		BirthdayDate: birthday,
		Address:      address,
		PostalCode:   req.PostalCode,
	}, nil
}

// toUpdateInput builds a patch. Empty strings count as absent.
func toUpdateInput(req updateUserRequest) (ports.UpdateProfileInput, error) {
	patch := domain.IdentityPatch{
		Email:      present(req.Email),
		Firstname:  present(req.Firstname),
		Lastname:   present(req.Lastname),
		Address:    present(req.Address),
		PostalCode: present(req.PostalCode),
	}
	if patch.Address == nil {
		patch.Address = present(req.Adress)
	}
	if s := present(req.BirthdayDate); s != nil {
		birthday, err := parseDate(*s)
		if err != nil {
			return ports.UpdateProfileInput{}, err
		}
		patch.BirthdayDate = &birthday
	}
	if s := present(req.Role); s != nil {
		role := domain.Role(*s)
		patch.Role = &role
	}
	return ports.UpdateProfileInput{TargetID: req.ID, Patch: patch}, nil
}

func present(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "birthday_date", Reason: "Invalid date, expected YYYY-MM-DD"}
	}
	return t, nil
}

// --- Service result → HTTP response ---

// toProfileResponse renders the readable subset of an identity. id is
// always present.
func toProfileResponse(v *ports.ProfileView) profileResponse {
	i := v.Identity
	out := profileResponse{"id": i.ID}
	for field := range v.Fields {
		switch field {
		case domain.FieldEmail:
			out[string(field)] = i.Email
		case domain.FieldFirstname:
			out[string(field)] = i.Firstname
		case domain.FieldLastname:
			out[string(field)] = i.Lastname
		case domain.FieldBirthdayDate:
			out[string(field)] = formatOptionalDate(i.BirthdayDate)
		case domain.FieldAddress:
			out[string(field)] = i.Address
		case domain.FieldPostalCode:
			out[string(field)] = i.PostalCode
		case domain.FieldAge:
			out[string(field)] = i.Age
		case domain.FieldMeta:
			meta := i.Meta
			if meta == nil {
				meta = map[string]any{}
			}
			out[string(field)] = meta
		case domain.FieldRegistrationDate:
			out[string(field)] = formatOptionalDate(i.RegistrationDate)
		case domain.FieldAccountToken:
			out[string(field)] = i.AccountToken
		case domain.FieldRole:
			out[string(field)] = string(i.Role)
		}
	}
	return out
}

func toMemberResponses(members []domain.MemberSummary) []memberResponse {
	out := make([]memberResponse, len(members))
	for i, m := range members {
		out[i] = memberResponse{ID: m.ID, Email: m.Email, Firstname: m.Firstname, Lastname: m.Lastname}
	}
	return out
}

func toHRRequestResponse(r *domain.HRRequest) hrRequestResponse {
	resp := hrRequestResponse{
		ID:               r.ID,
		UserID:           r.OwnerID,
		Content:          r.Content,
		RegistrationDate: r.CreatedAt.Format(dateLayout),
		Visibility:       r.Visibility,
		Close:            r.Closed,
		LastAction:       r.LastActionAt.Format(dateLayout),
		ContentHistory:   make([]historyEntryResponse, len(r.History)),
	}
	for i, h := range r.History {
		resp.ContentHistory[i] = historyEntryResponse{
			Author:  int64(h.Author),
			Content: h.Content,
			Date:    h.At.Format(dateLayout),
		}
	}
	if r.DeletedAt != nil {
		d := r.DeletedAt.Format(dateLayout)
		resp.DeleteDate = &d
	}
	return resp
}

func formatOptionalDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}
