package models

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/yukikurage/roster-api/internal/errors"
)

var validate = validator.New()

type fieldChecker struct {
	fields []apierrors.FieldError
}

func (f *fieldChecker) required(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		f.add(field, message)
	}
}

func (f *fieldChecker) email(field, value string) {
	if value == "" {
		return
	}
	if err := validate.Var(value, "email"); err != nil {
		f.add(field, "must be a valid email address")
	}
}

func (f *fieldChecker) oneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	f.add(field, "must be one of: "+strings.Join(allowed, ", "))
}

func (f *fieldChecker) add(field, message string) {
	f.fields = append(f.fields, apierrors.FieldError{Field: field, Message: message})
}

func (f *fieldChecker) err() error {
	if len(f.fields) == 0 {
		return nil
	}
	return apierrors.Validation(f.fields...)
}

// ValidateEmail reports whether s is a syntactically valid address.
func ValidateEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

func (o *Organization) Validate() error {
	var f fieldChecker
	f.required("name", o.Name, "is required")
	f.email("email", o.Email)
	return f.err()
}

func (p *Person) Validate() error {
	var f fieldChecker
	f.required("firstName", p.FirstName, "is required")
	f.required("lastName", p.LastName, "is required")
	f.required("email", p.Email, "is required")
	f.email("email", p.Email)
	f.oneOf("status", string(p.Status), string(PersonStatusActive), string(PersonStatusInactive))
	return f.err()
}

func (t *Team) Validate() error {
	var f fieldChecker
	f.required("name", t.Name, "is required")
	return f.err()
}

func (p *Position) Validate() error {
	var f fieldChecker
	f.required("name", p.Name, "is required")
	return f.err()
}

func (s *Service) Validate() error {
	var f fieldChecker
	f.required("title", s.Title, "is required")
	if s.Date.IsZero() {
		f.add("date", "is required")
	}
	f.required("startTime", s.StartTime, "is required")
	f.required("endTime", s.EndTime, "is required")
	f.oneOf("status", string(s.Status),
		string(ServiceStatusDraft), string(ServiceStatusPublished),
		string(ServiceStatusCompleted), string(ServiceStatusCancelled))
	return f.err()
}

func (i *ServiceItem) Validate() error {
	var f fieldChecker
	f.required("title", i.Title, "is required")
	f.oneOf("type", string(i.Type),
		string(ItemTypeSong), string(ItemTypePrayer), string(ItemTypeReading),
		string(ItemTypeSermon), string(ItemTypeAnnouncement), string(ItemTypeOffering),
		string(ItemTypeOther))
	if i.Duration < 0 {
		f.add("duration", "must not be negative")
	}
	for _, a := range i.Assignments {
		f.oneOf("positions.status", string(a.Status),
			string(AssignmentStatusPending), string(AssignmentStatusConfirmed), string(AssignmentStatusDeclined))
	}
	return f.err()
}

func ValidateMember(role MemberRole, status MemberStatus) error {
	var f fieldChecker
	f.oneOf("role", string(role), string(MemberRoleLeader), string(MemberRoleMember))
	f.oneOf("status", string(status), string(MemberStatusActive), string(MemberStatusInactive))
	return f.err()
}
