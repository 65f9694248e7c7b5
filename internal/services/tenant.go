package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/models"
)

// Caller is the authenticated identity every tenant-scoped operation runs as.
type Caller struct {
	UserID         uint64
	OrganizationID uint64
	Role           models.UserRole
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == models.UserRoleAdmin
}

// ensureSameOrganization distinguishes a record in another tenant
// (Forbidden) from a missing one, which callers report as NotFound before
// reaching here.
func ensureSameOrganization(caller Caller, organizationID uint64, what string) error {
	if organizationID != caller.OrganizationID {
		return apierrors.Forbidden(fmt.Sprintf("Not authorized to access this %s", what))
	}
	return nil
}

// notFoundOr maps gorm's missing-record error onto NotFound and wraps any
// other store failure.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierrors.NotFound(fmt.Sprintf("%s not found", capitalize(what)))
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}

// ensureReferences checks that every id in want was found and that each
// found record belongs to the caller. found maps id to organization.
func ensureReferences(caller Caller, want []uint64, found map[uint64]uint64, what string) error {
	for _, id := range want {
		orgID, ok := found[id]
		if !ok {
			return apierrors.NotFound(fmt.Sprintf("%s %d not found", capitalize(what), id))
		}
		if orgID != caller.OrganizationID {
			return apierrors.Forbidden(fmt.Sprintf("Not authorized to use %s %d", what, id))
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseDate accepts a calendar date or a full RFC 3339 timestamp.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apierrors.Validation(apierrors.FieldError{
		Field:   field,
		Message: "must be a date (YYYY-MM-DD) or RFC 3339 timestamp",
	})
}

// parseOptionalDate treats an empty string as "no date".
func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
