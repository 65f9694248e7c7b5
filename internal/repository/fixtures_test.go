package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/models"
)

type fixture struct {
	db   *gorm.DB
	org  models.Organization
	user models.User
}

func newFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)
	user := models.User{
		Name:           "Ana",
		Email:          "ana@acme.test",
		PasswordHash:   "x",
		Role:           models.UserRoleUser,
		OrganizationID: org.ID,
	}
	require.NoError(t, db.Create(&user).Error)
	return fixture{db: db, org: org, user: user}
}

func (f fixture) person(t *testing.T, first, last string) models.Person {
	t.Helper()
	p := models.Person{
		FirstName:      first,
		LastName:       last,
		Email:          first + "@acme.test",
		Status:         models.PersonStatusActive,
		OrganizationID: f.org.ID,
		CreatedByID:    f.user.ID,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f fixture) team(t *testing.T, name string) models.Team {
	t.Helper()
	team := models.Team{Name: name, OrganizationID: f.org.ID, CreatedByID: f.user.ID}
	require.NoError(t, f.db.Create(&team).Error)
	return team
}

func (f fixture) position(t *testing.T, name string, teamID *uint64) models.Position {
	t.Helper()
	p := models.Position{Name: name, TeamID: teamID, OrganizationID: f.org.ID, CreatedByID: f.user.ID}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f fixture) service(t *testing.T, title string, date time.Time) models.Service {
	t.Helper()
	s := models.Service{
		Title:          title,
		Date:           date,
		StartTime:      "10:00",
		EndTime:        "12:00",
		Status:         models.ServiceStatusDraft,
		OrganizationID: f.org.ID,
		CreatedByID:    f.user.ID,
	}
	require.NoError(t, f.db.Create(&s).Error)
	return s
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
