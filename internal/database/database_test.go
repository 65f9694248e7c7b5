package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/roster-api/internal/config"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/utils"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := openMemory(t)
	log := zap.NewNop()

	require.NoError(t, Migrate(db, log))
	require.NoError(t, Migrate(db, log))

	m := db.Migrator()
	for _, idx := range extraIndexes {
		assert.True(t, m.HasIndex(idx.model, idx.name), idx.name)
	}
	for _, model := range AllModels() {
		assert.True(t, m.HasTable(model))
	}
}

func TestTeamMemberPairIsUnique(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db, zap.NewNop()))

	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)
	user := models.User{Name: "Ana", Email: "ana@acme.test", PasswordHash: "x", OrganizationID: org.ID}
	require.NoError(t, db.Create(&user).Error)
	team := models.Team{Name: "Worship", OrganizationID: org.ID, CreatedByID: user.ID}
	require.NoError(t, db.Create(&team).Error)
	person := models.Person{FirstName: "Marta", LastName: "Diaz", Email: "m@acme.test", OrganizationID: org.ID, CreatedByID: user.ID}
	require.NoError(t, db.Create(&person).Error)

	first := models.TeamMember{TeamID: team.ID, PersonID: person.ID}
	require.NoError(t, db.Create(&first).Error)
	second := models.TeamMember{TeamID: team.ID, PersonID: person.ID}
	assert.ErrorIs(t, db.Create(&second).Error, gorm.ErrDuplicatedKey)
}

func TestPaginate(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db, zap.NewNop()))

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		require.NoError(t, db.Create(&models.Organization{Name: name}).Error)
	}

	var all []models.Organization
	require.NoError(t, db.Scopes(Paginate(nil)).Order("name").Find(&all).Error)
	assert.Len(t, all, 5)

	var page []models.Organization
	require.NoError(t, db.Scopes(Paginate(utils.NewPaginationParams(2, 2))).Order("name").Find(&page).Error)
	require.Len(t, page, 2)
	assert.Equal(t, "C", page[0].Name)
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite, Name: ":memory:"}}
	db, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Close(db))
}
