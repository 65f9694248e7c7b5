package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/testutil"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestServiceRepository_AddItemAppendsInOrder(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewServiceRepository(db)
	service := f.service(t, "Sunday", mustDate(t, "2024-06-02"))

	for _, title := range []string{"Welcome", "Worship", "Sermon"} {
		item := &models.ServiceItem{
			ServiceID: service.ID, Title: title, Type: models.ItemTypeOther,
			Duration: 5, CreatedByID: f.user.ID,
		}
		require.NoError(t, repo.AddItem(item))
	}

	loaded, err := repo.FindByID(service.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 3)
	for i, want := range []string{"Welcome", "Worship", "Sermon"} {
		assert.Equal(t, want, loaded.Items[i].Title)
		assert.Equal(t, i, loaded.Items[i].Sequence)
	}
	assert.Equal(t, "Ana", loaded.CreatedBy.Name)
}

func TestServiceRepository_UpdateItemReplacesChildren(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewServiceRepository(db)
	service := f.service(t, "Sunday", mustDate(t, "2024-06-02"))
	position := f.position(t, "Vocals", nil)

	item := &models.ServiceItem{
		ServiceID: service.ID, Title: "Song", Type: models.ItemTypeSong, Duration: 4, CreatedByID: f.user.ID,
		Attachments: []models.ItemAttachment{{Name: "chart", URL: "https://example.test/a.pdf", Type: "pdf"}},
	}
	require.NoError(t, repo.AddItem(item))

	loaded, err := repo.FindItem(service.ID, item.ID)
	require.NoError(t, err)
	loaded.Title = "Song (key of G)"
	loaded.Attachments = []models.ItemAttachment{}
	loaded.Assignments = []models.ItemAssignment{{PositionID: &position.ID, Status: models.AssignmentStatusPending}}
	require.NoError(t, repo.UpdateItem(loaded, true, true))

	reloaded, err := repo.FindItem(service.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Song (key of G)", reloaded.Title)
	assert.Empty(t, reloaded.Attachments)
	require.Len(t, reloaded.Assignments, 1)
	require.NotNil(t, reloaded.Assignments[0].Position)
	assert.Equal(t, "Vocals", reloaded.Assignments[0].Position.Name)
	assert.Nil(t, reloaded.Assignments[0].Person)
}

func TestServiceRepository_FindItemChecksService(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewServiceRepository(db)
	first := f.service(t, "Sunday", mustDate(t, "2024-06-02"))
	second := f.service(t, "Wednesday", mustDate(t, "2024-06-05"))

	item := &models.ServiceItem{ServiceID: first.ID, Title: "Prayer", Type: models.ItemTypePrayer, CreatedByID: f.user.ID}
	require.NoError(t, repo.AddItem(item))

	_, err := repo.FindItem(second.ID, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestServiceRepository_DeleteRemovesItems(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewServiceRepository(db)
	service := f.service(t, "Sunday", mustDate(t, "2024-06-02"))
	person := f.person(t, "Marta", "Diaz")

	for i := 0; i < 3; i++ {
		item := &models.ServiceItem{
			ServiceID: service.ID, Title: "Item", Type: models.ItemTypeOther, CreatedByID: f.user.ID,
			Attachments: []models.ItemAttachment{{Name: "notes", URL: "https://example.test/n"}},
			Assignments: []models.ItemAssignment{{PersonID: &person.ID, Status: models.AssignmentStatusConfirmed}},
		}
		require.NoError(t, repo.AddItem(item))
	}

	require.NoError(t, repo.Delete(service.ID))

	assert.Equal(t, int64(0), count(t, db, &models.Service{}, "id = ?", service.ID))
	assert.Equal(t, int64(0), count(t, db, &models.ServiceItem{}, "service_id = ?", service.ID))
	assert.Equal(t, int64(0), count(t, db, &models.ItemAttachment{}, "1 = 1"))
	assert.Equal(t, int64(0), count(t, db, &models.ItemAssignment{}, "1 = 1"))
}

func TestServiceRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewServiceRepository(db)
	f.service(t, "Older", mustDate(t, "2024-05-26"))
	f.service(t, "Newer", mustDate(t, "2024-06-02"))

	services, total, err := repo.List(f.org.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, services, 2)
	assert.Equal(t, "Newer", services[0].Title)
	assert.Equal(t, "Older", services[1].Title)
}

func TestServiceRepository_DeleteRollsBackOnFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "service_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`DELETE FROM "item_attachments"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = NewServiceRepository(db).Delete(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
