package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/models"
)

// extraIndexes are lookups the list and cascade queries depend on that are
// not declared on the model tags.
var extraIndexes = []struct {
	model interface{}
	name  string
	field string
}{
	{&models.Team{}, "idx_teams_name", "Name"},
	{&models.Service{}, "idx_services_created_by", "CreatedByID"},
	{&models.Person{}, "idx_people_email", "Email"},
	{&models.User{}, "idx_users_role", "Role"},
}

// EnsureIndexes creates any missing secondary index. It is safe to run on
// every start.
func EnsureIndexes(db *gorm.DB, log *zap.Logger) error {
	m := db.Migrator()
	for _, idx := range extraIndexes {
		if m.HasIndex(idx.model, idx.name) {
			log.Debug("index already exists", zap.String("index", idx.name))
			continue
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}
		column := stmt.Schema.LookUpField(idx.field)
		if column == nil {
			return fmt.Errorf("unknown field %s for index %s", idx.field, idx.name)
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, column.DBName)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Info("created index", zap.String("index", idx.name), zap.String("table", stmt.Schema.Table))
	}
	return nil
}
