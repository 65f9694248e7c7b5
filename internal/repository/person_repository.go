package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/roster-api/internal/database"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/utils"
)

// GormPersonRepository is a GORM implementation of PersonRepository
type GormPersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &GormPersonRepository{db: db}
}

func (r *GormPersonRepository) List(organizationID uint64, page *utils.PaginationParams) ([]models.Person, int64, error) {
	query := r.db.Model(&models.Person{}).Where("organization_id = ?", organizationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var people []models.Person
	if err := query.
		Order("last_name ASC, first_name ASC, id ASC").
		Scopes(database.Paginate(page)).
		Find(&people).Error; err != nil {
		return nil, 0, err
	}
	return people, total, nil
}

func (r *GormPersonRepository) FindByID(id uint64) (*models.Person, error) {
	var person models.Person
	if err := r.db.First(&person, id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *GormPersonRepository) FindByIDs(ids []uint64) ([]models.Person, error) {
	var people []models.Person
	if len(ids) == 0 {
		return people, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

// Create creates the person and its links in one transaction
func (r *GormPersonRepository) Create(person *models.Person, links PersonLinks) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(person).Error; err != nil {
			return err
		}
		return writeLinksTx(tx, person.ID, links)
	})
}

// Update saves the person and replaces the flagged link sets
func (r *GormPersonRepository) Update(person *models.Person, links PersonLinks) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(person).Error; err != nil {
			return err
		}
		return writeLinksTx(tx, person.ID, links)
	})
}

// Delete removes a person and everything that references it
func (r *GormPersonRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deletePersonTx(tx, id)
	})
}

// personRef is one (person, team or position) pair read from a join table.
type personRef struct {
	PersonID uint64
	RefID    uint64
	RefName  string
}

func (r *GormPersonRepository) TeamsByPerson(personIDs []uint64) (map[uint64][]models.Team, error) {
	out := make(map[uint64][]models.Team, len(personIDs))
	if len(personIDs) == 0 {
		return out, nil
	}

	var rows []personRef
	err := r.db.Table("team_members").
		Select("team_members.person_id AS person_id, teams.id AS ref_id, teams.name AS ref_name").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.person_id IN ?", personIDs).
		Order("teams.name ASC, teams.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		out[rw.PersonID] = append(out[rw.PersonID], models.Team{ID: rw.RefID, Name: rw.RefName})
	}
	return out, nil
}

func (r *GormPersonRepository) PositionsByPerson(personIDs []uint64) (map[uint64][]models.Position, error) {
	out := make(map[uint64][]models.Position, len(personIDs))
	if len(personIDs) == 0 {
		return out, nil
	}

	var rows []personRef
	err := r.db.Table("person_positions").
		Select("person_positions.person_id AS person_id, positions.id AS ref_id, positions.name AS ref_name").
		Joins("JOIN positions ON positions.id = person_positions.position_id").
		Where("person_positions.person_id IN ?", personIDs).
		Order("positions.name ASC, positions.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		out[rw.PersonID] = append(out[rw.PersonID], models.Position{ID: rw.RefID, Name: rw.RefName})
	}
	return out, nil
}

// writeLinksTx makes the person's flagged link sets equal to links.
// Existing memberships that stay in the set keep their role and status.
func writeLinksTx(tx *gorm.DB, personID uint64, links PersonLinks) error {
	if links.SetTeams {
		del := tx.Where("person_id = ?", personID)
		if len(links.TeamIDs) > 0 {
			del = del.Where("team_id NOT IN ?", links.TeamIDs)
		}
		if err := del.Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		for _, teamID := range links.TeamIDs {
			member := models.TeamMember{
				TeamID:   teamID,
				PersonID: personID,
				Role:     models.MemberRoleMember,
				Status:   models.MemberStatusActive,
			}
			if err := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&member).Error; err != nil {
				return err
			}
		}
	}

	if links.SetPositions {
		if err := tx.Where("person_id = ?", personID).Delete(&models.PersonPosition{}).Error; err != nil {
			return err
		}
		for _, positionID := range uniqueIDs(links.PositionIDs) {
			link := models.PersonPosition{PersonID: personID, PositionID: positionID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// uniqueIDs drops duplicates, keeping first-seen order.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
