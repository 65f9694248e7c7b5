package repository

import (
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/utils"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user in an existing organization
	Create(user *models.User) error

	// CreateWithDefaultOrganization resolves the organization named by
	// defaultOrg (creating it when absent) and creates the user in it,
	// within a single transaction.
	CreateWithDefaultOrganization(user *models.User, defaultOrg *models.Organization) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error
}

// PersonLinks carries the team and position sets written with a person.
// A set is only written when its Set flag is true; an empty set with the
// flag clears it.
type PersonLinks struct {
	TeamIDs      []uint64
	PositionIDs  []uint64
	SetTeams     bool
	SetPositions bool
}

// PersonRepository defines the interface for person data access
type PersonRepository interface {
	// List returns the organization's people sorted by last then first name
	List(organizationID uint64, page *utils.PaginationParams) ([]models.Person, int64, error)

	// FindByID finds a person by ID
	FindByID(id uint64) (*models.Person, error)

	// FindByIDs returns every person whose id is in ids
	FindByIDs(ids []uint64) ([]models.Person, error)

	// Create creates a person and its memberships and position links
	Create(person *models.Person, links PersonLinks) error

	// Update saves the person and replaces the flagged link sets
	Update(person *models.Person, links PersonLinks) error

	// Delete removes a person with its memberships, position links and
	// item assignments
	Delete(id uint64) error

	// TeamsByPerson returns each person's teams sorted by name
	TeamsByPerson(personIDs []uint64) (map[uint64][]models.Team, error)

	// PositionsByPerson returns each person's positions sorted by name
	PositionsByPerson(personIDs []uint64) (map[uint64][]models.Position, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// List returns the organization's teams sorted by name, with members and positions
	List(organizationID uint64, page *utils.PaginationParams) ([]models.Team, int64, error)

	// FindByID finds a team with members and positions loaded
	FindByID(id uint64) (*models.Team, error)

	// FindByIDs returns every team whose id is in ids
	FindByIDs(ids []uint64) ([]models.Team, error)

	// CreateWithPositions creates the positions, then the team, then points
	// each position at the team, in one transaction
	CreateWithPositions(team *models.Team, positions []models.Position) error

	// Update saves the team; when setPositions is true the team's position
	// set becomes exactly positionIDs
	Update(team *models.Team, positionIDs []uint64, setPositions bool) error

	// Delete removes a team, its positions and its memberships
	Delete(id uint64) error

	// AddMember inserts the membership unless the pair already exists.
	// It reports whether a row was inserted.
	AddMember(member *models.TeamMember) (bool, error)

	// FindMember finds the membership for a (team, person) pair
	FindMember(teamID, personID uint64) (*models.TeamMember, error)

	// UpdateMember saves a membership's role and status
	UpdateMember(member *models.TeamMember) error

	// RemoveMember deletes the membership if present
	RemoveMember(teamID, personID uint64) error
}

// PositionFilter holds filtering options for listing positions
type PositionFilter struct {
	OrganizationID uint64
	TeamID         *uint64
	Page           *utils.PaginationParams
}

// PositionRepository defines the interface for position data access
type PositionRepository interface {
	List(filter PositionFilter) ([]models.Position, int64, error)
	FindByID(id uint64) (*models.Position, error)
	FindByIDs(ids []uint64) ([]models.Position, error)
	Create(position *models.Position) error
	Update(position *models.Position) error

	// Delete removes a position, its person links and its item assignments
	Delete(id uint64) error
}

// ServiceRepository defines the interface for service and service item data access
type ServiceRepository interface {
	// List returns the organization's services by date, newest first
	List(organizationID uint64, page *utils.PaginationParams) ([]models.Service, int64, error)

	// FindByID finds a service with its ordered items, attachments and assignments
	FindByID(id uint64) (*models.Service, error)

	Create(service *models.Service) error
	Update(service *models.Service) error

	// Delete removes a service and all of its items
	Delete(id uint64) error

	// AddItem appends an item at the end of its service's order
	AddItem(item *models.ServiceItem) error

	// FindItem finds an item of the given service
	FindItem(serviceID, itemID uint64) (*models.ServiceItem, error)

	// UpdateItem saves the item; flagged child lists are replaced
	UpdateItem(item *models.ServiceItem, replaceAttachments, replaceAssignments bool) error

	// DeleteItem removes an item with its attachments and assignments
	DeleteItem(itemID uint64) error
}
