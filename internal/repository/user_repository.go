package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrResolveOrganization is returned when the default organization cannot be found or created.
	ErrResolveOrganization = errors.New("user repository: resolve default organization failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateWithDefaultOrganization resolves or creates the shared default
// organization and creates the user in it atomically. The organization is
// keyed by its name on default_key; when a concurrent registration creates
// it first, the insert hits the unique index and the lookup is repeated.
func (r *GormUserRepository) CreateWithDefaultOrganization(user *models.User, defaultOrg *models.Organization) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := resolveDefaultOrganization(tx, defaultOrg); err != nil {
			return fmt.Errorf("%w: %w", ErrResolveOrganization, err)
		}

		user.OrganizationID = defaultOrg.ID
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		return nil
	})
}

func resolveDefaultOrganization(tx *gorm.DB, org *models.Organization) error {
	key := org.Name
	org.DefaultKey = &key

	lookup := func() error {
		return tx.Where("default_key = ?", key).Take(org).Error
	}

	err := lookup()
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// The savepoint keeps the outer transaction usable after a duplicate
	// key on postgres.
	err = tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(org).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		org.ID = 0
		return lookup()
	}
	return err
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}
