package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/repository"
)

// OrganizationService provides business logic for the caller's organization.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// UpdateOrganizationInput carries a partial update; nil fields are kept.
type UpdateOrganizationInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Website *string
	Address *models.Address
}

// GetOrganization returns the caller's organization.
func (s *OrganizationService) GetOrganization(caller Caller) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(caller.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// UpdateOrganization merges input into the caller's organization.
func (s *OrganizationService) UpdateOrganization(caller Caller, input UpdateOrganizationInput) (*models.Organization, error) {
	org, err := s.GetOrganization(caller)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		org.Name = *input.Name
	}
	if input.Email != nil {
		org.Email = *input.Email
	}
	if input.Phone != nil {
		org.Phone = *input.Phone
	}
	if input.Website != nil {
		org.Website = *input.Website
	}
	if input.Address != nil {
		org.Address = *input.Address
	}
	if err := org.Validate(); err != nil {
		return nil, err
	}

	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}
