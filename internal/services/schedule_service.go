package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/roster-api/internal/constants"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/repository"
	"github.com/yukikurage/roster-api/internal/utils"
)

var ErrItemNotFound = apierrors.NotFound("Service item not found")

// ScheduleService handles services (scheduled events) and their items
type ScheduleService struct {
	serviceRepo  repository.ServiceRepository
	personRepo   repository.PersonRepository
	positionRepo repository.PositionRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	serviceRepo repository.ServiceRepository,
	personRepo repository.PersonRepository,
	positionRepo repository.PositionRepository,
) *ScheduleService {
	return &ScheduleService{
		serviceRepo:  serviceRepo,
		personRepo:   personRepo,
		positionRepo: positionRepo,
	}
}

type CreateServiceInput struct {
	Title       string
	Date        string
	StartTime   string
	EndTime     string
	Location    string
	Description string
	Status      models.ServiceStatus
}

type UpdateServiceInput struct {
	Title       *string
	Date        *string
	StartTime   *string
	EndTime     *string
	Location    *string
	Description *string
	Status      *models.ServiceStatus
}

type AttachmentInput struct {
	Name string
	URL  string
	Type string
}

// AssignmentInput fills a position slot on an item. Either side may be
// left empty.
type AssignmentInput struct {
	PositionID *uint64
	PersonID   *uint64
	Status     models.AssignmentStatus
}

type CreateItemInput struct {
	Title       string
	Type        models.ItemType
	Description string
	Duration    *int
	Notes       string
	Attachments []AttachmentInput
	Positions   []AssignmentInput
}

// UpdateItemInput is a partial update. A nil Attachments or Positions
// leaves that list unchanged; an empty one clears it.
type UpdateItemInput struct {
	Title       *string
	Type        *models.ItemType
	Description *string
	Duration    *int
	Notes       *string
	Attachments []AttachmentInput
	Positions   []AssignmentInput
}

// ListServices returns the caller's services, newest date first.
func (s *ScheduleService) ListServices(caller Caller, page *utils.PaginationParams) ([]models.Service, int64, error) {
	services, total, err := s.serviceRepo.List(caller.OrganizationID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list services: %w", err)
	}
	return services, total, nil
}

// GetService returns the service with its ordered items.
func (s *ScheduleService) GetService(caller Caller, id uint64) (*models.Service, error) {
	return s.loadService(caller, id)
}

func (s *ScheduleService) CreateService(caller Caller, input CreateServiceInput) (*models.Service, error) {
	service := &models.Service{
		Title:          strings.TrimSpace(input.Title),
		StartTime:      strings.TrimSpace(input.StartTime),
		EndTime:        strings.TrimSpace(input.EndTime),
		Location:       input.Location,
		Description:    input.Description,
		Status:         input.Status,
		OrganizationID: caller.OrganizationID,
		CreatedByID:    caller.UserID,
	}
	if service.Status == "" {
		service.Status = models.ServiceStatusDraft
	}
	if strings.TrimSpace(input.Date) != "" {
		date, err := ParseDate("date", input.Date)
		if err != nil {
			return nil, err
		}
		service.Date = date
	}
	if err := service.Validate(); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.Create(service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s.reload(service.ID)
}

func (s *ScheduleService) UpdateService(caller Caller, id uint64, input UpdateServiceInput) (*models.Service, error) {
	service, err := s.loadService(caller, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		service.Title = strings.TrimSpace(*input.Title)
	}
	if input.Date != nil {
		date, err := ParseDate("date", *input.Date)
		if err != nil {
			return nil, err
		}
		service.Date = date
	}
	if input.StartTime != nil {
		service.StartTime = strings.TrimSpace(*input.StartTime)
	}
	if input.EndTime != nil {
		service.EndTime = strings.TrimSpace(*input.EndTime)
	}
	if input.Location != nil {
		service.Location = *input.Location
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Status != nil {
		service.Status = *input.Status
	}
	if err := service.Validate(); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.Update(service); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return s.reload(service.ID)
}

// DeleteService removes the service and every one of its items.
func (s *ScheduleService) DeleteService(caller Caller, id uint64) error {
	if _, err := s.loadService(caller, id); err != nil {
		return err
	}
	if err := s.serviceRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}

// AddItem appends an item to the service, stamping service and creator.
func (s *ScheduleService) AddItem(caller Caller, serviceID uint64, input CreateItemInput) (*models.ServiceItem, error) {
	if _, err := s.loadService(caller, serviceID); err != nil {
		return nil, err
	}

	item := &models.ServiceItem{
		ServiceID:   serviceID,
		Title:       strings.TrimSpace(input.Title),
		Type:        input.Type,
		Description: input.Description,
		Duration:    constants.DefaultItemDurationMinutes,
		Notes:       input.Notes,
		CreatedByID: caller.UserID,
		Attachments: toAttachments(input.Attachments),
		Assignments: toAssignments(input.Positions),
	}
	if item.Type == "" {
		item.Type = models.ItemTypeOther
	}
	if input.Duration != nil {
		item.Duration = *input.Duration
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkAssignments(caller, item.Assignments); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.AddItem(item); err != nil {
		return nil, fmt.Errorf("failed to add service item: %w", err)
	}
	return s.serviceRepo.FindItem(serviceID, item.ID)
}

func (s *ScheduleService) UpdateItem(caller Caller, serviceID, itemID uint64, input UpdateItemInput) (*models.ServiceItem, error) {
	item, err := s.loadItem(caller, serviceID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Type != nil {
		item.Type = *input.Type
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Duration != nil {
		item.Duration = *input.Duration
	}
	if input.Notes != nil {
		item.Notes = *input.Notes
	}
	if input.Attachments != nil {
		item.Attachments = toAttachments(input.Attachments)
	}
	if input.Positions != nil {
		item.Assignments = toAssignments(input.Positions)
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if input.Positions != nil {
		if err := s.checkAssignments(caller, item.Assignments); err != nil {
			return nil, err
		}
	}

	if err := s.serviceRepo.UpdateItem(item, input.Attachments != nil, input.Positions != nil); err != nil {
		return nil, fmt.Errorf("failed to update service item: %w", err)
	}
	return s.serviceRepo.FindItem(serviceID, itemID)
}

func (s *ScheduleService) DeleteItem(caller Caller, serviceID, itemID uint64) error {
	if _, err := s.loadItem(caller, serviceID, itemID); err != nil {
		return err
	}
	if err := s.serviceRepo.DeleteItem(itemID); err != nil {
		return fmt.Errorf("failed to delete service item: %w", err)
	}
	return nil
}

func (s *ScheduleService) loadService(caller Caller, id uint64) (*models.Service, error) {
	service, err := s.serviceRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "service")
	}
	if err := ensureSameOrganization(caller, service.OrganizationID, "service"); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *ScheduleService) loadItem(caller Caller, serviceID, itemID uint64) (*models.ServiceItem, error) {
	if _, err := s.loadService(caller, serviceID); err != nil {
		return nil, err
	}
	item, err := s.serviceRepo.FindItem(serviceID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find service item: %w", err)
	}
	return item, nil
}

func (s *ScheduleService) reload(id uint64) (*models.Service, error) {
	service, err := s.serviceRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload service: %w", err)
	}
	return service, nil
}

// checkAssignments verifies every referenced position and person exists in
// the caller's organization.
func (s *ScheduleService) checkAssignments(caller Caller, assignments []models.ItemAssignment) error {
	var positionIDs, personIDs []uint64
	for _, a := range assignments {
		if a.PositionID != nil {
			positionIDs = append(positionIDs, *a.PositionID)
		}
		if a.PersonID != nil {
			personIDs = append(personIDs, *a.PersonID)
		}
	}

	if len(positionIDs) > 0 {
		if err := checkPositions(s.positionRepo, caller, positionIDs); err != nil {
			return err
		}
	}
	if len(personIDs) > 0 {
		people, err := s.personRepo.FindByIDs(personIDs)
		if err != nil {
			return fmt.Errorf("failed to load people: %w", err)
		}
		found := make(map[uint64]uint64, len(people))
		for _, p := range people {
			found[p.ID] = p.OrganizationID
		}
		if err := ensureReferences(caller, personIDs, found, "person"); err != nil {
			return err
		}
	}
	return nil
}

func toAttachments(in []AttachmentInput) []models.ItemAttachment {
	out := make([]models.ItemAttachment, len(in))
	for i, a := range in {
		out[i] = models.ItemAttachment{Name: a.Name, URL: a.URL, Type: a.Type}
	}
	return out
}

func toAssignments(in []AssignmentInput) []models.ItemAssignment {
	out := make([]models.ItemAssignment, len(in))
	for i, a := range in {
		status := a.Status
		if status == "" {
			status = models.AssignmentStatusPending
		}
		out[i] = models.ItemAssignment{
			PositionID: a.PositionID,
			PersonID:   a.PersonID,
			Status:     status,
		}
	}
	return out
}
