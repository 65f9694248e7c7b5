package dto

import (
	"time"

	"github.com/yukikurage/roster-api/internal/models"
)

// ServiceDTO is the list shape; Items carries only the item ids.
type ServiceDTO struct {
	ID           uint64               `json:"id"`
	Title        string               `json:"title"`
	Date         time.Time            `json:"date"`
	StartTime    string               `json:"startTime"`
	EndTime      string               `json:"endTime"`
	Location     string               `json:"location"`
	Description  string               `json:"description"`
	Status       models.ServiceStatus `json:"status"`
	Items        []uint64             `json:"items"`
	Organization uint64               `json:"organization"`
	CreatedBy    UserRefDTO           `json:"createdBy"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// ServiceDetailDTO replaces the item ids with the ordered items.
type ServiceDetailDTO struct {
	ServiceDTO
	Items []ServiceItemDTO `json:"items"`
}

type AttachmentDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// AssignmentDTO is one position slot on an item.
type AssignmentDTO struct {
	ID       uint64                  `json:"id"`
	Position *RefDTO                 `json:"position"`
	Person   *PersonSummaryDTO       `json:"person"`
	Status   models.AssignmentStatus `json:"status"`
}

type ServiceItemDTO struct {
	ID          uint64          `json:"id"`
	Service     uint64          `json:"service"`
	Sequence    int             `json:"sequence"`
	Title       string          `json:"title"`
	Type        models.ItemType `json:"type"`
	Description string          `json:"description"`
	Duration    int             `json:"duration"`
	Notes       string          `json:"notes"`
	Attachments []AttachmentDTO `json:"attachments"`
	Positions   []AssignmentDTO `json:"positions"`
	CreatedBy   uint64          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ToServiceDTO expects CreatedBy and Items to be loaded.
func ToServiceDTO(s models.Service) ServiceDTO {
	ids := make([]uint64, len(s.Items))
	for i, item := range s.Items {
		ids[i] = item.ID
	}

	return ServiceDTO{
		ID:           s.ID,
		Title:        s.Title,
		Date:         s.Date,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		Location:     s.Location,
		Description:  s.Description,
		Status:       s.Status,
		Items:        ids,
		Organization: s.OrganizationID,
		CreatedBy:    ToUserRefDTO(s.CreatedBy),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToServiceDetailDTO expects items with attachments and assignments loaded.
func ToServiceDetailDTO(s models.Service) ServiceDetailDTO {
	items := make([]ServiceItemDTO, len(s.Items))
	for i, item := range s.Items {
		items[i] = ToServiceItemDTO(item)
	}
	return ServiceDetailDTO{
		ServiceDTO: ToServiceDTO(s),
		Items:      items,
	}
}

func ToServiceItemDTO(item models.ServiceItem) ServiceItemDTO {
	attachments := make([]AttachmentDTO, len(item.Attachments))
	for i, a := range item.Attachments {
		attachments[i] = AttachmentDTO{Name: a.Name, URL: a.URL, Type: a.Type}
	}

	assignments := make([]AssignmentDTO, len(item.Assignments))
	for i, a := range item.Assignments {
		out := AssignmentDTO{ID: a.ID, Status: a.Status}
		if a.Position != nil {
			out.Position = &RefDTO{ID: a.Position.ID, Name: a.Position.Name}
		}
		if a.Person != nil {
			summary := ToPersonSummaryDTO(*a.Person)
			out.Person = &summary
		}
		assignments[i] = out
	}

	return ServiceItemDTO{
		ID:          item.ID,
		Service:     item.ServiceID,
		Sequence:    item.Sequence,
		Title:       item.Title,
		Type:        item.Type,
		Description: item.Description,
		Duration:    item.Duration,
		Notes:       item.Notes,
		Attachments: attachments,
		Positions:   assignments,
		CreatedBy:   item.CreatedByID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
