package models

import "time"

type ServiceStatus string

const (
	ServiceStatusDraft     ServiceStatus = "draft"
	ServiceStatusPublished ServiceStatus = "published"
	ServiceStatusCompleted ServiceStatus = "completed"
	ServiceStatusCancelled ServiceStatus = "cancelled"
)

// Service is a scheduled event. StartTime and EndTime are wall-clock
// strings as entered by the user.
type Service struct {
	ID             uint64        `gorm:"primarykey" json:"id"`
	Title          string        `gorm:"type:varchar(255);not null" json:"title"`
	Date           time.Time     `gorm:"not null;index" json:"date"`
	StartTime      string        `gorm:"type:varchar(20);not null" json:"startTime"`
	EndTime        string        `gorm:"type:varchar(20);not null" json:"endTime"`
	Location       string        `gorm:"type:varchar(255)" json:"location"`
	Description    string        `gorm:"type:text" json:"description"`
	Status         ServiceStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	OrganizationID uint64        `gorm:"not null;index" json:"organization"`
	CreatedByID    uint64        `gorm:"not null" json:"createdBy"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	// Relations
	Items     []ServiceItem `gorm:"foreignKey:ServiceID" json:"items,omitempty"`
	CreatedBy User          `gorm:"foreignKey:CreatedByID" json:"-"`
}
