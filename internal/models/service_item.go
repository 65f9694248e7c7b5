package models

import "time"

type ItemType string

const (
	ItemTypeSong         ItemType = "song"
	ItemTypePrayer       ItemType = "prayer"
	ItemTypeReading      ItemType = "reading"
	ItemTypeSermon       ItemType = "sermon"
	ItemTypeAnnouncement ItemType = "announcement"
	ItemTypeOffering     ItemType = "offering"
	ItemTypeOther        ItemType = "other"
)

type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusConfirmed AssignmentStatus = "confirmed"
	AssignmentStatusDeclined  AssignmentStatus = "declined"
)

// ServiceItem is one program element of a Service. Sequence orders the
// items within their service.
type ServiceItem struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ServiceID   uint64    `gorm:"not null;index:idx_service_items_order,priority:1" json:"service"`
	Sequence    int       `gorm:"not null;default:0;index:idx_service_items_order,priority:2" json:"sequence"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Type        ItemType  `gorm:"type:varchar(20);not null;default:'other'" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	Duration    int       `gorm:"not null;default:5" json:"duration"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedByID uint64    `gorm:"not null" json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Attachments []ItemAttachment `gorm:"foreignKey:ServiceItemID" json:"attachments"`
	Assignments []ItemAssignment `gorm:"foreignKey:ServiceItemID" json:"positions"`
}

type ItemAttachment struct {
	ID            uint64 `gorm:"primarykey" json:"id"`
	ServiceItemID uint64 `gorm:"not null;index" json:"-"`
	Name          string `gorm:"type:varchar(255)" json:"name"`
	URL           string `gorm:"type:varchar(2048)" json:"url"`
	Type          string `gorm:"type:varchar(100)" json:"type"`
}

// ItemAssignment places a person (or nobody yet) in a position for one item.
type ItemAssignment struct {
	ID            uint64           `gorm:"primarykey" json:"id"`
	ServiceItemID uint64           `gorm:"not null;index" json:"-"`
	PositionID    *uint64          `gorm:"index" json:"position"`
	PersonID      *uint64          `gorm:"index" json:"person"`
	Status        AssignmentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// Relations
	Position *Position `gorm:"foreignKey:PositionID" json:"-"`
	Person   *Person   `gorm:"foreignKey:PersonID" json:"-"`
}
