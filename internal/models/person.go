package models

import "time"

type PersonStatus string

const (
	PersonStatusActive   PersonStatus = "active"
	PersonStatusInactive PersonStatus = "inactive"
)

// Person is a roster entry. Team membership is not stored on the person;
// it lives in TeamMember rows.
type Person struct {
	ID             uint64       `gorm:"primarykey" json:"id"`
	FirstName      string       `gorm:"type:varchar(120);not null" json:"firstName"`
	LastName       string       `gorm:"type:varchar(120);not null;index:idx_people_name,priority:2" json:"lastName"`
	Email          string       `gorm:"type:varchar(255);not null" json:"email"`
	Phone          string       `gorm:"type:varchar(50)" json:"phone"`
	Address        Address      `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	BirthDate      *time.Time   `json:"birthDate"`
	Notes          string       `gorm:"type:text" json:"notes"`
	Status         PersonStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	OrganizationID uint64       `gorm:"not null;index:idx_people_name,priority:1" json:"organization"`
	CreatedByID    uint64       `gorm:"not null" json:"createdBy"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// FullName returns "First Last".
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PersonPosition links a person to a position they can fill.
type PersonPosition struct {
	PersonID   uint64    `gorm:"primarykey;autoIncrement:false" json:"personId"`
	PositionID uint64    `gorm:"primarykey;autoIncrement:false;index" json:"positionId"`
	CreatedAt  time.Time `json:"createdAt"`
}
