package models

import "time"

// Position is a named slot within a team. TeamID is the single source of
// truth for the team/position association.
type Position struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	TeamID         *uint64   `gorm:"index" json:"team"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization"`
	CreatedByID    uint64    `gorm:"not null" json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
