package models

import "time"

type MemberRole string

const (
	MemberRoleLeader MemberRole = "leader"
	MemberRoleMember MemberRole = "member"
)

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

type Team struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	OrganizationID uint64    `gorm:"not null;index" json:"organization"`
	CreatedByID    uint64    `gorm:"not null" json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	Members   []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Positions []Position   `gorm:"foreignKey:TeamID" json:"positions,omitempty"`
}

// TeamMember is the only record of a membership: both the team's member
// list and the person's team set are read from it. The unique index makes
// a second insert of the same pair a no-op at the store.
type TeamMember struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	TeamID    uint64       `gorm:"not null;uniqueIndex:idx_team_members_pair,priority:1" json:"team"`
	PersonID  uint64       `gorm:"not null;uniqueIndex:idx_team_members_pair,priority:2;index" json:"person"`
	Role      MemberRole   `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Status    MemberStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt time.Time    `json:"createdAt"`

	// Relations
	Person Person `gorm:"foreignKey:PersonID" json:"-"`
}
