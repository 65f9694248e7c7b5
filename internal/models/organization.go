package models

import "time"

// Address is embedded by organizations and people.
type Address struct {
	Street  string `gorm:"type:varchar(255)" json:"street"`
	City    string `gorm:"type:varchar(120)" json:"city"`
	State   string `gorm:"type:varchar(120)" json:"state"`
	Zip     string `gorm:"type:varchar(20)" json:"zip"`
	Country string `gorm:"type:varchar(120)" json:"country"`
}

// Organization is the tenant boundary. Every other record except User
// belongs to exactly one.
type Organization struct {
	ID      uint64  `gorm:"primarykey" json:"id"`
	Name    string  `gorm:"type:varchar(255);not null;index" json:"name"`
	Email   string  `gorm:"type:varchar(255)" json:"email"`
	Phone   string  `gorm:"type:varchar(50)" json:"phone"`
	Website string  `gorm:"type:varchar(255)" json:"website"`
	Address Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	// DefaultKey is set only on the shared organization self-registered
	// users join; the unique index makes that organization a singleton.
	DefaultKey *string   `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
