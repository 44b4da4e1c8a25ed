package model

import "time"

// Machine is a machine model offered by the shop; physical units are bound to
// clients through SerialNumber.
type Machine struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	ModelName     string     `gorm:"size:256;not null;index" json:"model_name"`
	CatalogNumber string     `gorm:"size:128;not null;index" json:"catalog_number"`
	DateOfAdding  *time.Time `json:"date_of_adding"`
	Notes         string     `gorm:"type:text" json:"notes"`
	URL           string     `gorm:"size:512" json:"url"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`

	// Associations
	Serials []SerialNumber `gorm:"foreignKey:MachineID;constraint:OnDelete:CASCADE" json:"serials,omitempty"`
}
