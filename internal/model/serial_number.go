package model

import "time"

// SerialNumber binds one physical unit of a machine model to the client who owns it.
type SerialNumber struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	Serial     string     `gorm:"uniqueIndex;size:128;not null" json:"serial"`
	ClientID   int64      `gorm:"index;not null" json:"client_id"`
	MachineID  int64      `gorm:"index;not null" json:"machine_id"`
	DateOfSale *time.Time `json:"date_of_sale"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`

	// Associations
	Client *Client `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
