package model

import "time"

// Repair is a repair job. RepairName holds the "{id}/{YY}" display identifier,
// assigned right after the row is inserted.
type Repair struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	RepairName     *string   `gorm:"size:32;index" json:"repair_name"`
	ClientID       int64     `gorm:"index;not null" json:"client_id"`
	MachineID      int64     `gorm:"column:repaired_machine;index;not null" json:"repaired_machine"`
	RepairedBy     int64     `gorm:"index;not null" json:"repaired_by"`
	SerialNumberID *int64    `gorm:"index" json:"serial_number_id"`
	RepairDate     time.Time `gorm:"not null;index" json:"repair_date"`
	Description    string    `gorm:"type:text" json:"description"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Client       *Client       `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Machine      *Machine      `gorm:"foreignKey:MachineID;constraint:OnDelete:RESTRICT" json:"-"`
	Technician   *Profile      `gorm:"foreignKey:RepairedBy;references:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	SerialNumber *SerialNumber `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Parts        []RepairPart  `gorm:"foreignKey:RepairID;constraint:OnDelete:CASCADE" json:"-"`
}

// RepairPart records how many units of a part a repair used.
type RepairPart struct {
	ID       int64 `gorm:"primaryKey" json:"id"`
	RepairID int64 `gorm:"index;not null" json:"repair_id"`
	PartID   int64 `gorm:"index;not null" json:"part_id"`
	Quantity int   `gorm:"not null;default:1" json:"quantity"`

	// Associations
	Part *Part `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}
