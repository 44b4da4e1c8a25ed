package model

import "time"

// Admission is the intake record created when a client's device is received.
type Admission struct {
	ID                  int64     `gorm:"primaryKey" json:"id"`
	AdmissionName       *string   `gorm:"size:32;index" json:"admission_name"`
	ClientID            int64     `gorm:"index;not null" json:"client_id"`
	MachineID           int64     `gorm:"index;not null" json:"machine_id"`
	SerialNumber        string    `gorm:"size:128" json:"serial_number"`
	CatalogNumber       string    `gorm:"size:128" json:"catalog_number"`
	DeviceStatus        string    `gorm:"size:256" json:"device_status"`
	ProblemDescription  string    `gorm:"type:text" json:"problem_description"`
	AdditionalEquipment string    `gorm:"type:text" json:"additional_equipment"`
	Notes               string    `gorm:"type:text" json:"notes"`
	ReceivedBy          *int64    `gorm:"index" json:"received_by"`
	CreatedAt           time.Time `gorm:"column:admission_date;not null;index" json:"admission_date"`

	// Associations
	Client   *Client  `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Machine  *Machine `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Receiver *Profile `gorm:"foreignKey:ReceivedBy;references:UserID;constraint:OnDelete:SET NULL" json:"-"`
}
