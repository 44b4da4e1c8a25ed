package store

import (
	"time"

	"repair-shop-backend/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// SearchLimit caps the rows returned per entity by Search.
	SearchLimit = 5
	// TopLimit caps the rows returned by the dashboard rankings.
	TopLimit = 5
)

// ListParams selects one page of a list endpoint.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

// Normalized applies the paging defaults and the limit cap.
func (p ListParams) Normalized() ListParams {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of rows skipped before the page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a list together with the total number of matching rows.
type Page[T any] struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Data  []T   `json:"data"`
}

func newPage[T any](p ListParams, total int64, data []T) *Page[T] {
	if data == nil {
		data = []T{}
	}
	return &Page[T]{Total: total, Page: p.Page, Limit: p.Limit, Data: data}
}

// ProfileView is a profile with its resolved role.
type ProfileView struct {
	UserID    int64     `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	RoleName  *string   `json:"-"`
	Role      string    `json:"role" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientPatch holds the fields of a partial client update; nil fields are kept.
type ClientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	City    *string
	Country *string
	Notes   *string
}

// MachinePatch holds the fields of a partial machine update.
type MachinePatch struct {
	ModelName     *string
	CatalogNumber *string
	DateOfAdding  *time.Time
	Notes         *string
	URL           *string
}

// PartPatch holds the fields of a partial part update.
type PartPatch struct {
	Name        *string
	Description *string
	Price       *float64
}

// SerialView is a serial binding with the names of the bound client and machine.
type SerialView struct {
	ID            int64      `json:"id"`
	Serial        string     `json:"serial"`
	ClientID      int64      `json:"client_id"`
	ClientName    string     `json:"client_name"`
	MachineID     int64      `json:"machine_id"`
	MachineName   string     `json:"machine_name"`
	CatalogNumber string     `json:"catalog_number"`
	DateOfSale    *time.Time `json:"date_of_sale"`
}

// MachineView is a machine together with its serial bindings.
type MachineView struct {
	model.Machine
	Serials []SerialView `json:"serials"`
}

// SerialInput is a request to bind a serial to a client and a machine.
type SerialInput struct {
	ClientID   int64
	MachineID  int64
	Serial     string
	DateOfSale *time.Time
}

// SerialFilter narrows a serial listing.
type SerialFilter struct {
	ListParams
	ClientID  *int64
	MachineID *int64
}

// PartLine is one entry of a repair's parts list on input.
type PartLine struct {
	PartID   int64 `json:"part_id"`
	Quantity int   `json:"quantity"`
}

// PartUsage is one repair-part link with the part details.
type PartUsage struct {
	ID       int64   `json:"id"`
	RepairID int64   `json:"repair_id"`
	PartID   int64   `json:"part_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// PartRepairView lists a repair that used a given part.
type PartRepairView struct {
	RepairID   int64     `json:"repair_id"`
	RepairName *string   `json:"repair_name"`
	RepairDate time.Time `json:"repair_date"`
	ClientName string    `json:"client_name"`
	Quantity   int       `json:"quantity"`
}

// RepairInput creates a repair.
type RepairInput struct {
	ClientID       int64
	MachineID      int64
	RepairedBy     int64
	SerialNumberID *int64
	RepairDate     *time.Time
	Description    string
	Parts          []PartLine
}

// RepairPatch holds the fields of a partial repair update. A non-nil Parts
// replaces every part link of the repair.
type RepairPatch struct {
	ClientID       *int64
	MachineID      *int64
	RepairedBy     *int64
	SerialNumberID *int64
	ClearSerial    bool // detach the serial; wins over SerialNumberID
	RepairDate     *time.Time
	Description    *string
	Parts          *[]PartLine
}

// RepairView is a repair joined with its client, machine, technician, serial
// and used parts.
type RepairView struct {
	ID              int64       `json:"id"`
	RepairName      *string     `json:"repair_name"`
	ClientID        int64       `json:"client_id"`
	ClientName      string      `json:"client_name"`
	ClientEmail     string      `json:"client_email"`
	ClientPhone     string      `json:"client_phone"`
	ClientAddress   string      `json:"client_address"`
	ClientCity      string      `json:"client_city"`
	RepairedMachine int64       `json:"repaired_machine"`
	MachineName     string      `json:"machine_name"`
	CatalogNumber   string      `json:"catalog_number"`
	RepairedBy      int64       `json:"repaired_by"`
	RepairmanName   *string     `json:"repairman_name"`
	SerialNumberID  *int64      `json:"serial_number_id"`
	SerialNumber    *string     `json:"serial_number"`
	RepairDate      time.Time   `json:"repair_date"`
	RepairDay       string      `json:"repair_day" gorm:"-"`
	Description     string      `json:"description"`
	CreatedAt       time.Time   `json:"created_at"`
	PartsUsed       []PartUsage `json:"parts_used" gorm:"-"`
}

// MachineRepairView is a serial of a machine owned by a client, with one of
// its repairs if any.
type MachineRepairView struct {
	SerialID     int64      `json:"serial_id"`
	SerialNumber string     `json:"serial_number"`
	RepairID     *int64     `json:"id"`
	RepairName   *string    `json:"repair_name"`
	RepairDate   *time.Time `json:"repair_date"`
}

// AdmissionView is an admission joined with client, machine and receiver names.
type AdmissionView struct {
	ID                  int64     `json:"id"`
	AdmissionName       *string   `json:"admission_name"`
	ClientID            int64     `json:"client_id"`
	ClientName          string    `json:"client_name"`
	MachineID           int64     `json:"machine_id"`
	MachineName         string    `json:"machine_name"`
	SerialNumber        string    `json:"serial_number"`
	CatalogNumber       string    `json:"catalog_number"`
	DeviceStatus        string    `json:"device_status"`
	ProblemDescription  string    `json:"problem_description"`
	AdditionalEquipment string    `json:"additional_equipment"`
	Notes               string    `json:"notes"`
	ReceivedBy          *int64    `json:"received_by"`
	ReceivedByName      *string   `json:"received_by_name"`
	AdmissionDate       time.Time `json:"admission_date"`
}

// SearchKind restricts Search to one entity type. The zero value searches all.
type SearchKind string

const (
	SearchAll      SearchKind = ""
	SearchClients  SearchKind = "clients"
	SearchMachines SearchKind = "machines"
	SearchRepairs  SearchKind = "repairs"
	SearchParts    SearchKind = "parts"
	SearchSerials  SearchKind = "serials"
)

// ParseSearchKind validates a type filter.
func ParseSearchKind(s string) (SearchKind, bool) {
	switch k := SearchKind(s); k {
	case SearchAll, SearchClients, SearchMachines, SearchRepairs, SearchParts, SearchSerials:
		return k, true
	}
	return "", false
}

// SearchClientHit, SearchMachineHit, SearchRepairHit, SearchPartHit and
// SearchSerialHit are the per-entity rows of a search result.
type SearchClientHit struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type SearchMachineHit struct {
	ID            int64      `json:"id"`
	ModelName     string     `json:"model_name"`
	CatalogNumber string     `json:"catalog_number"`
	URL           string     `json:"url"`
	DateOfAdding  *time.Time `json:"date_of_adding"`
	Notes         string     `json:"notes"`
}

type SearchRepairHit struct {
	ID          int64     `json:"id"`
	RepairName  *string   `json:"repair_name"`
	Description string    `json:"description"`
	RepairDate  time.Time `json:"repair_date"`
	ClientName  string    `json:"client_name"`
	MachineName string    `json:"machine_name"`
}

type SearchPartHit struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type SearchSerialHit struct {
	ID            int64      `json:"id"`
	SerialNumber  string     `json:"serial_number"`
	DateOfSale    *time.Time `json:"date_of_sale"`
	MachineID     int64      `json:"machine_id"`
	MachineName   string     `json:"machine_name"`
	CatalogNumber string     `json:"catalog_number"`
	ClientID      *int64     `json:"client_id"`
	ClientName    *string    `json:"client_name"`
}

// SearchResult always carries all five keys; unselected kinds stay empty.
type SearchResult struct {
	Clients  []SearchClientHit  `json:"clients"`
	Machines []SearchMachineHit `json:"machines"`
	Repairs  []SearchRepairHit  `json:"repairs"`
	Parts    []SearchPartHit    `json:"parts"`
	Serials  []SearchSerialHit  `json:"serials"`
}

// Totals are the dashboard entity counts.
type Totals struct {
	Clients  int64 `json:"total_clients"`
	Machines int64 `json:"total_machines"`
	Repairs  int64 `json:"total_repairs"`
	Parts    int64 `json:"total_parts"`
}

// NamedCount is one row of a dashboard ranking.
type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// RecentRepair is one row of the recent repairs list.
type RecentRepair struct {
	RepairID    int64     `json:"repair_id"`
	RepairName  *string   `json:"repair_name"`
	MachineName string    `json:"machine"`
	RepairDate  time.Time `json:"repair_date"`
	RepairDay   string    `json:"repair_day" gorm:"-"`
}
