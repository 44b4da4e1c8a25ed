package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"repair-shop-backend/internal/auth"
	"repair-shop-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Accounts
	EmailRegistered(ctx context.Context, email string) (bool, error)
	CreateProfile(ctx context.Context, profile *model.Profile, role auth.Role) error
	ProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
	RoleNameFor(ctx context.Context, userID int64) (*string, error)

	// Profiles
	GetProfile(ctx context.Context, userID int64) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID int64, fullName, phone string) (*ProfileView, error)
	ListProfiles(ctx context.Context, p ListParams) (*Page[ProfileView], error)
	AssignRole(ctx context.Context, userID int64, role auth.Role) error

	// Clients
	ListClients(ctx context.Context, p ListParams) (*Page[model.Client], error)
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	CreateClient(ctx context.Context, c *model.Client) error
	UpdateClient(ctx context.Context, id int64, patch ClientPatch) (*model.Client, error)
	DeleteClient(ctx context.Context, id int64) error

	// Machines
	ListMachines(ctx context.Context, p ListParams) (*Page[MachineView], error)
	GetMachine(ctx context.Context, id int64) (*MachineView, error)
	CreateMachine(ctx context.Context, m *model.Machine) error
	UpdateMachine(ctx context.Context, id int64, patch MachinePatch) (*model.Machine, error)
	DeleteMachine(ctx context.Context, id int64) error
	MachinesForClient(ctx context.Context, clientID int64) ([]MachineView, error)

	// Serial numbers
	AssignSerial(ctx context.Context, in SerialInput) (*model.SerialNumber, error)
	ListSerials(ctx context.Context, f SerialFilter) (*Page[SerialView], error)
	SerialsForClient(ctx context.Context, clientID int64) ([]SerialView, error)
	SerialsForClientMachine(ctx context.Context, clientID, machineID int64) ([]SerialView, error)
	DeleteSerial(ctx context.Context, id int64) error

	// Parts
	ListParts(ctx context.Context, p ListParams) (*Page[model.Part], error)
	GetPart(ctx context.Context, id int64) (*model.Part, error)
	CreatePart(ctx context.Context, part *model.Part) error
	UpdatePart(ctx context.Context, id int64, patch PartPatch) (*model.Part, error)
	DeletePart(ctx context.Context, id int64) error
	RepairsForPart(ctx context.Context, partID int64) ([]PartRepairView, error)

	// Repairs
	ListRepairs(ctx context.Context, p ListParams) (*Page[RepairView], error)
	GetRepair(ctx context.Context, id int64) (*RepairView, error)
	CreateRepair(ctx context.Context, in RepairInput) (*model.Repair, error)
	UpdateRepair(ctx context.Context, id int64, patch RepairPatch) (*RepairView, error)
	DeleteRepair(ctx context.Context, id int64) error
	RepairsForMachineClient(ctx context.Context, machineID, clientID int64) ([]MachineRepairView, error)

	// Repair parts
	ListRepairParts(ctx context.Context, repairID int64) ([]PartUsage, error)
	AddRepairPart(ctx context.Context, repairID, partID int64, quantity int) (*model.RepairPart, error)
	DeleteRepairPart(ctx context.Context, id int64) error

	// Admissions
	ListAdmissions(ctx context.Context, p ListParams) (*Page[AdmissionView], error)
	GetAdmission(ctx context.Context, id int64) (*AdmissionView, error)
	CreateAdmission(ctx context.Context, a *model.Admission) error

	// Search and statistics
	Search(ctx context.Context, query string, kind SearchKind) (*SearchResult, error)
	Totals(ctx context.Context) (*Totals, error)
	TopUsedParts(ctx context.Context) ([]NamedCount, error)
	TopAssignedMachines(ctx context.Context) ([]NamedCount, error)
	TopRepairedMachines(ctx context.Context) ([]NamedCount, error)
	RecentRepairs(ctx context.Context) ([]RecentRepair, error)
	TopTechnicians(ctx context.Context) ([]NamedCount, error)

	Ping(ctx context.Context) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, log *zap.Logger) Store {
	return &gormStore{db: db, log: log}
}

// Ping checks that the database answers.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// exists reports whether a row of the given model has the given primary key.
func exists(tx *gorm.DB, value any, column string, id any) (bool, error) {
	var n int64
	if err := tx.Model(value).Where(column+" = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// likePattern builds a case-insensitive substring pattern for use with
// LOWER(column) LIKE ?.
func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

func wrapDB(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

var _ auth.Accounts = (*gormStore)(nil)
