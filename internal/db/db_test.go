package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-shop-backend/config"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"plain file", "repairs.db", "repairs.db?_foreign_keys=on"},
		{"uri with params", "file:x?mode=memory&cache=shared", "file:x?mode=memory&cache=shared&_foreign_keys=on"},
		{"explicit setting kept", "repairs.db?_foreign_keys=off", "repairs.db?_foreign_keys=off"},
		{"short form kept", "repairs.db?_fk=1", "repairs.db?_fk=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLiteDSN(tt.dsn))
		})
	}
}

func TestInit_SQLiteEnforcesForeignKeys(t *testing.T) {
	db, err := Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:db_init?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	var roles int64
	require.NoError(t, db.Table("roles").Count(&roles).Error)
	assert.EqualValues(t, 4, roles)
}
