package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGuardedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.PettyCashAccountModel{}, &lookupRow{}))
	require.NoError(t, Guard{}.Register(db))
	return db
}

type lookupRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func newAccountModel(tenantID uuid.UUID) *models.PettyCashAccountModel {
	m := &models.PettyCashAccountModel{Code: "PCA001", Name: "Front desk", IsActive: true}
	m.ID = uuid.New()
	m.TenantID = tenantID
	m.Version = 1
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	m.InitialBalance = decimal.NewFromInt(100)
	m.CurrentBalance = decimal.NewFromInt(100)
	return m
}

func TestGuard_Create(t *testing.T) {
	db := newGuardedDB(t)

	t.Run("rejects an empty tenant", func(t *testing.T) {
		err := db.Create(newAccountModel(uuid.Nil)).Error
		assert.ErrorIs(t, err, ErrMissingTenant)
	})

	t.Run("accepts a tenant row", func(t *testing.T) {
		assert.NoError(t, db.Create(newAccountModel(uuid.New())).Error)
	})
}

func TestGuard_Query(t *testing.T) {
	db := newGuardedDB(t)
	tenantA := uuid.New()
	require.NoError(t, db.Create(newAccountModel(tenantA)).Error)
	require.NoError(t, db.Create(newAccountModel(uuid.New())).Error)

	t.Run("rejects a query without tenant condition", func(t *testing.T) {
		var rows []models.PettyCashAccountModel
		err := db.Find(&rows).Error
		assert.ErrorIs(t, err, ErrUnscopedStatement)
	})

	t.Run("scoped query sees only its tenant", func(t *testing.T) {
		var rows []models.PettyCashAccountModel
		require.NoError(t, db.Scopes(Scope(tenantA)).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, tenantA, rows[0].TenantID)
	})

	t.Run("explicit where clause counts", func(t *testing.T) {
		var count int64
		err := db.WithContext(context.Background()).Model(&models.PettyCashAccountModel{}).
			Where("tenant_id = ? AND is_active = ?", tenantA, true).Count(&count).Error
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("tables without tenant column pass", func(t *testing.T) {
		require.NoError(t, db.Create(&lookupRow{Name: "cash"}).Error)
		var rows []lookupRow
		require.NoError(t, db.Find(&rows).Error)
		assert.Len(t, rows, 1)
	})
}

func TestGuard_Update(t *testing.T) {
	db := newGuardedDB(t)
	account := newAccountModel(uuid.New())
	require.NoError(t, db.Create(account).Error)

	err := db.Model(&models.PettyCashAccountModel{}).Where("id = ?", account.ID).Update("name", "x").Error
	assert.ErrorIs(t, err, ErrUnscopedStatement)

	err = db.Model(&models.PettyCashAccountModel{}).
		Where("tenant_id = ? AND id = ?", account.TenantID, account.ID).Update("name", "Workshop").Error
	assert.NoError(t, err)
}
