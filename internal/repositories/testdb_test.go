package repositories

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/goodwinhq/household-staff-be/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the full ledger schema. A single
// connection keeps concurrent transactions serialized the way the production
// pool would under contention.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.CreditPurchase{},
		&models.CreditSpend{},
		&models.CreditAdjustment{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, credits int) *models.User {
	t.Helper()

	user := &models.User{
		Email:   email,
		Name:    "Test User",
		Credits: credits,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
