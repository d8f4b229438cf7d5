package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/goodwinhq/household-staff-be/internal/models"
	"github.com/goodwinhq/household-staff-be/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func newTestLedger(t *testing.T, email string, credits int) (*gorm.DB, repositories.CreditRepo, *models.User) {
	t.Helper()

	db := newTestDB(t)
	repo := repositories.NewCreditRepo(db)

	user := &models.User{Email: email, Credits: credits}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return db, repo, user
}
