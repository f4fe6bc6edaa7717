// File: /database/database.go
package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reabastece-api/models"
)

// Dialector picks the gorm driver for a configured database driver name.
func Dialector(driver, databaseURL string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(databaseURL), nil
	case "postgres":
		return postgres.Open(databaseURL), nil
	case "sqlite":
		return sqlite.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func Initialize(driver, databaseURL string, debug bool) (*gorm.DB, error) {
	dialector, err := Dialector(driver, databaseURL)
	if err != nil {
		return nil, err
	}

	logMode := logger.Warn
	if debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logMode),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Refueling{},
		&models.VehicleUsage{},
		&models.ActivityLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	addCustomIndexes(db, log)
	return nil
}

// Composite indexes backing the list orderings and the monthly dashboard.
var customIndexes = []struct {
	name string
	sql  string
}{
	{"idx_vehicles_user_created", "CREATE INDEX IF NOT EXISTS idx_vehicles_user_created ON vehicles(user_id, created_at)"},
	{"idx_refuelings_user_date", "CREATE INDEX IF NOT EXISTS idx_refuelings_user_date ON refuelings(user_id, date)"},
	{"idx_vehicle_usage_user_date", "CREATE INDEX IF NOT EXISTS idx_vehicle_usage_user_date ON vehicle_usage(user_id, date)"},
	{"idx_vehicle_usage_user_paid", "CREATE INDEX IF NOT EXISTS idx_vehicle_usage_user_paid ON vehicle_usage(user_id, is_paid)"},
}

func addCustomIndexes(db *gorm.DB, log *zap.Logger) {
	for _, idx := range customIndexes {
		// MySQL has no IF NOT EXISTS for indexes; a failure here is not fatal.
		if err := db.Exec(idx.sql).Error; err != nil {
			log.Warn("could not create index", zap.String("index", idx.name), zap.Error(err))
		}
	}
}

// SeedData populates an empty database with a demo user and vehicle for development
func SeedData(db *gorm.DB, log *zap.Logger) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		log.Info("database already has data, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	year := 2021
	ethanol := 7.5
	gasoline := 11.0
	user := models.User{
		ID:       uuid.New().String(),
		Name:     "Demo User",
		Email:    "demo@reabastece.app",
		Password: string(hash),
	}
	vehicle := models.Vehicle{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		Name:     "Carro da família",
		Brand:    "Volkswagen",
		Model:    "Gol",
		Year:     &year,
		FuelType: models.FuelFlex,
		ConsumptionRates: models.ConsumptionRates{
			EthanolConsumption:  &ethanol,
			GasolineConsumption: &gasoline,
		},
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&vehicle).Error
	})
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	log.Info("database seeded", zap.String("email", user.Email))
	return nil
}
