package config

import (
	"fmt"

	"github.com/akhil-nair-17/FestPay/models"
	"github.com/akhil-nair-17/FestPay/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	if err := Migrate(DB); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}

// Migrate runs the schema migration on the given connection. Split out from
// InitDB so tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.ServiceListing{},
		&models.Booking{},
		&models.PaymentRecord{},
		&models.EscrowAccount{},
		&models.PaymentMilestone{},
		&models.ServiceAgreement{},
		&models.AgreementMilestone{},
	)
	return utils.WrapError(err, "auto migration failed")
}
