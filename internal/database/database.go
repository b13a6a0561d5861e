package database

import (
	"database/sql"
	"errors"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/safina/internal/logger"
	"github.com/example/safina/internal/models"
)

var db *gorm.DB

// Connect initializes the database connection, runs migrations and seeds
// the settings singleton.
func Connect(dsn string) *gorm.DB {
	log := logger.WithComponent("database")

	if db != nil {
		return db
	}

	if err := ensureDatabase(dsn); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure database")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := conn.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Warn().Err(err).Msg("failed to ensure uuid-ossp extension")
	}

	if err := migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	if err := seedSettings(conn); err != nil {
		log.Fatal().Err(err).Msg("settings seed failed")
	}

	db = conn
	return db
}

// DB exposes the initialized gorm.DB instance.
func DB() *gorm.DB {
	return db
}

func migrate(conn *gorm.DB) error {
	migrations := []interface{}{
		&models.Customer{},
		&models.Representative{},
		&models.Order{},
		&models.Transaction{},
		&models.Deposit{},
		&models.TempOrder{},
		&models.SubOrder{},
		&models.Creditor{},
		&models.ExternalDebt{},
		&models.AppSettings{},
	}

	for _, migration := range migrations {
		if err := conn.AutoMigrate(migration); err != nil {
			return err
		}
	}

	return nil
}

// seedSettings creates the singleton settings row with neutral rates when
// none exists yet. Rates must be positive, so 1 stands in until an admin
// sets the real ones.
func seedSettings(conn *gorm.DB) error {
	var settings models.AppSettings
	err := conn.First(&settings).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	one := decimal.NewFromInt(1)
	seed := models.AppSettings{
		ExchangeRate:        one,
		CardsCashRate:       one,
		CardsBankRate:       one,
		CardsBalanceRate:    one,
		ProductsCashRate:    one,
		ProductsBankRate:    one,
		ProductsBalanceRate: one,
	}
	if err := conn.Create(&seed).Error; err != nil {
		return err
	}

	log := logger.WithComponent("database")
	log.Warn().
		Msg("seeded default app settings with neutral rates")
	return nil
}

func ensureDatabase(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return nil
	}

	parsed.Path = "/postgres"
	masterDSN := parsed.String()

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}
