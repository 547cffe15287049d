package models

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"addressbook/server/logger"
	"addressbook/shared"
	"addressbook/utils"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "addressbook.db"

var logg = logger.NewLogger()
var db *gorm.DB

// AutoMigrate connects to the configured database & migrates the schema.
func AutoMigrate(config shared.DatabaseConfig) error {
	err := openDB(config)
	if err != nil {
		return err
	}

	err = db.AutoMigrate(&Tag{}, &Contact{}, &PhoneNumber{}, &Address{})
	if err != nil {
		return errors.Wrap(err, "failed to migrate database schema")
	}

	logg.Infof("Connected to %v database", adapterName(config.Adapter))
	return nil
}

// InitializeTestDb sets up a shared in-memory database for tests, wiping
// any records left behind by a previous test.
func InitializeTestDb() {
	var err error

	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormConfig())
	if err != nil {
		log.Panic(err)
	}

	err = db.AutoMigrate(&Tag{}, &Contact{}, &PhoneNumber{}, &Address{})
	if err != nil {
		log.Panic(err)
	}

	for _, table := range []string{"contact_tags", "phone_numbers", "addresses", "tags", "contacts"} {
		db.Exec(fmt.Sprintf("DELETE FROM %v", table))
	}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func openDB(config shared.DatabaseConfig) error {
	var err error

	switch adapterName(config.Adapter) {
	case "postgres":
		if config.Postgres.DSN == "" {
			return errors.New("'database.postgres.dsn' is required for the postgres adapter")
		}
		db, err = gorm.Open(postgres.Open(config.Postgres.DSN), gormConfig())
	default:
		dsn, dsnErr := sqliteDSN(config.Sqlite.RootDir)
		if dsnErr != nil {
			return errors.Wrap(dsnErr, "failed to set sqlite DSN")
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormConfig())
	}

	if err != nil {
		return errors.Wrap(err, "failed to connect database")
	}

	return nil
}

func adapterName(adapter string) string {
	if adapter == "" {
		return "sqlite"
	}

	return adapter
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}

func sqliteDSN(rootDir string) (string, error) {
	if rootDir == "" {
		workingDir, err := os.Getwd()
		if err != nil {
			return "", err
		}
		rootDir = workingDir
	}

	dbDir := filepath.Join(rootDir, "db")
	if err := utils.CreateDirIfNotExist(dbDir); err != nil {
		return "", err
	}

	return fmt.Sprintf("file:%v?_journal_mode=WAL", filepath.Join(dbDir, DB_NAME)), nil
}
