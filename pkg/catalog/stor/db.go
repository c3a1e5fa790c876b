// Package stor is the local cache for catalog metadata. Fetched
// observation rows are kept in a sqlite database so searches and lookups
// keep working offline.
package stor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/mitchellh/go-homedir"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/panoptes-data/pandata/pkg/catalog/model"
)

// SqliteInMemoryDSN is used by tests that want a throwaway database.
const SqliteInMemoryDSN = "file::memory:?cache=shared"

// DefaultDBPath returns the on-disk location of the cache database,
// ~/.pandata/catalog.db.
func DefaultDBPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".pandata", "catalog.db"), nil
}

// ConnectSqlite opens (creating if needed) the sqlite database at dsn and
// runs the migrations. For file DSNs the parent directory is created as
// well, so a first run does not need ~/.pandata to exist.
func ConnectSqlite(dsn string) (*gorm.DB, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, err
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// MustConnectSqlite is ConnectSqlite for callers that cannot continue
// without the cache; it exits on failure.
func MustConnectSqlite(dsn string) *gorm.DB {
	db, err := ConnectSqlite(dsn)
	if err != nil {
		log.Fatalf("Failed to open cache db (%s): %s", dsn, err)
	}

	return db
}

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&model.Observation{})
}
