// Package testutil holds helpers shared by the repositories' and handlers' tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/silktrader/gliderwatch/pkg/storage/sqlite"
	"github.com/sirupsen/logrus/hooks/test"
)

// OpenDB creates a migrated SQLite database in a temporary directory, closed automatically at the end of the test.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	logger, _ := test.NewNullLogger()
	storage, err := sqlite.New(logger, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(storage.Close)
	return storage.Connection
}

// Place is a gazetteer row.
type Place struct {
	Name      string
	Postcode  string
	Latitude  string
	Longitude string
}

// SeedGazetteer creates the externally managed au_postcodes table and fills it with places.
func SeedGazetteer(t *testing.T, connection *sql.DB, places ...Place) {
	t.Helper()
	if _, err := connection.Exec(`
		CREATE TABLE IF NOT EXISTS au_postcodes (
			postcode TEXT,
			place_name TEXT,
			state_name TEXT,
			latitude REAL,
			longitude REAL
		)`); err != nil {
		t.Fatalf("create au_postcodes: %v", err)
	}
	for _, p := range places {
		if _, err := connection.Exec(
			`INSERT INTO au_postcodes (postcode, place_name, latitude, longitude) VALUES (?, ?, ?, ?)`,
			p.Postcode, p.Name, p.Latitude, p.Longitude,
		); err != nil {
			t.Fatalf("seed au_postcodes: %v", err)
		}
	}
}
