package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/jbweber/homelab/northwind/internal/datastore"
)

var nameReplacer = strings.NewReplacer("/", "_", " ", "_")

// NewTestDSN generates a DSN for an in-memory SQLite database for testing purposes.
func NewTestDSN(testName string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", nameReplacer.Replace(testName))
}

// SetupTestDB creates a migrated in-memory database named after the test.
// The database is closed when the test finishes.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	ds, err := datastore.New(NewTestDSN(t.Name()))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if err := ds.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	return ds.DB
}
