package metadb

import (
	"fmt"
	"testing"

	"go.suretynet.io/surety/db"
	"go.suretynet.io/surety/db/pebbledb"
)

func New(typ, dir string) (db.Database, error) {
	switch typ {
	case db.TypePebble:
		return pebbledb.New(db.Options{Path: dir})
	default:
		return nil, fmt.Errorf("invalid dbType: %q. Available types: %q",
			typ, db.TypePebble)
	}
}

func NewTest(tb testing.TB) db.Database {
	database, err := New(db.TypePebble, tb.TempDir())
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() { database.Close() })
	return database
}
