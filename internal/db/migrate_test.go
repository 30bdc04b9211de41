package db

import (
	"reflect"
	"testing"
	"testing/fstest"
)

func TestPendingFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_b.up.sql":   {Data: []byte("select 2")},
		"migrations/0001_a.up.sql":   {Data: []byte("select 1")},
		"migrations/0001_a.down.sql": {Data: []byte("select 0")},
		"migrations/README":          {Data: []byte("notes")},
	}

	got, err := pendingFiles(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"0001_a.up.sql", "0002_b.up.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pendingFiles() = %v, want %v", got, want)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := pendingFiles(migrationsFS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 || got[0] != "0001_generation_runs.up.sql" {
		t.Errorf("embedded migrations = %v", got)
	}
}
