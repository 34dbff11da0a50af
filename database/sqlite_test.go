package database

import (
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestOpenSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "carwash.db")

	db, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	for _, table := range []string{"Users", "Schedules", "CarDetails", "ScheduledDates"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("Failed to read foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("Expected foreign keys to be enforced, got %d", fk)
	}

	db.Close()

	t.Run("ReopenIsIdempotent", func(t *testing.T) {
		again, err := OpenSQLite(dbPath)
		if err != nil {
			t.Fatalf("Expected reopening a migrated database to succeed, got %v", err)
		}
		again.Close()
	})
}

func TestFormatTimeSortsChronologically(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 5, 0, time.FixedZone("EAT", 3*3600))
	times := []time.Time{
		base,
		base.Add(500 * time.Millisecond),
		base.Add(123450 * time.Nanosecond),
		base.Add(1234567 * time.Nanosecond),
		base.Add(time.Second),
	}
	encoded := make([]string, len(times))
	for i, tm := range times {
		encoded[i] = FormatTime(tm)
		if len(encoded[i]) != len(encoded[0]) {
			t.Errorf("Expected fixed width, got %q", encoded[i])
		}
	}
	sort.Strings(encoded)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	for i, s := range encoded {
		got, err := ParseTime(s)
		if err != nil {
			t.Fatalf("ParseTime(%q) failed: %v", s, err)
		}
		if !got.Equal(times[i]) {
			t.Errorf("position %d: text order gave %v, time order %v", i, got, times[i])
		}
	}

	if _, err := ParseTime("2026-03-01T09:00:05.5Z"); err != nil {
		t.Errorf("Expected variable-width values to parse, got %v", err)
	}
}
