package rr

import (
	"os"
	"path/filepath"
	"testing"
)

// test the flat-file store round trip
func TestFileStore(t *testing.T) {
	dir := t.TempDir()

	store, err := newFileStore(filepath.Join(dir, "reports"))
	if err != nil {
		t.Fatalf("failed to create file store: %s", err)
	}

	record := ContentRecord{
		Title: "Some: Paper / Title!",
		Link:  "https://example.com/paper",
		Key:   recordKey("src", "https://example.com/paper"),
	}

	if store.Exists(record.Title) {
		t.Errorf("expected no artifact before saving")
	}
	if fetched := store.Fetch(record.Title); fetched != nil {
		t.Errorf("expected nil for an absent artifact, got: %+v", fetched)
	}

	if err := store.Save(record, "# Report\n\ncontents"); err != nil {
		t.Fatalf("failed to save artifact: %s", err)
	}

	if !store.Exists(record.Title) {
		t.Errorf("expected the artifact to exist after saving")
	}

	fetched := store.Fetch(record.Title)
	if fetched == nil {
		t.Fatalf("expected to fetch the saved artifact")
	}
	if fetched.RecordTitle != record.Title || fetched.ReportText != "# Report\n\ncontents" {
		t.Errorf("unexpected artifact: %+v", fetched)
	}

	// the on-disk name is the sanitized title slug
	expectedPath := filepath.Join(dir, "reports", SanitizeTitle(record.Title)+artifactFileExtension)
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected artifact file at '%s': %s", expectedPath, err)
	}
}

// test that an unopenable db file yields an error, not a nil store
func TestNewDBStoreOpenFailure(t *testing.T) {
	store, err := newDBStore(filepath.Join(t.TempDir(), "missing", "reports.db"))
	if err == nil {
		t.Fatalf("expected an error for a db file in a missing directory")
	}
	if store != nil {
		t.Errorf("expected a nil store on open failure, got: %+v", store)
	}
}

// test the db store round trip and upsert
func TestDBStore(t *testing.T) {
	store, err := newDBStore(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("failed to create db store: %s", err)
	}

	record := ContentRecord{
		SourceID:   "src",
		SourceName: "Source",
		Title:      "A Stored Paper",
		Link:       "https://example.com/stored",
		Key:        recordKey("src", "https://example.com/stored"),
	}

	if store.Exists(record.Title) {
		t.Errorf("expected no report before saving")
	}

	if err := store.Save(record, "first version"); err != nil {
		t.Fatalf("failed to save report: %s", err)
	}
	if err := store.Save(record, "second version"); err != nil {
		t.Fatalf("failed to upsert report: %s", err)
	}

	fetched := store.Fetch(record.Title)
	if fetched == nil {
		t.Fatalf("expected to fetch the stored report")
	}
	if fetched.ReportText != "second version" {
		t.Errorf("expected the upserted report, got: '%s'", fetched.ReportText)
	}

	if fetched := store.Fetch("No Such Title"); fetched != nil {
		t.Errorf("expected nil for an absent title, got: %+v", fetched)
	}
}
