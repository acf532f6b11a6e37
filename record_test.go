package rr

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// test snapshot serialization round trip
func TestSnapshotRoundTrip(t *testing.T) {
	records := []ContentRecord{
		{
			SourceID:   "openai_news",
			SourceName: "OpenAI News",
			Category:   "company",
			Title:      "Some Announcement",
			Link:       "https://example.com/announcement",
			Published:  "2026-08-30T12:00:00Z",
			Summary:    "A short summary.",
			Key:        recordKey("openai_news", "https://example.com/announcement"),
		},
		{
			SourceID:   "arxiv_cs_lg",
			SourceName: "arXiv cs.LG",
			Category:   "arxiv",
			Title:      "A Paper With No Timestamp",
			Link:       "https://example.com/paper",
			Published:  "",
			Summary:    "",
			Key:        recordKey("arxiv_cs_lg", "https://example.com/paper"),
		},
	}

	path := filepath.Join(t.TempDir(), "snapshot.json")

	snapshot := NewSnapshot(records)
	if err := snapshot.WriteFile(path); err != nil {
		t.Fatalf("failed to write snapshot: %s", err)
	}

	read, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("failed to read snapshot: %s", err)
	}

	if read.Count != len(records) {
		t.Errorf("expected count %d, got %d", len(records), read.Count)
	}
	if !reflect.DeepEqual(read.Items, records) {
		t.Errorf("expected records %+v, got %+v", records, read.Items)
	}
}

// test that snapshot writes leave no temp files behind
func TestSnapshotWriteIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")

	if err := NewSnapshot(nil).WriteFile(path); err != nil {
		t.Fatalf("failed to write snapshot: %s", err)
	}
	if err := NewSnapshot([]ContentRecord{{Title: "overwrite"}}).WriteFile(path); err != nil {
		t.Fatalf("failed to overwrite snapshot: %s", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %s", err)
	}
	if len(entries) != 1 {
		names := []string{}
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		t.Errorf("expected only the snapshot file in dir, got: %s", strings.Join(names, ", "))
	}
}

// test reading a missing snapshot
func TestReadSnapshotMissing(t *testing.T) {
	if _, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Errorf("expected an error for a missing snapshot")
	}
}

// test `SanitizeTitle`
func TestSanitizeTitle(t *testing.T) {
	for original, expected := range map[string]string{
		"Plain Title":                       "Plain Title",
		"Title: With / Punct!":              "Title With  Punct",
		"  padded  ":                        "padded",
		"under_score-and-dash":              "under_score-and-dash",
		"한글 제목도 안전하게":                       "한글 제목도 안전하게",
		strings.Repeat("a", 61):             strings.Repeat("a", 60),
		strings.Repeat("b", 60):             strings.Repeat("b", 60),
		"unicode" + strings.Repeat("글", 60): "unicode" + strings.Repeat("글", 53),
	} {
		if sanitized := SanitizeTitle(original); sanitized != expected {
			t.Errorf("expected sanitized title: '%s' vs actual: '%s'", expected, sanitized)
		}
	}
}

// test `recordKey`
func TestRecordKey(t *testing.T) {
	a := recordKey("src", "https://example.com/1")
	b := recordKey("src", "https://example.com/1")
	c := recordKey("src", "https://example.com/2")
	d := recordKey("other", "https://example.com/1")

	if a != b {
		t.Errorf("expected identical keys for identical inputs")
	}
	if a == c || a == d {
		t.Errorf("expected distinct keys for distinct inputs")
	}
}
