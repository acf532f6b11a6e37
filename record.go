package rr

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"
)

const maxArtifactSlugLength = 60 // in runes

// ContentRecord is one normalized unit of syndicated content.
//
// Records are created by the feed normalizer and immutable afterward.
type ContentRecord struct {
	SourceID   string `json:"source_id"`
	SourceName string `json:"source_name"`
	Category   string `json:"category"`
	Title      string `json:"title"`
	Link       string `json:"link"`
	Published  string `json:"published"` // RFC3339 UTC, may be empty
	Summary    string `json:"summary"`

	// Key is a stable content-derived identity (source id + link); artifacts
	// on disk are still joined by title, see `SanitizeTitle`.
	Key string `json:"key,omitempty"`
}

// Snapshot is the serialized record set of one normalization run.
type Snapshot struct {
	GeneratedAt string          `json:"generated_at"`
	Count       int             `json:"count"`
	Items       []ContentRecord `json:"items"`
}

// NewSnapshot wraps given records into a snapshot stamped with the current
// time.
func NewSnapshot(records []ContentRecord) Snapshot {
	return Snapshot{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Count:       len(records),
		Items:       records,
	}
}

// WriteFile serializes the snapshot as human-indented JSON and writes it
// atomically to given path.
func (s Snapshot) WriteFile(path string) error {
	bytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if err := writeFileAtomic(path, bytes); err != nil {
		return fmt.Errorf("failed to write snapshot to '%s': %w", path, err)
	}

	return nil
}

// ReadSnapshot reads a snapshot from given path.
//
// A missing snapshot is an error: without it there is nothing to analyze or
// render.
func ReadSnapshot(path string) (*Snapshot, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot from '%s': %w", path, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(bytes, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot from '%s': %w", path, err)
	}

	return &snapshot, nil
}

// return a stable identity for a record of given source and link
func recordKey(sourceID, link string) string {
	return fmt.Sprintf("%x", sha1.Sum(fmt.Appendf(nil, "%s|%s", sourceID, link)))
}

// SanitizeTitle converts a record title into a filesystem-safe slug: only
// letters, digits, spaces, underscores and hyphens are kept, the result is
// trimmed and capped at 60 runes.
func SanitizeTitle(title string) string {
	var builder strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			builder.WriteRune(r)
		}
	}

	slug := strings.TrimSpace(builder.String())

	runes := []rune(slug)
	if len(runes) > maxArtifactSlugLength {
		slug = string(runes[:maxArtifactSlugLength])
	}

	return slug
}
