package rr

import (
	"fmt"
	"os"
	"path/filepath"
)

////////////////
//
// (flat-file store)
//

// file store, one markdown file per analyzed record
type fileStore struct {
	dirpath string

	verbose bool
}

// Exists checks whether an artifact for given title is stored.
func (s *fileStore) Exists(title string) bool {
	v(s.verbose, "fileStore - checking existence of artifact for title: %s", title)

	_, err := os.Stat(s.artifactPath(title))

	return err == nil
}

// Save writes the analysis of given record as a standalone file.
func (s *fileStore) Save(record ContentRecord, report string) error {
	path := s.artifactPath(record.Title)

	v(s.verbose, "fileStore - saving artifact to: %s", path)

	if err := writeFileAtomic(path, []byte(report)); err != nil {
		return fmt.Errorf("failed to save artifact for '%s': %w", record.Title, err)
	}

	return nil
}

// Fetch reads the artifact for given title, nil when it is absent.
func (s *fileStore) Fetch(title string) *AnalysisArtifact {
	v(s.verbose, "fileStore - fetching artifact for title: %s", title)

	bytes, err := os.ReadFile(s.artifactPath(title))
	if err != nil {
		return nil
	}

	return &AnalysisArtifact{
		RecordTitle: title,
		ReportText:  string(bytes),
	}
}

// SetVerbose sets the verbosity of the store.
func (s *fileStore) SetVerbose(v bool) {
	s.verbose = v
}

// artifact path for given title
func (s *fileStore) artifactPath(title string) string {
	return filepath.Join(s.dirpath, SanitizeTitle(title)+artifactFileExtension)
}

// return a new file store rooted at given directory, creating it if needed
func newFileStore(dirpath string) (*fileStore, error) {
	if err := os.MkdirAll(dirpath, 0o755); err != nil {
		return nil, err
	}

	return &fileStore{
		dirpath: dirpath,
	}, nil
}
