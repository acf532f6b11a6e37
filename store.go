package rr

const (
	artifactFileExtension = ".md"

	slowQueryThresholdSeconds = 3
)

// ArtifactStore is an interface of per-record analysis storage.
//
// Artifacts are joined back onto records by title; a missing artifact is a
// valid state (record not yet analyzed), never an error.
type ArtifactStore interface {
	Exists(title string) bool
	Save(record ContentRecord, report string) error
	Fetch(title string) *AnalysisArtifact

	SetVerbose(v bool)
}

// AnalysisArtifact is the persisted structured-analysis output for one
// record. Never mutated after creation.
type AnalysisArtifact struct {
	RecordTitle string
	ReportText  string
}
