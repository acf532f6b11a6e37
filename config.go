package rr

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	defaultItemLimitPerSource = 5
	defaultRequestsPerMinute  = 60
	defaultRequestBurst       = 1

	defaultSnapshotFilepath = "./ai_research_feed.json"
	defaultArtifactsDirpath = "./analysis_reports"
	defaultReportFilepath   = "./dashboard/index.html"
)

// artifact store kinds
const (
	ArtifactStoreFiles = "files"
	ArtifactStoreDB    = "db"
)

// config validation errors
var (
	ErrConfigNoSources       = errors.New("at least one source is required")
	ErrConfigNoAPIKey        = errors.New("google ai api key is required")
	ErrConfigUnknownStore    = errors.New("artifact store must be 'files' or 'db'")
	ErrConfigSourceNoID      = errors.New("source id is required")
	ErrConfigSourceNoURL     = errors.New("source url is required")
	ErrConfigInvalidRequests = errors.New("requests_per_minute must be positive")
)

// FeedSource describes one syndicated source to normalize.
type FeedSource struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"` // only "rss" is supported for now
	URL       string `json:"url"`
	Category  string `json:"category,omitempty"`
	ItemLimit int    `json:"item_limit,omitempty"`
}

// Config is the process configuration, constructed once and passed into the
// client. No component reads configuration from anywhere else.
type Config struct {
	GoogleAIAPIKey string `json:"google_ai_api_key"`
	GoogleAIModel  string `json:"google_ai_model,omitempty"`

	Sources []FeedSource `json:"sources"`

	SnapshotFilepath    string `json:"snapshot_filepath,omitempty"`
	ArtifactsDirpath    string `json:"artifacts_dirpath,omitempty"`
	ArtifactStore       string `json:"artifact_store,omitempty"` // "files" (default) or "db"
	ArtifactsDBFilepath string `json:"artifacts_db_filepath,omitempty"`
	ReportFilepath      string `json:"report_filepath,omitempty"`

	TagCloudFilepath string   `json:"tag_cloud_filepath,omitempty"`
	TagCloudCommand  []string `json:"tag_cloud_command,omitempty"`

	RequestsPerMinute  int  `json:"requests_per_minute,omitempty"`
	RequestBurst       int  `json:"request_burst,omitempty"`
	FetchLinkedContent bool `json:"fetch_linked_content,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig reads a config file in JWCC format (JSON with comments and
// trailing commas), applies defaults, and validates it.
func LoadConfig(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if bytes, err = StandardizeJSON(bytes); err != nil {
		return nil, fmt.Errorf("failed to standardize config file: %w", err)
	}

	var conf Config
	if err := json.Unmarshal(bytes, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	conf.applyDefaults()

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

// apply default values to missing fields
func (c *Config) applyDefaults() {
	if c.GoogleAIModel == "" {
		c.GoogleAIModel = defaultGoogleAIModel
	}
	if c.SnapshotFilepath == "" {
		c.SnapshotFilepath = defaultSnapshotFilepath
	}
	if c.ArtifactsDirpath == "" {
		c.ArtifactsDirpath = defaultArtifactsDirpath
	}
	if c.ArtifactStore == "" {
		c.ArtifactStore = ArtifactStoreFiles
	}
	if c.ArtifactsDBFilepath == "" {
		c.ArtifactsDBFilepath = "./analysis_reports.db"
	}
	if c.ReportFilepath == "" {
		c.ReportFilepath = defaultReportFilepath
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = defaultRequestsPerMinute
	}
	if c.RequestBurst == 0 {
		c.RequestBurst = defaultRequestBurst
	}

	for i := range c.Sources {
		if c.Sources[i].Kind == "" {
			c.Sources[i].Kind = sourceKindRSS
		}
		if c.Sources[i].ItemLimit <= 0 {
			c.Sources[i].ItemLimit = defaultItemLimitPerSource
		}
		if c.Sources[i].Name == "" {
			c.Sources[i].Name = c.Sources[i].ID
		}
	}
}

// Validate checks the config for missing or malformed values.
func (c *Config) Validate() error {
	errs := []error{}

	if len(c.Sources) == 0 {
		errs = append(errs, ErrConfigNoSources)
	}
	for _, src := range c.Sources {
		if strings.TrimSpace(src.ID) == "" {
			errs = append(errs, fmt.Errorf("%w (name: '%s')", ErrConfigSourceNoID, src.Name))
		}
		if strings.TrimSpace(src.URL) == "" {
			errs = append(errs, fmt.Errorf("%w (id: '%s')", ErrConfigSourceNoURL, src.ID))
		}
	}
	if c.ArtifactStore != ArtifactStoreFiles && c.ArtifactStore != ArtifactStoreDB {
		errs = append(errs, fmt.Errorf("%w (got: '%s')", ErrConfigUnknownStore, c.ArtifactStore))
	}
	if c.RequestsPerMinute < 0 {
		errs = append(errs, ErrConfigInvalidRequests)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
