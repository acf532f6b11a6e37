// Package rr fetches syndicated research feeds, analyzes each entry with a
// generative model, and aggregates the stored analyses into a report.
package rr

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/time/rate"

	ssg "github.com/meinside/simple-scrapper-go"
)

const (
	analysisTimeoutSeconds = 6 * 60 // timeout seconds for one analysis (thinking + streamed generation)

	maxRetryCount = 3
)

// Client struct
type Client struct {
	conf  *Config
	store ArtifactStore

	limiter *rate.Limiter

	// live side-channel outputs for streamed generation (not part of the
	// functional contract)
	thoughtsOut io.Writer
	answersOut  io.Writer

	scrapper *ssg.Scrapper
	tagCloud TagCloudGenerator

	verbose bool
}

// NewClient returns a new client for given config.
func NewClient(conf *Config) (*Client, error) {
	var store ArtifactStore
	var err error

	switch conf.ArtifactStore {
	case ArtifactStoreDB:
		if store, err = newDBStore(conf.ArtifactsDBFilepath); err != nil {
			return nil, fmt.Errorf("failed to open artifact db: %w", err)
		}
	default:
		if store, err = newFileStore(conf.ArtifactsDirpath); err != nil {
			return nil, fmt.Errorf("failed to open artifact directory: %w", err)
		}
	}

	client := &Client{
		conf:  conf,
		store: store,

		limiter: rate.NewLimiter(
			rate.Limit(float64(conf.RequestsPerMinute)/60.0),
			conf.RequestBurst,
		),

		thoughtsOut: os.Stdout,
		answersOut:  os.Stdout,

		verbose: conf.Verbose,
	}
	client.store.SetVerbose(conf.Verbose)

	if len(conf.TagCloudCommand) > 0 {
		client.tagCloud = NewCommandTagCloud(conf.TagCloudCommand)
	}

	return client, nil
}

// ArtifactStore returns the client's artifact store.
func (c *Client) ArtifactStore() ArtifactStore {
	return c.store
}

// SetVerbose sets the client's verbose mode.
func (c *Client) SetVerbose(verbose bool) {
	c.verbose = verbose
	c.store.SetVerbose(verbose)
}

// SetLiveOutput sets the writers which receive the streamed reasoning and
// answer fragments while an analysis is in flight. Pass io.Discard to
// silence either channel; the returned analysis is not affected.
func (c *Client) SetLiveOutput(thoughts, answers io.Writer) {
	if thoughts != nil {
		c.thoughtsOut = thoughts
	}
	if answers != nil {
		c.answersOut = answers
	}
}

// SetScrapper sets an optional scrapper for fetching linked page contents.
func (c *Client) SetScrapper(scrapper *ssg.Scrapper) {
	c.scrapper = scrapper
}

// SetTagCloudGenerator sets the collaborator which renders a tag cloud image
// from concatenated record summaries.
func (c *Client) SetTagCloudGenerator(generator TagCloudGenerator) {
	c.tagCloud = generator
}

// SetRequestsPerMinute reconfigures the pacing of analysis requests.
func (c *Client) SetRequestsPerMinute(requestsPerMinute float64, burst int) {
	c.limiter = rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), burst)
}
