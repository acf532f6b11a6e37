package rr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	sourceKindRSS = "rss"

	maxSummaryLength = 400
	summaryEllipsis  = "..."
)

var consecutiveWhitespaces = regexp.MustCompile(`\s+`)

// FetchRecords retrieves and normalizes entries from all configured sources.
//
// A failing source does not abort the run: its error is logged and collected,
// the remaining sources still execute, and whatever was successfully
// normalized is returned. The returned error is a join of per-source errors,
// nil when every source succeeded.
func (c *Client) FetchRecords(ctx context.Context) (records []ContentRecord, err error) {
	records = []ContentRecord{}
	errs := []error{}

	for _, source := range c.conf.Sources {
		if source.Kind != sourceKindRSS {
			v(c.verbose, "skipping source '%s' with unsupported kind: %s", source.ID, source.Kind)
			continue
		}

		v(c.verbose, "fetching source '%s' from url: %s", source.ID, source.URL)

		fetched, err := c.fetchSource(ctx, source)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to fetch source '%s': %w", source.ID, err))
			continue
		}

		v(c.verbose, "got %d record(s) from source: %s", len(fetched), source.ID)

		records = append(records, fetched...)
	}

	if len(errs) > 0 {
		err = errors.Join(errs...)
	}

	return records, err
}

// fetch one source and normalize its entries, capped at the source's item
// limit
func (c *Client) fetchSource(ctx context.Context, source FeedSource) (records []ContentRecord, err error) {
	req, err := http.NewRequestWithContext(ctx, "GET", source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", fakeUserAgent)
	req.Header.Set("Content-Type", "text/xml;charset=UTF-8")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("http error %d from url: '%s'", resp.StatusCode, source.URL)
	}

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed document: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(bytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := feed.Items
	if len(items) > source.ItemLimit {
		// take them in the feed's native order (typically reverse-chronological)
		items = items[:source.ItemLimit]
	}

	records = make([]ContentRecord, 0, len(items))
	for _, item := range items {
		records = append(records, normalizeEntry(source, item))
	}

	return records, nil
}

// normalize one feed entry into a content record
func normalizeEntry(source FeedSource, item *gofeed.Item) ContentRecord {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)

	return ContentRecord{
		SourceID:   source.ID,
		SourceName: source.Name,
		Category:   source.Category,
		Title:      title,
		Link:       link,
		Published:  formatPublished(item),
		Summary:    normalizeSummary(item.Description),

		Key: recordKey(source.ID, link),
	}
}

// format an entry's publish (or update) timestamp as RFC3339 UTC,
// returning an empty string when there is none
func formatPublished(item *gofeed.Item) string {
	parsed := item.PublishedParsed
	if parsed == nil {
		parsed = item.UpdatedParsed
	}
	if parsed == nil {
		return ""
	}

	return parsed.UTC().Format(time.RFC3339)
}

// strip markup from an entry's description, collapse whitespace, and cap the
// length
func normalizeSummary(description string) string {
	return truncateSummary(stripTags(description), maxSummaryLength)
}

// strip markup tags from given text, keeping plain text only
func stripTags(text string) string {
	if text == "" {
		return ""
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
		text = doc.Text()
	}

	return strings.TrimSpace(consecutiveWhitespaces.ReplaceAllString(text, " "))
}

// truncate given text to `length` runes, appending an ellipsis when anything
// was cut off
func truncateSummary(text string, length int) string {
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}

	return string(runes[:length]) + summaryEllipsis
}
