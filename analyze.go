package rr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"
)

// collectAnalysis drains a fragment sequence with an explicit two-state
// machine: the request starts out "thinking" and transitions to "answering"
// on the first non-empty answer fragment, terminally.
//
// While thinking, reasoning fragments are surfaced on the `thoughts` writer;
// once answering, late reasoning fragments are dropped. Answer fragments are
// echoed on the `answers` writer and concatenated, in arrival order, into
// the returned analysis text. The writers never affect the return value.
func collectAnalysis(fragments iter.Seq2[Fragment, error], thoughts, answers io.Writer) (analysis string, err error) {
	collected := []byte{}
	answering := false

	for fragment, err := range fragments {
		if err != nil {
			return string(collected), err
		}

		switch fragment.Kind {
		case FragmentReasoning:
			if !answering && fragment.Text != "" {
				_, _ = io.WriteString(thoughts, fragment.Text)
			}
		case FragmentAnswer:
			if fragment.Text == "" {
				continue
			}
			answering = true

			_, _ = io.WriteString(answers, fragment.Text)
			collected = append(collected, fragment.Text...)
		}
	}

	return string(collected), nil
}

// AnalyzeRecord generates a structured analysis of given record.
//
// The streamed reasoning and answer fragments are surfaced live on the
// client's output writers; only the concatenated answer text is returned.
// A transport or generation failure propagates to the caller.
func (c *Client) AnalyzeRecord(ctx context.Context, record ContentRecord) (analysis string, err error) {
	if c.conf.GoogleAIAPIKey == "" {
		return "", ErrConfigNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, analysisTimeoutSeconds*time.Second)
	defer cancel()

	record = c.enrichRecord(record)

	analysis, err = collectAnalysis(
		c.streamAnalysis(ctx, buildAnalysisPrompt(record)),
		c.thoughtsOut,
		c.answersOut,
	)
	if err != nil {
		v(c.verbose, "analysis of '%s' failed: %s", record.Title, errorString(err))

		return analysis, analysisError(record.Title, err)
	}

	return analysis, nil
}

// wrap a generation failure with the failing record's title, keeping the
// cause in the chain
func analysisError(title string, err error) error {
	return fmt.Errorf("failed to analyze '%s': %w", title, err)
}

// AnalyzeAndStoreRecords analyzes given records one at a time and saves each
// analysis to the artifact store.
//
// Requests are paced by the client's rate limiter. A failing record is
// logged and skipped, the batch continues; the returned error is a join of
// per-record errors. With `ignoreAlreadyAnalyzed`, records whose artifact
// already exists are not re-analyzed.
func (c *Client) AnalyzeAndStoreRecords(ctx context.Context, records []ContentRecord, ignoreAlreadyAnalyzed bool) error {
	errs := []error{}

	for i, record := range records {
		if ignoreAlreadyAnalyzed && c.store.Exists(record.Title) {
			v(c.verbose, "skipping already analyzed record: '%s'", record.Title)
			continue
		}

		// respect the external rate limit
		if err := c.limiter.Wait(ctx); err != nil {
			errs = append(errs, err)
			break
		}

		v(c.verbose, "analyzing record %d/%d: '%s'", i+1, len(records), record.Title)

		analysis, err := c.AnalyzeRecord(ctx, record)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := c.store.Save(record, analysis); err != nil {
			errs = append(errs, fmt.Errorf("failed to store analysis of '%s': %w", record.Title, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// enrichRecord fills an empty summary from the linked page, when configured
// to. Enrichment failures are not fatal: the record goes out as-is.
func (c *Client) enrichRecord(record ContentRecord) ContentRecord {
	if !c.conf.FetchLinkedContent || record.Summary != "" || record.Link == "" {
		return record
	}

	v(c.verbose, "fetching linked content for record: '%s'", record.Title)

	fetched, _, err := c.fetchLinked(maxRetryCount, record.Link)
	if err != nil {
		v(c.verbose, "failed to fetch linked content from '%s': %s", record.Link, err)
		return record
	}

	record.Summary = truncateSummary(stripTags(string(fetched)), maxSummaryLength)

	return record
}

// fetch linked page content, with the scrapper when one is set and the
// content is HTML
func (c *Client) fetchLinked(remainingRetryCount int, url string) (fetched []byte, contentType string, err error) {
	contentType, _ = getContentType(url, c.verbose)

	if c.scrapper != nil && isHTMLContent(contentType) {
		var crawled map[string]string
		crawled, err = c.scrapper.CrawlURLs([]string{url}, true)

		for _, page := range crawled {
			// the first (and only) value
			fetched = []byte(page)
			break
		}
	} else {
		fetched, contentType, err = fetchURLContent(url, c.verbose)
	}

	// retry if needed
	if err != nil && remainingRetryCount > 0 {
		v(c.verbose, "retrying fetching from url '%s' (remaining count: %d)", url, remainingRetryCount)

		return c.fetchLinked(remainingRetryCount-1, url)
	}

	// if all retries failed with the scrapper, try once without it
	if err != nil && remainingRetryCount == 0 && c.scrapper != nil {
		v(c.verbose, "fetching from url '%s' without scrapper as a last try", url)

		fetched, contentType, err = fetchURLContent(url, c.verbose)
	}

	return fetched, contentType, err
}
