package rr

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const noAnalysisPlaceholder = `<p>(no analysis available)</p>`

// markdown converter for rendering stored analyses
var analysisMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Summary is the derived per-source breakdown of a record set. Sources keep
// the record set's insertion order.
type Summary struct {
	Count   int
	Sources []SourceCount
}

// SourceCount is the number of records from one source.
type SourceCount struct {
	Name  string
	Count int
}

// ReportItem is one record's display tuple in the rendered report.
type ReportItem struct {
	Title    string
	Link     string
	Analysis template.HTML
}

// BuildSummary counts records per source name, in the order source names
// first appear in the record set.
func BuildSummary(records []ContentRecord) Summary {
	summary := Summary{
		Count: len(records),
	}

	indexes := map[string]int{}
	for _, record := range records {
		if i, seen := indexes[record.SourceName]; seen {
			summary.Sources[i].Count++
			continue
		}

		indexes[record.SourceName] = len(summary.Sources)
		summary.Sources = append(summary.Sources, SourceCount{
			Name:  record.SourceName,
			Count: 1,
		})
	}

	return summary
}

// BuildReportItems joins stored analyses back onto the record set, in
// original record order.
//
// `lookup` returns the artifact for a title, or nil; an absent artifact
// yields a fixed placeholder, never an error. Artifacts for titles no longer
// in the record set are simply unused.
func BuildReportItems(records []ContentRecord, lookup func(title string) *AnalysisArtifact) []ReportItem {
	items := make([]ReportItem, 0, len(records))

	for _, record := range records {
		rendered := template.HTML(noAnalysisPlaceholder)
		if artifact := lookup(record.Title); artifact != nil {
			rendered = renderAnalysisHTML(artifact.ReportText)
		}

		items = append(items, ReportItem{
			Title:    record.Title,
			Link:     record.Link,
			Analysis: rendered,
		})
	}

	return items
}

// render an analysis' authoring markup (markdown) as display HTML
func renderAnalysisHTML(markdown string) template.HTML {
	var buf bytes.Buffer
	if err := analysisMarkdown.Convert([]byte(markdown), &buf); err != nil {
		// fall back to the raw text, escaped
		return template.HTML(template.HTMLEscapeString(markdown))
	}

	return template.HTML(buf.String())
}

// RenderReport recomputes the summary and display tuples from given records
// and the artifact store, and writes the dashboard HTML.
//
// Everything is derived from current inputs; re-rendering on unchanged
// inputs produces identical output.
func (c *Client) RenderReport(records []ContentRecord) error {
	summary := BuildSummary(records)
	items := BuildReportItems(records, c.store.Fetch)

	v(c.verbose, "rendering report with %d record(s) to: %s", len(records), c.conf.ReportFilepath)

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, struct {
		Date    string
		Summary Summary
		Items   []ReportItem
	}{
		Date:    time.Now().Format(time.DateOnly),
		Summary: summary,
		Items:   items,
	}); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := writeFileAtomic(c.conf.ReportFilepath, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report to '%s': %w", c.conf.ReportFilepath, err)
	}

	// tag cloud is a best-effort side output
	if c.tagCloud != nil && c.conf.TagCloudFilepath != "" {
		if err := c.tagCloud.Generate(concatenateSummaries(records), c.conf.TagCloudFilepath); err != nil {
			v(c.verbose, "failed to generate tag cloud: %s", err)
		}
	}

	return nil
}

// concatenate record summaries for the tag cloud generator
func concatenateSummaries(records []ContentRecord) string {
	summaries := make([]string, 0, len(records))
	for _, record := range records {
		if record.Summary != "" {
			summaries = append(summaries, record.Summary)
		}
	}

	return strings.Join(summaries, " ")
}

// dashboard template
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>AI Research Radar</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; max-width: 900px; margin: 0 auto; padding: 20px; line-height: 1.6; color: #333; }
        .item { border-bottom: 1px solid #eee; padding-bottom: 20px; margin-bottom: 20px; }
        .title { font-size: 1.2em; font-weight: bold; color: #2c3e50; text-decoration: none; }
        .analysis { background-color: #f9f9f9; padding: 15px; border-radius: 5px; border-left: 4px solid #3498db; }
        .summary { color: #7f8c8d; }
        h1 { text-align: center; color: #2c3e50; }
    </style>
</head>
<body>
    <h1>AI Research Radar</h1>
    <p style="text-align:center;" class="summary">{{ .Date }} &bull; {{ .Summary.Count }} item(s)</p>
    <ul class="summary">
    {{- range .Summary.Sources }}
        <li>{{ .Name }}: {{ .Count }}</li>
    {{- end }}
    </ul>

    {{ range .Items }}
    <div class="item">
        <a href="{{ .Link }}" class="title" target="_blank">{{ .Title }}</a>
        <div class="analysis">{{ .Analysis }}</div>
    </div>
    {{ end }}
</body>
</html>
`))
