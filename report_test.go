package rr

import (
	"os"
	"reflect"
	"strings"
	"testing"
)

// test per-source counts and their insertion order
func TestBuildSummary(t *testing.T) {
	records := []ContentRecord{
		{SourceName: "OpenAI News"},
		{SourceName: "arXiv cs.LG"},
		{SourceName: "OpenAI News"},
		{SourceName: "Google DeepMind"},
		{SourceName: "arXiv cs.LG"},
	}

	summary := BuildSummary(records)

	if summary.Count != 5 {
		t.Errorf("expected count 5, got %d", summary.Count)
	}

	expected := []SourceCount{
		{Name: "OpenAI News", Count: 2},
		{Name: "arXiv cs.LG", Count: 2},
		{Name: "Google DeepMind", Count: 1},
	}
	if !reflect.DeepEqual(summary.Sources, expected) {
		t.Errorf("expected sources %+v, got %+v", expected, summary.Sources)
	}
}

// test the missing-artifact placeholder
func TestBuildReportItemsMissingArtifact(t *testing.T) {
	records := []ContentRecord{
		{Title: "Foo", Link: "https://example.com/foo"},
	}

	items := BuildReportItems(records, func(title string) *AnalysisArtifact {
		return nil
	})

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if string(items[0].Analysis) != noAnalysisPlaceholder {
		t.Errorf("expected the placeholder, got: '%s'", items[0].Analysis)
	}
}

// test markdown rendering of stored analyses
func TestBuildReportItemsRendersMarkdown(t *testing.T) {
	records := []ContentRecord{
		{Title: "Foo", Link: "https://example.com/foo"},
	}

	items := BuildReportItems(records, func(title string) *AnalysisArtifact {
		return &AnalysisArtifact{
			RecordTitle: title,
			ReportText:  "## 1. Background\n\nSome **bold** claim.",
		}
	})

	rendered := string(items[0].Analysis)
	if !strings.Contains(rendered, "<h2") {
		t.Errorf("expected a rendered heading, got: '%s'", rendered)
	}
	if !strings.Contains(rendered, "<strong>bold</strong>") {
		t.Errorf("expected rendered bold text, got: '%s'", rendered)
	}
}

// test that artifacts for titles not in the record set are simply unused
func TestBuildReportItemsIgnoresOrphans(t *testing.T) {
	artifacts := map[string]*AnalysisArtifact{
		"Orphan": {RecordTitle: "Orphan", ReportText: "unused"},
		"Kept":   {RecordTitle: "Kept", ReportText: "used"},
	}

	items := BuildReportItems([]ContentRecord{{Title: "Kept"}}, func(title string) *AnalysisArtifact {
		return artifacts[title]
	})

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if strings.Contains(string(items[0].Analysis), "unused") {
		t.Errorf("orphan artifact leaked into the report")
	}
}

// test that re-rendering unchanged inputs is byte-identical
func TestRenderReportIdempotence(t *testing.T) {
	client := testClient(t, []FeedSource{
		{ID: "test", Name: "Test", Kind: "rss", URL: "https://example.com", ItemLimit: 5},
	})

	records := []ContentRecord{
		{Title: "Analyzed", Link: "https://example.com/a", SourceName: "Test"},
		{Title: "Pending", Link: "https://example.com/b", SourceName: "Test"},
	}
	if err := client.ArtifactStore().Save(records[0], "## Report\n\ndetails"); err != nil {
		t.Fatalf("failed to save artifact: %s", err)
	}

	if err := client.RenderReport(records); err != nil {
		t.Fatalf("failed to render report: %s", err)
	}
	first, err := os.ReadFile(client.conf.ReportFilepath)
	if err != nil {
		t.Fatalf("failed to read report: %s", err)
	}

	if err := client.RenderReport(records); err != nil {
		t.Fatalf("failed to re-render report: %s", err)
	}
	second, err := os.ReadFile(client.conf.ReportFilepath)
	if err != nil {
		t.Fatalf("failed to re-read report: %s", err)
	}

	if string(first) != string(second) {
		t.Errorf("expected byte-identical re-render")
	}

	if !strings.Contains(string(first), "Analyzed") || !strings.Contains(string(first), noAnalysisPlaceholder) {
		t.Errorf("expected both the rendered analysis and the placeholder in the report")
	}
}
