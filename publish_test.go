package rr

import (
	"strings"
	"testing"
)

// test that only analyzed records are published
func TestPublishXML(t *testing.T) {
	client := testClient(t, []FeedSource{
		{ID: "test", Name: "Test", Kind: "rss", URL: "https://example.com", ItemLimit: 5},
	})

	records := []ContentRecord{
		{Title: "Analyzed Item", Link: "https://example.com/a", Published: "2026-08-30T12:00:00Z", Key: "key-a"},
		{Title: "Pending Item", Link: "https://example.com/b", Key: "key-b"},
	}
	if err := client.ArtifactStore().Save(records[0], "**analysis** body"); err != nil {
		t.Fatalf("failed to save artifact: %s", err)
	}

	bytes, err := client.PublishXML(
		"Research Radar", "https://example.com/feed", "analyzed research items", "someone", "someone@example.com",
		records,
	)
	if err != nil {
		t.Fatalf("failed to publish xml: %s", err)
	}

	xml := string(bytes)
	if !strings.Contains(xml, "Analyzed Item") {
		t.Errorf("expected the analyzed record in the feed")
	}
	if strings.Contains(xml, "Pending Item") {
		t.Errorf("expected records without analyses to be dropped from the feed")
	}
	if !strings.Contains(xml, "<strong>analysis</strong>") {
		t.Errorf("expected rendered analysis content in the feed, got: %s", xml)
	}
}
