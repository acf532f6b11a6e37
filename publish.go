package rr

import (
	"encoding/xml"
	"time"

	"github.com/gorilla/feeds"
)

// PublishContentType is the content type of published feeds.
const PublishContentType = `application/rss+xml`

// PublishXML returns XML bytes (application/rss+xml) of given records'
// analyses.
//
// Records without a stored analysis are omitted from the feed.
func (c *Client) PublishXML(
	title, link, description, author, email string,
	records []ContentRecord,
) (bytes []byte, err error) {
	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: description,
		Author:      &feeds.Author{Name: author, Email: email},
		Created:     time.Now(),
	}

	var feedItems []*feeds.Item
	for _, record := range records {
		artifact := c.store.Fetch(record.Title)
		if artifact == nil {
			continue
		}

		created, _ := time.Parse(time.RFC3339, record.Published)

		feedItems = append(feedItems, &feeds.Item{
			Id:    record.Key,
			Title: record.Title,
			Link: &feeds.Link{
				Href: record.Link,
			},
			Description: record.Summary,
			Content:     string(renderAnalysisHTML(artifact.ReportText)),
			Created:     created,
		})
	}
	feed.Items = feedItems

	rssFeed := (&feeds.Rss{
		Feed: feed,
	}).RssFeed()

	return xml.MarshalIndent(rssFeed.FeedXml(), "", "  ")
}
