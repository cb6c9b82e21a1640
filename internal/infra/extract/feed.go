package extract

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"daily-summary/internal/domain/entity"
)

// feedItem is one RSS/Atom entry reduced to what a report needs.
type feedItem struct {
	title       string
	text        string
	publishedAt time.Time
}

// parseFeed turns an RSS/Atom document into report paragraphs, newest items
// first, at most limit of them. Each paragraph is the item title followed by
// its content (or description when the content is empty) as plain text.
func parseFeed(data []byte, limit int) (string, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: parse feed: %w", entity.ErrExtractionFailed, err)
	}

	items := make([]feedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		var pubAt time.Time
		switch {
		case it.PublishedParsed != nil:
			pubAt = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			pubAt = *it.UpdatedParsed
		}

		content := it.Content
		if content == "" {
			content = it.Description
		}

		items = append(items, feedItem{
			title:       strings.TrimSpace(it.Title),
			text:        stripTags(content),
			publishedAt: pubAt,
		})
	}

	// undated items keep feed order after the dated ones
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].publishedAt.After(items[j].publishedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}

	paragraphs := make([]string, 0, len(items))
	for _, it := range items {
		p := strings.TrimSpace(it.title + "\n" + it.text)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// fetchFeed downloads and parses the feed at feedURL.
func (e *Extractor) fetchFeed(ctx context.Context, feedURL string) (string, error) {
	pg, err := e.web.fetch(ctx, feedURL)
	if err != nil {
		return "", fmt.Errorf("%w: fetch feed %s: %w", entity.ErrExtractionFailed, feedURL, err)
	}
	return parseFeed(pg.body, e.config.FeedItemLimit)
}
