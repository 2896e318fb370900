package rss

import (
	"fmt"
	"strings"
	"time"
	"toki/src-cli/model"
	"toki/src-cli/timing"

	"github.com/gorilla/feeds"
)

// Channel describes the feed itself.
type Channel struct {
	Title       string
	Link        string
	Description string
}

func DefaultChannel() Channel {
	return Channel{
		Title:       "Toki schedule",
		Link:        "http://localhost/toki",
		Description: "Events stored by toki",
	}
}

// Render builds an RSS 2.0 document with one item per event, timings
// rendered in zone.
func Render(ch Channel, events []model.Event, zone timing.DisplayZone, now time.Time) (string, error) {
	defaults := DefaultChannel()
	if strings.TrimSpace(ch.Title) == "" {
		ch.Title = defaults.Title
	}
	if strings.TrimSpace(ch.Link) == "" {
		ch.Link = defaults.Link
	}
	if strings.TrimSpace(ch.Description) == "" {
		ch.Description = defaults.Description
	}

	feed := &feeds.Feed{
		Title:       ch.Title,
		Link:        &feeds.Link{Href: ch.Link},
		Description: ch.Description,
		Created:     now.UTC(),
	}

	for i := range events {
		e := &events[i]
		summary, err := timing.Render(e.Span(), zone)
		if err != nil {
			return "", fmt.Errorf("Render: event #%d: %w", e.ID, err)
		}
		start, err := timing.ParseInstant(e.StartsAt)
		if err != nil {
			return "", fmt.Errorf("Render: event #%d: %w", e.ID, err)
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       e.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s#event-%d", strings.TrimRight(ch.Link, "/"), e.ID)},
			Id:          e.GUID(),
			Description: describe(e, summary),
			Created:     start.UTC(),
		})
	}

	out, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("Render: %w", err)
	}
	return out, nil
}

func describe(e *model.Event, summary string) string {
	lines := []string{summary}
	if e.Note != "" {
		lines = append(lines, "note: "+e.Note)
	}
	if tags := e.TagNames(); len(tags) > 0 {
		lines = append(lines, "tags: "+strings.Join(tags, ", "))
	}
	return strings.Join(lines, "\n")
}
