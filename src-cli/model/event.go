package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"toki/src-cli/timing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrEventNotFound = errors.New("event not found")
	// ErrInvalidEvent wraps every Validate failure; anything else out of
	// InsertEvent comes from the store.
	ErrInvalidEvent = errors.New("invalid event")
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Title    string `bun:"title,notnull"`
	StartsAt string `bun:"starts_at,notnull"` // canonical RFC3339, UTC
	EndsAt   string `bun:"ends_at,notnull"`   // exclusive
	Note     string `bun:"note,notnull"`
	AllDay   bool   `bun:"all_day,notnull"`
	UID      string `bun:"uid,unique,nullzero"` // set for imported events

	Tags []*EventTag `bun:"rel:has-many,join:id=event_id"`
}

// Window limits a listing to events overlapping [Start, End).
type Window struct {
	Start string
	End   string
}

func (e *Event) Validate() error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("title is required")
	case e.StartsAt == "":
		return fmt.Errorf("starts_at is required")
	case e.EndsAt == "":
		return fmt.Errorf("ends_at is required")
	}
	start, err := timing.ParseInstant(e.StartsAt)
	if err != nil {
		return err
	}
	end, err := timing.ParseInstant(e.EndsAt)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return timing.ErrEndNotAfterStart
	}
	return nil
}

// Span is the stored timing, as the display formatter takes it.
func (e *Event) Span() timing.Span {
	return timing.Span{StartsAt: e.StartsAt, EndsAt: e.EndsAt, AllDay: e.AllDay}
}

// TagNames lists the event's tags in lexical order.
func (e *Event) TagNames() []string {
	names := make([]string, 0, len(e.Tags))
	for _, tag := range e.Tags {
		names = append(names, tag.Tag)
	}
	return names
}

// Existing is the event's timing as edit context for the range builder.
func (e *Event) Existing() (*timing.Existing, error) {
	return timing.ExistingFromCanonical(e.StartsAt, e.EndsAt, e.AllDay)
}

func orderTags(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("tag ASC")
}

// InsertEvent stores the event and its normalized tags in one transaction
// and returns the new id.
func InsertEvent(ctx context.Context, db bun.IDB, e *Event, tags []string) (int64, error) {
	e.Title = CleanupTitle(e.Title)
	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("InsertEvent: %w: %w", ErrInvalidEvent, err)
	}

	if err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return err
		}

		e.Tags = make([]*EventTag, 0, len(tags))
		for _, tag := range NormalizeTags(tags) {
			e.Tags = append(e.Tags, &EventTag{EventID: e.ID, Tag: tag})
		}
		if len(e.Tags) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().
			Model(&e.Tags).
			Exec(ctx); err != nil {
			return err
		}
		return nil
	}); err != nil {
		return 0, fmt.Errorf("InsertEvent: %w", err)
	}

	return e.ID, nil
}

// ListEvents returns events in start order. A nil window lists everything.
func ListEvents(ctx context.Context, db bun.IDB, window *Window) ([]Event, error) {
	events := make([]Event, 0)
	query := db.NewSelect().
		Model(&events).
		Relation("Tags", orderTags).
		OrderExpr("starts_at ASC, id ASC")
	if window != nil {
		query = query.
			Where("starts_at < ?", window.End).
			Where("ends_at > ?", window.Start)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("ListEvents: %w", err)
	}
	return events, nil
}

func GetEventByID(ctx context.Context, db bun.IDB, id int64) (*Event, error) {
	e := new(Event)
	if err := db.NewSelect().
		Model(e).
		Relation("Tags", orderTags).
		Where("id = ?", id).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("GetEventByID: %w", err)
	}
	return e, nil
}

func ListEventsByTitle(ctx context.Context, db bun.IDB, title string) ([]Event, error) {
	events := make([]Event, 0)
	if err := db.NewSelect().
		Model(&events).
		Relation("Tags", orderTags).
		Where("title = ?", CleanupTitle(title)).
		OrderExpr("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("ListEventsByTitle: %w", err)
	}
	return events, nil
}

func HasEventWithUID(ctx context.Context, db bun.IDB, uid string) (bool, error) {
	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("uid = ?", uid).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("HasEventWithUID: %w", err)
	}
	return exists, nil
}

// UpdateEventTiming rewrites the stored range of one event. It reports
// false when no event has that id.
func UpdateEventTiming(ctx context.Context, db bun.IDB, id int64, t timing.Timing) (bool, error) {
	startsAt, endsAt := t.Canonical()
	res, err := db.NewUpdate().
		Model((*Event)(nil)).
		Set("starts_at = ?", startsAt).
		Set("ends_at = ?", endsAt).
		Set("all_day = ?", t.AllDay).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("UpdateEventTiming: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("UpdateEventTiming: %w", err)
	}
	return n > 0, nil
}

// DeleteEventByID removes one event and its tags.
func DeleteEventByID(ctx context.Context, db bun.IDB, id int64) (bool, error) {
	removed, err := deleteEvents(ctx, db, []int64{id})
	if err != nil {
		return false, fmt.Errorf("DeleteEventByID: %w", err)
	}
	return removed > 0, nil
}

// DeleteEventsByTitle removes every event with the title, with their tags.
func DeleteEventsByTitle(ctx context.Context, db bun.IDB, title string) (int, error) {
	var removed int
	if err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		ids := make([]int64, 0)
		if err := tx.NewSelect().
			Model((*Event)(nil)).
			Column("id").
			Where("title = ?", CleanupTitle(title)).
			Scan(ctx, &ids); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		n, err := deleteEvents(ctx, tx, ids)
		removed = n
		return err
	}); err != nil {
		return 0, fmt.Errorf("DeleteEventsByTitle: %w", err)
	}
	return removed, nil
}

func deleteEvents(ctx context.Context, db bun.IDB, ids []int64) (int, error) {
	var removed int
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*EventTag)(nil)).
			Where("event_id IN (?)", bun.In(ids)).
			Exec(ctx); err != nil {
			return fmt.Errorf("can't delete tags: %w", err)
		}
		res, err := tx.NewDelete().
			Model((*Event)(nil)).
			Where("id IN (?)", bun.In(ids)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("can't delete events: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		removed = int(n)
		return nil
	})
	return removed, err
}

var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("toki:event"))

// GUID identifies the event in feeds: its imported UID, or a UUID
// derived from the id so it stays stable across runs.
func (e *Event) GUID() string {
	if e.UID != "" {
		return e.UID
	}
	return uuid.NewSHA1(guidNamespace, []byte(strconv.FormatInt(e.ID, 10))).String()
}
