package model

import "github.com/uptrace/bun"

type EventTag struct {
	bun.BaseModel `bun:"table:event_tags"`

	EventID int64  `bun:"event_id,notnull,unique:event_tag"`
	Tag     string `bun:"tag,notnull,unique:event_tag"` // lowercase
}
