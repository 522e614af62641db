package audit

import (
	"context"
	"encoding/json"
	"time"
)

// TimelineFilters narrows the change-log listing.
type TimelineFilters struct {
	From     time.Time
	To       time.Time
	Actor    string
	Entity   EntityType
	Action   Action
	Page     int
	PageSize int
}

// PagingInfo describes listing position.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	PrevPage int  `json:"prev_page,omitempty"`
	NextPage int  `json:"next_page,omitempty"`
}

// TimelineResult wraps events with paging information.
type TimelineResult struct {
	Events []Event    `json:"events"`
	Paging PagingInfo `json:"paging"`
}

// Timeline lists events newest first with paging.
func (r *Recorder) Timeline(ctx context.Context, filters TimelineFilters) (TimelineResult, error) {
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, `SELECT id, at, COALESCE(actor,''), COALESCE(source_ip,''), module, action, entity_type, entity_id, before_state, after_state, changed_fields, COALESCE(note,'')
FROM audit_events
WHERE at >= COALESCE($1, '-infinity'::timestamptz)
  AND at <= COALESCE($2, 'infinity'::timestamptz)
  AND ($3 = '' OR actor = $3)
  AND ($4 = '' OR entity_type = $4)
  AND ($5 = '' OR action = $5)
ORDER BY at DESC, id DESC
OFFSET $6 LIMIT $7`,
		nullTime(filters.From), nullTime(filters.To), filters.Actor,
		string(filters.Entity), string(filters.Action), offset, pageSize+1)
	if err != nil {
		return TimelineResult{}, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var (
			e                        Event
			entityType, action       string
			before, after, changed   []byte
		)
		if err := rows.Scan(&e.ID, &e.At, &e.Actor, &e.SourceIP, &e.Module, &action, &entityType, &e.Entity.ID, &before, &after, &changed, &e.Note); err != nil {
			return TimelineResult{}, err
		}
		e.Action = Action(action)
		e.Entity.Type = EntityType(entityType)
		if len(before) > 0 {
			_ = json.Unmarshal(before, &e.Before)
		}
		if len(after) > 0 {
			_ = json.Unmarshal(after, &e.After)
		}
		if len(changed) > 0 {
			_ = json.Unmarshal(changed, &e.Changes)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return TimelineResult{}, err
	}

	hasNext := len(events) > pageSize
	if hasNext {
		events = events[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return TimelineResult{Events: events, Paging: paging}, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
