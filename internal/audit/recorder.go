package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucero-pos/lucero-pos/internal/shared"
)

// Recorder writes audit events. Actor and source IP come from the request
// metadata carried in context, never from global state.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder returns a new Recorder.
func NewRecorder(logger *slog.Logger, pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool, logger: logger, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (r *Recorder) WithNow(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Create records a creation with the full after-state.
func (r *Recorder) Create(ctx context.Context, module string, entity Auditable, note string) error {
	return r.insert(ctx, Event{
		Module: module,
		Action: ActionCreate,
		Entity: entity.EntityRef(),
		After:  entity.Snapshot(),
		Note:   note,
	})
}

// Update diffs the pre-mutation snapshot against the entity's current state.
// A no-op update records nothing.
func (r *Recorder) Update(ctx context.Context, module string, before Snapshot, entity Auditable, note string) error {
	after := entity.Snapshot()
	changes := Diff(before, after)
	if len(changes) == 0 {
		return nil
	}
	return r.insert(ctx, Event{
		Module:  module,
		Action:  ActionUpdate,
		Entity:  entity.EntityRef(),
		Before:  before,
		After:   after,
		Changes: changes,
		Note:    note,
	})
}

// Delete records a deletion with the full before-state.
func (r *Recorder) Delete(ctx context.Context, module string, entity Auditable, note string) error {
	return r.insert(ctx, Event{
		Module: module,
		Action: ActionDelete,
		Entity: entity.EntityRef(),
		Before: entity.Snapshot(),
		Note:   note,
	})
}

// Action records a stateless action such as LOGIN, LOGOUT, or a manual stock
// adjustment where the mutation is already described by the note.
func (r *Recorder) Action(ctx context.Context, module string, action Action, ref EntityRef, note string) error {
	return r.insert(ctx, Event{
		Module: module,
		Action: action,
		Entity: ref,
		Note:   note,
	})
}

func (r *Recorder) insert(ctx context.Context, event Event) error {
	if r == nil {
		return errors.New("audit recorder not initialised")
	}
	meta := shared.RequestMetaFromContext(ctx)
	event.ID = uuid.New()
	event.At = r.now()
	event.Actor = meta.Actor
	event.SourceIP = meta.SourceIP

	beforeJSON, err := marshalSnapshot(event.Before)
	if err != nil {
		return err
	}
	afterJSON, err := marshalSnapshot(event.After)
	if err != nil {
		return err
	}
	var changesJSON any
	if len(event.Changes) > 0 {
		raw, err := json.Marshal(event.Changes)
		if err != nil {
			return err
		}
		changesJSON = raw
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO audit_events (id, at, actor, source_ip, module, action, entity_type, entity_id, before_state, after_state, changed_fields, note)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		event.ID, event.At, nullString(event.Actor), nullString(event.SourceIP), event.Module,
		string(event.Action), string(event.Entity.Type), event.Entity.ID,
		beforeJSON, afterJSON, changesJSON, nullString(event.Note))
	if err != nil {
		r.logger.Error("record audit event", slog.Any("error", err),
			slog.String("entity", string(event.Entity.Type)), slog.String("action", string(event.Action)))
	}
	return err
}

func marshalSnapshot(s Snapshot) (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
