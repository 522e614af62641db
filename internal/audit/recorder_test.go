package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type auditedItem struct {
	id   int64
	name string
}

func (a auditedItem) EntityRef() EntityRef { return EntityRef{Type: EntityProduct, ID: a.id} }
func (a auditedItem) Snapshot() Snapshot   { return Snapshot{"name": a.name} }

// The recorder has no pool here, so any attempt to persist would fail; a nil
// error proves the identical-snapshot update returned before writing.
func TestUpdateIdenticalSnapshotRecordsNoEvent(t *testing.T) {
	rec := NewRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	item := auditedItem{id: 3, name: "Pen"}
	err := rec.Update(context.Background(), "inventory", item.Snapshot(), item, "saved unchanged")
	require.NoError(t, err)
}
