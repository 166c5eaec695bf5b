package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tdobson/snowy-sub000/internal/data/repos/testutil"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
)

func TestLedgerStartRunAlwaysInserts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	ledger := NewLedger(db, testutil.Logger(t))
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")

	first, err := ledger.StartRun(ctx, tx, inst.InstanceID, "sheet-2024-06", "tracker", "", nil)
	if err != nil {
		t.Fatalf("StartRun (first): %v", err)
	}
	second, err := ledger.StartRun(ctx, tx, inst.InstanceID, "sheet-2024-06", "tracker", "", nil)
	if err != nil {
		t.Fatalf("StartRun (second): %v", err)
	}
	if first == second {
		t.Fatalf("StartRun reused a session: %s", first)
	}

	var count int64
	err = tx.Model(&types.ImportEvent{}).
		Where("instance_id = ? AND import_ref = ?", inst.InstanceID, "sheet-2024-06").
		Count(&count).Error
	if err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 runs, got %d", count)
	}
}

func TestLedgerUpdateRun(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	ledger := NewLedger(db, testutil.Logger(t))
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	user := testutil.SeedUser(t, ctx, tx, inst.InstanceID, "ops@example.com")

	id, err := ledger.StartRun(ctx, tx, inst.InstanceID, "sheet-1", "tracker", "", nil)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := ledger.UpdateRun(ctx, tx, id, "manual correction", "", "fixed mpan", &user.UserID); err != nil {
		t.Fatalf("UpdateRun: %v", err)
	}

	ev, err := ledger.Get(ctx, tx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ev.ModificationRef != "manual correction" || ev.ModifiedDate == nil {
		t.Fatalf("modification metadata not written: %+v", ev)
	}
	if ev.ImportNotes != "fixed mpan" {
		t.Fatalf("notes not appended: %q", ev.ImportNotes)
	}

	err = ledger.UpdateRun(ctx, tx, uuid.New(), "nope", "", "", nil)
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown run, got %v", err)
	}
}

func TestLedgerFindOrCreateRunByRef(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	ledger := NewLedger(db, testutil.Logger(t))
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")

	created, err := ledger.FindOrCreateRunByRef(ctx, tx, inst.InstanceID, "sheet-7", "tracker", "", nil)
	if err != nil {
		t.Fatalf("FindOrCreateRunByRef (create): %v", err)
	}
	found, err := ledger.FindOrCreateRunByRef(ctx, tx, inst.InstanceID, "sheet-7", "tracker", "", nil)
	if err != nil {
		t.Fatalf("FindOrCreateRunByRef (find): %v", err)
	}
	if created != found {
		t.Fatalf("expected same run for same ref, got %s then %s", created, found)
	}
}
