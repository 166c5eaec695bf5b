package project

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/tdobson/snowy-sub000/internal/data/repos/testutil"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
)

func TestProjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewProjectRepo(db, testutil.Logger(t))
	ctx := context.Background()
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")

	created, err := repo.Create(ctx, tx, []*types.Project{
		{
			ProjectID:   uuid.New(),
			InstanceID:  inst.InstanceID,
			PvNumber:    "PV1001",
			ProjectName: "Meadow Park",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByPvNumber(ctx, tx, inst.InstanceID, "PV1001")
	if err != nil {
		t.Fatalf("GetByPvNumber: %v", err)
	}
	if got.ProjectID != created[0].ProjectID {
		t.Fatalf("GetByPvNumber returned %s, want %s", got.ProjectID, created[0].ProjectID)
	}

	if err := repo.Update(ctx, tx, inst.InstanceID, got.ProjectID, map[string]any{"project_name": "Meadow Park Phase 2"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, inst.InstanceID, got.ProjectID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ProjectName != "Meadow Park Phase 2" {
		t.Fatalf("project_name = %q after update", got.ProjectName)
	}

	// Updates against another tenant's project must not land.
	other := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	if err := repo.Update(ctx, tx, other.InstanceID, got.ProjectID, map[string]any{"project_name": "x"}); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("cross-tenant Update error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, tx, inst.InstanceID, got.ProjectID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, inst.InstanceID, got.ProjectID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("GetByID after delete error = %v, want ErrNotFound", err)
	}
}

func TestPlotRepoListByProject(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPlotRepo(db, testutil.Logger(t))
	ctx := context.Background()
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	proj := testutil.SeedProject(t, ctx, tx, inst.InstanceID, "PV1002")

	for _, n := range []string{"61", "62"} {
		plot := testutil.SeedPlot(t, ctx, tx, inst.InstanceID, n, "T1")
		if err := tx.Model(&types.Plot{}).
			Where("plot_id = ?", plot.PlotID).
			Update("project_id", proj.ProjectID).Error; err != nil {
			t.Fatalf("attach plot %s: %v", n, err)
		}
	}
	testutil.SeedPlot(t, ctx, tx, inst.InstanceID, "63", "T1")

	plots, err := repo.ListByProject(ctx, tx, inst.InstanceID, proj.ProjectID)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(plots) != 2 {
		t.Fatalf("ListByProject returned %d plots, want 2", len(plots))
	}
}
