package importer

import (
	"context"
	"testing"

	"github.com/tdobson/snowy-sub000/internal/data/repos/testutil"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	"github.com/tdobson/snowy-sub000/internal/pkg/pointers"
)

func fptr(v float64) *float64 { return pointers.Float64(v) }
func iptr(v int) *int         { return pointers.Int(v) }

func TestElevationNumberFallbackOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")
	plot := testutil.SeedPlot(t, ctx, tx, inst.InstanceID, "61", "")

	// Tier 1: an explicit Elevation_No custom field wins, verbatim.
	id, err := eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, &ElevationImport{
		Orientation:     "South",
		Pitch:           fptr(35),
		ModuleQty:       iptr(8),
		ElevationNumber: iptr(9),
		CustomFields: &CustomFieldBlock{
			EntityType: KindElevationSpec,
			Fields:     map[string]CustomFieldValue{ElevationNoField: {Value: "2a"}},
		},
	}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (tier 1): %v", err)
	}
	got, ok, err := eng.CustomFieldValueFor(ctx, tx, inst.InstanceID, KindElevationSpec, id, ElevationNoField)
	if err != nil || !ok {
		t.Fatalf("CustomFieldValueFor: %v ok=%v", err, ok)
	}
	if got != "2a" {
		t.Fatalf("tier 1: expected verbatim custom field value, got %q", got)
	}

	// Tier 2: no custom field, the explicit elevationNumber field is used.
	id, err = eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, &ElevationImport{
		Orientation:     "East",
		Pitch:           fptr(30),
		ModuleQty:       iptr(6),
		ElevationNumber: iptr(3),
	}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (tier 2): %v", err)
	}
	got, ok, err = eng.CustomFieldValueFor(ctx, tx, inst.InstanceID, KindElevationSpec, id, ElevationNoField)
	if err != nil || !ok {
		t.Fatalf("CustomFieldValueFor: %v ok=%v", err, ok)
	}
	if got != "3" {
		t.Fatalf("tier 2: expected %q, got %q", "3", got)
	}

	// Tier 3: neither given, the 1-based ordinal among the plot's stored
	// elevations. Two already exist, so this one is number 3.
	id, err = eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, &ElevationImport{
		Orientation: "West",
		Pitch:       fptr(30),
		ModuleQty:   iptr(4),
	}, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (tier 3): %v", err)
	}
	got, ok, err = eng.CustomFieldValueFor(ctx, tx, inst.InstanceID, KindElevationSpec, id, ElevationNoField)
	if err != nil || !ok {
		t.Fatalf("CustomFieldValueFor: %v ok=%v", err, ok)
	}
	if got != "3" {
		t.Fatalf("tier 3: expected computed ordinal %q, got %q", "3", got)
	}
}

func TestElevationReimportDoesNotDuplicate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")
	plot := testutil.SeedPlot(t, ctx, tx, inst.InstanceID, "61", "")

	in := &ElevationImport{
		Orientation: "South",
		Pitch:       fptr(35),
		ModuleQty:   iptr(8),
		Kwp:         fptr(3.2),
		Inverter:    &ProductImport{ProductName: "Solis Mini", ProductType: types.ProductTypeInverter},
		Panel:       &ProductImport{ProductName: "JA Solar 400", ProductType: types.ProductTypePanel},
	}
	first, err := eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, in, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (first): %v", err)
	}
	second, err := eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, in, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (second): %v", err)
	}
	if first != second {
		t.Fatalf("re-import created a new elevation: %s then %s", first, second)
	}

	var elevCount, productCount int64
	if err := tx.Model(&types.ElevationSpec{}).Where("plot_id = ?", plot.PlotID).Count(&elevCount).Error; err != nil {
		t.Fatalf("count elevations: %v", err)
	}
	if elevCount != 1 {
		t.Fatalf("expected 1 elevation, got %d", elevCount)
	}
	if err := tx.Model(&types.Product{}).Where("instance_id = ?", inst.InstanceID).Count(&productCount).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if productCount != 2 {
		t.Fatalf("expected 2 shared product rows, got %d", productCount)
	}

	var row types.ElevationSpec
	if err := tx.Where("elevation_spec_id = ?", first).Take(&row).Error; err != nil {
		t.Fatalf("read elevation: %v", err)
	}
	if row.Inverter == nil || row.Panel == nil {
		t.Fatalf("product references not stamped: %+v", row)
	}
}

func TestElevationsWithDistinctNumbersStaySeparate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")
	plot := testutil.SeedPlot(t, ctx, tx, inst.InstanceID, "61", "")

	// Same pitch/orientation/module count, told apart only by number.
	base := ElevationImport{Orientation: "South", Pitch: fptr(35), ModuleQty: iptr(8)}

	a := base
	a.ElevationNumber = iptr(1)
	first, err := eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, &a, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (no 1): %v", err)
	}

	b := base
	b.ElevationNumber = iptr(2)
	second, err := eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, &b, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (no 2): %v", err)
	}
	if first == second {
		t.Fatalf("distinct elevation numbers collapsed into one row: %s", first)
	}
}

func TestElevationsWithDistinctVariationStaySeparate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "wainhomes")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")
	plot := testutil.SeedPlot(t, ctx, tx, inst.InstanceID, "61", "")

	// Same pitch, orientation, module count and number; only the azimuth
	// offset differs. A hipped roof's two south-ish faces look like this.
	base := ElevationImport{Orientation: "South", Pitch: fptr(35), ModuleQty: iptr(8), ElevationNumber: iptr(1)}

	a := base
	a.VariationFromSouth = iptr(-20)
	first, err := eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, &a, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (-20): %v", err)
	}

	b := base
	b.VariationFromSouth = iptr(20)
	second, err := eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, &b, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (+20): %v", err)
	}
	if first == second {
		t.Fatalf("distinct variations collapsed into one row: %s", first)
	}

	// Re-importing either face converges on its own row.
	again, err := eng.ImportElevationSpec(ctx, tx, inst.InstanceID, plot.PlotID, nil, &a, run.ImportID)
	if err != nil {
		t.Fatalf("ImportElevationSpec (re-import -20): %v", err)
	}
	if again != first {
		t.Fatalf("re-import did not converge: %s then %s", first, again)
	}

	got, ok, err := eng.CustomFieldValueFor(ctx, tx, inst.InstanceID, KindElevationSpec, first, VarFromSouthField)
	if err != nil || !ok {
		t.Fatalf("CustomFieldValueFor: %v ok=%v", err, ok)
	}
	if got != "-20" {
		t.Fatalf("variation custom field not recorded: %q", got)
	}

	var count int64
	if err := tx.Model(&types.ElevationSpec{}).Where("plot_id = ?", plot.PlotID).Count(&count).Error; err != nil {
		t.Fatalf("count elevations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 elevation rows, got %d", count)
	}
}
