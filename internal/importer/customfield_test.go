package importer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/tdobson/snowy-sub000/internal/data/repos/testutil"
	types "github.com/tdobson/snowy-sub000/internal/domain"
)

func TestCustomFieldUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	eng := newTestEngine(t)
	inst := testutil.SeedInstance(t, ctx, tx, "upowa")
	run := testutil.SeedImportEvent(t, ctx, tx, inst.InstanceID, "run-1")
	entityID := uuid.New()

	block := &CustomFieldBlock{
		EntityType: KindPlotSpec,
		Fields: map[string]CustomFieldValue{
			"Roof_Type": {Value: "Slate", UIName: "Roof Type"},
		},
	}
	if err := eng.UpsertCustomFields(ctx, tx, inst.InstanceID, block, entityID, run.ImportID); err != nil {
		t.Fatalf("UpsertCustomFields (first): %v", err)
	}

	block.Fields["Roof_Type"] = CustomFieldValue{Value: "Tile"}
	if err := eng.UpsertCustomFields(ctx, tx, inst.InstanceID, block, entityID, run.ImportID); err != nil {
		t.Fatalf("UpsertCustomFields (second): %v", err)
	}

	var rows []types.CustomField
	err := tx.Where("instance_id = ? AND entity_id = ? AND field_name = ?",
		inst.InstanceID, entityID, "Roof_Type").Find(&rows).Error
	if err != nil {
		t.Fatalf("read custom fields: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row, got %d", len(rows))
	}
	if rows[0].FieldValue != "Tile" {
		t.Fatalf("expected latest value, got %q", rows[0].FieldValue)
	}
	// Presentation metadata written on the first pass survives a later
	// value-only write.
	if rows[0].FieldUIName != "Roof Type" {
		t.Fatalf("ui name lost on re-upsert: %q", rows[0].FieldUIName)
	}

	got, ok, err := eng.CustomFieldValueFor(ctx, tx, inst.InstanceID, KindPlotSpec, entityID, "Roof_Type")
	if err != nil {
		t.Fatalf("CustomFieldValueFor: %v", err)
	}
	if !ok || got != "Tile" {
		t.Fatalf("CustomFieldValueFor: got %q ok=%v", got, ok)
	}
}
