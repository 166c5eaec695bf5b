package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
)

// UpsertCustomFields writes every field in the block against
// (instanceID, block.EntityType, entityID, name). Fields are written
// independently: a failure is logged and collected, already-written fields
// stay committed, and the joined error is returned after the whole batch.
func (e *Engine) UpsertCustomFields(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, block *CustomFieldBlock, entityID uuid.UUID, importID uuid.UUID) error {
	if block == nil || len(block.Fields) == 0 {
		return nil
	}
	if !KnownKind(block.EntityType) {
		return fmt.Errorf("%w: unknown entity type %q", pkgerrors.ErrInvalidArgument, block.EntityType)
	}
	if entityID == uuid.Nil {
		return fmt.Errorf("%w: entity id required for custom fields", pkgerrors.ErrInvalidArgument)
	}

	var errs []error
	for name, val := range block.Fields {
		if err := e.upsertCustomField(ctx, tx, instanceID, block.EntityType, entityID, name, val, importID); err != nil {
			e.log.Warn("custom field write failed",
				"entity_type", block.EntityType,
				"entity_id", entityID,
				"field_name", name,
				"error", err)
			errs = append(errs, fmt.Errorf("field %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) upsertCustomField(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, entityType EntityKind, entityID uuid.UUID, name string, val CustomFieldValue, importID uuid.UUID) error {
	session := e.session(tx).WithContext(ctx)

	release, err := e.locks.Acquire(ctx, lockName("custom_fields", instanceID, string(entityType), entityID.String(), name))
	if err != nil {
		return err
	}
	defer release()

	var existing types.CustomField
	err = session.
		Where("instance_id = ? AND entity_type = ? AND entity_id = ? AND field_name = ?",
			instanceID, string(entityType), entityID, name).
		Take(&existing).Error
	switch {
	case err == nil:
		updates := map[string]any{
			"field_value": val.Value,
			"import_id":   importID,
		}
		if val.UIName != "" {
			updates["field_ui_name"] = val.UIName
		}
		if val.Description != "" {
			updates["field_description"] = val.Description
		}
		return session.Model(&types.CustomField{}).
			Where("custom_field_id = ?", existing.CustomFieldID).
			Updates(updates).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := &types.CustomField{
			CustomFieldID:    uuid.New(),
			InstanceID:       instanceID,
			EntityType:       string(entityType),
			EntityID:         entityID,
			FieldName:        name,
			FieldValue:       val.Value,
			FieldUIName:      val.UIName,
			FieldDescription: val.Description,
			ImportID:         &importID,
		}
		cerr := session.Create(row).Error
		if cerr != nil && isUniqueViolation(cerr) {
			// Concurrent writer created the row first; converge on it.
			return session.Model(&types.CustomField{}).
				Where("instance_id = ? AND entity_type = ? AND entity_id = ? AND field_name = ?",
					instanceID, string(entityType), entityID, name).
				Updates(map[string]any{"field_value": val.Value, "import_id": importID}).Error
		}
		return cerr
	default:
		return err
	}
}

// CustomFieldValueFor reads one custom field's stored value; ok is false
// when no row exists.
func (e *Engine) CustomFieldValueFor(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, entityType EntityKind, entityID uuid.UUID, name string) (string, bool, error) {
	var row types.CustomField
	err := e.session(tx).WithContext(ctx).
		Where("instance_id = ? AND entity_type = ? AND entity_id = ? AND field_name = ?",
			instanceID, string(entityType), entityID, name).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.FieldValue, true, nil
}
