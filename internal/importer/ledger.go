package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// Ledger manages import_events rows: the provenance anchor every write in
// a run is stamped with. Runs are created or updated, never deleted.
type Ledger struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLedger(db *gorm.DB, log *logger.Logger) *Ledger {
	return &Ledger{db: db, log: log.With("component", "ImportLedger")}
}

func (l *Ledger) session(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return l.db
}

// StartRun unconditionally creates a new import session, even when a run
// with the same ref already exists.
func (l *Ledger) StartRun(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, ref, source, notes string, userID *uuid.UUID) (uuid.UUID, error) {
	if instanceID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: instance id required", pkgerrors.ErrInvalidArgument)
	}
	ev := &types.ImportEvent{
		ImportID:     uuid.New(),
		InstanceID:   instanceID,
		ImportDate:   time.Now().UTC(),
		ImportedBy:   userID,
		ImportRef:    ref,
		ImportSource: source,
		ImportNotes:  notes,
	}
	if err := l.session(tx).WithContext(ctx).Create(ev).Error; err != nil {
		return uuid.Nil, fmt.Errorf("start import run: %w", err)
	}
	l.log.Info("import run started", "import_id", ev.ImportID, "import_ref", ref, "import_source", source)
	return ev.ImportID, nil
}

// UpdateRun stamps modification metadata on an existing run. It fails with
// ErrNotFound when importID does not exist.
func (l *Ledger) UpdateRun(ctx context.Context, tx *gorm.DB, importID uuid.UUID, modificationRef, source, notes string, userID *uuid.UUID) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"modified_date":    now,
		"modified_by":      userID,
		"modification_ref": modificationRef,
	}
	if source != "" {
		updates["import_source"] = source
	}
	if notes != "" {
		updates["import_notes"] = notes
	}
	res := l.session(tx).WithContext(ctx).
		Model(&types.ImportEvent{}).
		Where("import_id = ?", importID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update import run %s: %w", importID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update import run %s: %w", importID, pkgerrors.ErrNotFound)
	}
	return nil
}

// FindOrCreateRunByRef returns the run with the given import_ref within the
// tenant, creating one when none exists. Kept distinct from StartRun
// because some callers key their session on the ref rather than the id.
func (l *Ledger) FindOrCreateRunByRef(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, ref, source, notes string, userID *uuid.UUID) (uuid.UUID, error) {
	if ref == "" {
		return uuid.Nil, fmt.Errorf("%w: import ref required", pkgerrors.ErrInvalidArgument)
	}
	var ev types.ImportEvent
	err := l.session(tx).WithContext(ctx).
		Where("instance_id = ? AND import_ref = ?", instanceID, ref).
		Order("import_date ASC").
		Take(&ev).Error
	if err == nil {
		return ev.ImportID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fmt.Errorf("find import run by ref %q: %w", ref, err)
	}
	return l.StartRun(ctx, tx, instanceID, ref, source, notes, userID)
}

// Get returns one run.
func (l *Ledger) Get(ctx context.Context, tx *gorm.DB, importID uuid.UUID) (*types.ImportEvent, error) {
	var ev types.ImportEvent
	err := l.session(tx).WithContext(ctx).Where("import_id = ?", importID).Take(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// List returns a tenant's runs, newest first.
func (l *Ledger) List(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, limit int) ([]types.ImportEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []types.ImportEvent
	err := l.session(tx).WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Order("import_date DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
