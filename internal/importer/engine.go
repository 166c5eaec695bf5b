package importer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/tdobson/snowy-sub000/internal/observability"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// ResolveFunc looks up an existing row by natural key within a tenant and
// returns its id. Entities whose existence check cannot be expressed as a
// column-equality lookup (plots, elevations) supply one of these.
type ResolveFunc func(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, key map[string]any) (uuid.UUID, bool, error)

// EntitySchema parameterizes the generic upsert engine for one entity
// type: where the rows live, how existing rows are found, and how incoming
// fields merge into found rows.
type EntitySchema struct {
	Kind       EntityKind
	Table      string
	IDColumn   string
	Merge      MergePolicy
	KeyColumns []string
	// Resolve overrides the generic natural-key lookup when set. The
	// generic path requires every KeyColumns value to be non-blank and
	// returns ErrMissingNaturalKey otherwise.
	Resolve ResolveFunc
}

// Engine is the generic upsert core. Exactly one insert or one update per
// call, never a delete; every write is stamped with the run's import_id.
type Engine struct {
	db      *gorm.DB
	log     *logger.Logger
	locks   *LockManager
	metrics *observability.Metrics
}

func NewEngine(db *gorm.DB, log *logger.Logger, locks *LockManager, metrics *observability.Metrics) *Engine {
	return &Engine{
		db:      db,
		log:     log.With("component", "UpsertEngine"),
		locks:   locks,
		metrics: metrics,
	}
}

func (e *Engine) session(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

// Upsert resolves the natural key within instanceID scope and either
// updates the found row (per the schema's merge policy) or inserts a new
// one with a fresh id. It returns the canonical id either way.
//
// A blank mandatory natural-key value yields (uuid.Nil, ErrMissingNaturalKey)
// without touching storage. Storage errors propagate untouched.
func (e *Engine) Upsert(ctx context.Context, tx *gorm.DB, schema EntitySchema, instanceID uuid.UUID, key map[string]any, payload map[string]any, importID uuid.UUID) (uuid.UUID, error) {
	if instanceID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: instance id required", pkgerrors.ErrInvalidArgument)
	}
	if schema.Resolve == nil {
		for _, col := range schema.KeyColumns {
			if isBlank(key[col]) {
				e.metrics.IncUpsert(string(schema.Kind), "skip")
				return uuid.Nil, fmt.Errorf("%w: %s.%s", pkgerrors.ErrMissingNaturalKey, schema.Table, col)
			}
		}
	}

	release, err := e.acquireKeyLock(ctx, schema, instanceID, key)
	if err != nil {
		return uuid.Nil, err
	}
	defer release()

	id, found, err := e.resolve(ctx, tx, schema, instanceID, key)
	if err != nil {
		e.metrics.IncUpsert(string(schema.Kind), "error")
		return uuid.Nil, err
	}
	if found {
		if err := e.update(ctx, tx, schema, instanceID, id, payload, importID); err != nil {
			e.metrics.IncUpsert(string(schema.Kind), "error")
			return uuid.Nil, err
		}
		e.metrics.IncUpsert(string(schema.Kind), "update")
		return id, nil
	}

	id, err = e.insert(ctx, tx, schema, instanceID, key, payload, importID)
	if err == nil {
		e.metrics.IncUpsert(string(schema.Kind), "insert")
		return id, nil
	}
	if !isUniqueViolation(err) {
		e.metrics.IncUpsert(string(schema.Kind), "error")
		return uuid.Nil, err
	}

	// A concurrent run won the insert race between our lookup and our
	// insert. Converge by updating the row it created.
	id, found, rerr := e.resolve(ctx, tx, schema, instanceID, key)
	if rerr != nil || !found {
		e.metrics.IncUpsert(string(schema.Kind), "error")
		return uuid.Nil, fmt.Errorf("upsert %s: lost insert race and re-lookup failed: %w", schema.Table, errors.Join(err, rerr))
	}
	if err := e.update(ctx, tx, schema, instanceID, id, payload, importID); err != nil {
		e.metrics.IncUpsert(string(schema.Kind), "error")
		return uuid.Nil, err
	}
	e.metrics.IncUpsert(string(schema.Kind), "update")
	return id, nil
}

func (e *Engine) acquireKeyLock(ctx context.Context, schema EntitySchema, instanceID uuid.UUID, key map[string]any) (func(), error) {
	parts := make([]string, 0, len(key))
	for col, val := range key {
		parts = append(parts, fmt.Sprintf("%s=%v", col, val))
	}
	sort.Strings(parts)
	return e.locks.Acquire(ctx, lockName(schema.Table, instanceID, parts...))
}

func (e *Engine) resolve(ctx context.Context, tx *gorm.DB, schema EntitySchema, instanceID uuid.UUID, key map[string]any) (uuid.UUID, bool, error) {
	if schema.Resolve != nil {
		return schema.Resolve(ctx, e.session(tx), instanceID, key)
	}
	q := e.session(tx).WithContext(ctx).Table(schema.Table).Where("instance_id = ?", instanceID)
	for _, col := range schema.KeyColumns {
		q = q.Where(col+" = ?", key[col])
	}
	var ids []uuid.UUID
	if err := q.Limit(1).Pluck(schema.IDColumn, &ids).Error; err != nil {
		return uuid.Nil, false, fmt.Errorf("resolve %s: %w", schema.Table, err)
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	return ids[0], true, nil
}

func (e *Engine) update(ctx context.Context, tx *gorm.DB, schema EntitySchema, instanceID, id uuid.UUID, payload map[string]any, importID uuid.UUID) error {
	updates := make(map[string]any, len(payload)+1)
	for col, val := range payload {
		if schema.Merge == MergePreserveBlank && isBlank(val) {
			continue
		}
		if val == nil || isNilPointer(val) {
			updates[col] = nil
			continue
		}
		updates[col] = deref(val)
	}
	updates["import_id"] = importID
	err := e.session(tx).WithContext(ctx).
		Table(schema.Table).
		Where("instance_id = ? AND "+schema.IDColumn+" = ?", instanceID, id).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update %s %s: %w", schema.Table, id, err)
	}
	return nil
}

func (e *Engine) insert(ctx context.Context, tx *gorm.DB, schema EntitySchema, instanceID uuid.UUID, key map[string]any, payload map[string]any, importID uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	row := make(map[string]any, len(key)+len(payload)+3)
	for col, val := range payload {
		if val == nil || isNilPointer(val) {
			continue
		}
		row[col] = deref(val)
	}
	for col, val := range key {
		if val == nil || isNilPointer(val) {
			continue
		}
		row[col] = deref(val)
	}
	row[schema.IDColumn] = id
	row["instance_id"] = instanceID
	row["import_id"] = importID
	if err := e.session(tx).WithContext(ctx).Table(schema.Table).Create(&row).Error; err != nil {
		return uuid.Nil, fmt.Errorf("insert %s: %w", schema.Table, err)
	}
	return id, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isBlank implements the blank-preserving merge's notion of "empty": nil,
// a nil pointer, or a whitespace-only string. Numeric zero and false are
// values, not blanks.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return true
		}
		return isBlank(rv.Elem().Interface())
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case uuid.UUID:
		return t == uuid.Nil
	}
	return false
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// deref unwraps one level of pointer so maps handed to GORM carry plain
// column values.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}
