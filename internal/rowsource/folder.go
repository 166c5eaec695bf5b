package rowsource

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/tdobson/snowy-sub000/internal/importer"
	"github.com/tdobson/snowy-sub000/internal/observability"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// FolderIngestor walks a directory of tracker workbooks and feeds every
// row through the import orchestrator. Files are processed under a named
// lock so two ingestion processes never work the same workbook, rows are
// isolated (a bad row is logged and skipped), and the whole sweep runs
// under a wall-clock budget with a persisted resumption cursor.
type FolderIngestor struct {
	dir     string
	orch    *importer.Orchestrator
	ledger  *importer.Ledger
	locks   *importer.LockManager
	rdb     *redis.Client
	metrics *observability.Metrics
	log     *logger.Logger

	budget  time.Duration
	workers int
}

type FolderConfig struct {
	Dir     string
	Budget  time.Duration
	Workers int
}

func NewFolderIngestor(cfg FolderConfig, orch *importer.Orchestrator, ledger *importer.Ledger, locks *importer.LockManager, rdb *redis.Client, metrics *observability.Metrics, log *logger.Logger) *FolderIngestor {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	return &FolderIngestor{
		dir:     cfg.Dir,
		orch:    orch,
		ledger:  ledger,
		locks:   locks,
		rdb:     rdb,
		metrics: metrics,
		log:     log.With("component", "FolderIngestor", "dir", cfg.Dir),
		budget:  cfg.Budget,
		workers: cfg.Workers,
	}
}

// Run sweeps the folder once for one tenant. Exhausting the wall-clock
// budget is a normal outcome: the cursor is persisted and the next sweep
// picks up after the last fully processed workbook.
func (f *FolderIngestor) Run(ctx context.Context, instanceID uuid.UUID) error {
	if f.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.budget)
		defer cancel()
	}

	files, err := f.pendingFiles(ctx, instanceID)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		f.log.Info("no pending workbooks")
		return nil
	}

	var mu sync.Mutex
	done := make(map[string]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for _, name := range files {
		g.Go(func() error {
			if err := f.processFile(gctx, instanceID, name); err != nil {
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					return nil
				}
				// One broken workbook does not abort the sweep.
				f.log.Error("workbook failed", "file", name, "error", err)
				return nil
			}
			mu.Lock()
			done[name] = true
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.advanceCursor(instanceID, files, done)
	return nil
}

// pendingFiles lists the folder's workbooks in name order, skipping
// everything at or before the stored cursor.
func (f *FolderIngestor) pendingFiles(ctx context.Context, instanceID uuid.UUID) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".xlsx") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	cursor := f.loadCursor(ctx, instanceID)
	if cursor == "" {
		return files, nil
	}
	for i, name := range files {
		if name > cursor {
			return files[i:], nil
		}
	}
	return nil, nil
}

func (f *FolderIngestor) processFile(ctx context.Context, instanceID uuid.UUID, name string) error {
	release, err := f.locks.Acquire(ctx, "ingest/"+name)
	if err != nil {
		return err
	}
	defer release()

	src, err := NewXlsxSource(filepath.Join(f.dir, name), "", f.log)
	if err != nil {
		return err
	}
	defer src.Close()

	// One import event per workbook: re-running a partially processed
	// file reuses its run.
	importID, err := f.ledger.FindOrCreateRunByRef(ctx, nil, instanceID, name, "tracker-folder", "", nil)
	if err != nil {
		return err
	}

	var rows, failed int
	for {
		in, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		rows++
		if _, err := f.orch.ImportPlot(ctx, nil, instanceID, in, importer.ImportOptions{ImportID: &importID}); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			f.metrics.IncRowRead("xlsx", "error")
			f.log.Warn("row import failed, continuing",
				"file", name, "plot_number", in.PlotNumber, "error", err)
			continue
		}
		f.metrics.IncRowRead("xlsx", "ok")
	}
	f.log.Info("workbook processed", "file", name, "rows", rows, "failed", failed, "import_id", importID)
	return nil
}

func (f *FolderIngestor) cursorKey(instanceID uuid.UUID) string {
	return "snowy:ingest:cursor:" + instanceID.String()
}

func (f *FolderIngestor) loadCursor(ctx context.Context, instanceID uuid.UUID) string {
	if f.rdb == nil {
		return ""
	}
	cursor, err := f.rdb.Get(ctx, f.cursorKey(instanceID)).Result()
	if err != nil {
		if err != redis.Nil {
			f.log.Warn("failed to load ingestion cursor", "error", err)
		}
		return ""
	}
	return cursor
}

// advanceCursor stores the highest workbook name below which everything
// completed. A file that failed or was cut off by the budget holds the
// cursor back so the next sweep retries it; re-imports converge.
func (f *FolderIngestor) advanceCursor(instanceID uuid.UUID, files []string, done map[string]bool) {
	if f.rdb == nil {
		return
	}
	var cursor string
	for _, name := range files {
		if !done[name] {
			break
		}
		cursor = name
	}
	if cursor == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.rdb.Set(ctx, f.cursorKey(instanceID), cursor, 0).Err(); err != nil {
		f.log.Warn("failed to persist ingestion cursor", "cursor", cursor, "error", err)
	}
}
