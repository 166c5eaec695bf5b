package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/tdobson/snowy-sub000/internal/domain"
	"github.com/tdobson/snowy-sub000/internal/importer"
	"github.com/tdobson/snowy-sub000/internal/observability"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
	"github.com/tdobson/snowy-sub000/internal/rowsource"
)

type ImportService interface {
	ImportPlot(ctx context.Context, instanceID uuid.UUID, in *importer.PlotImport, opts importer.ImportOptions) (*importer.PlotImportResult, error)
	ListRuns(ctx context.Context, instanceID uuid.UUID, limit int) ([]types.ImportEvent, error)
	GetRun(ctx context.Context, importID uuid.UUID) (*types.ImportEvent, error)
	SweepFolder(ctx context.Context, instanceID uuid.UUID) error
}

type importService struct {
	db       *gorm.DB
	log      *logger.Logger
	orch     *importer.Orchestrator
	ledger   *importer.Ledger
	ingestor *rowsource.FolderIngestor
	metrics  *observability.Metrics
}

// NewImportService wraps the import pipeline for the HTTP surface and the
// folder sweep. The ingestor may be nil when no tracker folder is
// configured; SweepFolder is then a no-op.
func NewImportService(
	db *gorm.DB,
	log *logger.Logger,
	orch *importer.Orchestrator,
	ledger *importer.Ledger,
	ingestor *rowsource.FolderIngestor,
	metrics *observability.Metrics,
) ImportService {
	serviceLog := log.With("service", "ImportService")
	return &importService{
		db:       db,
		log:      serviceLog,
		orch:     orch,
		ledger:   ledger,
		ingestor: ingestor,
		metrics:  metrics,
	}
}

// ImportPlot runs outside any wrapping transaction: each entity upsert
// commits independently so a mid-graph failure leaves converged partial
// state that the next attempt completes.
func (is *importService) ImportPlot(ctx context.Context, instanceID uuid.UUID, in *importer.PlotImport, opts importer.ImportOptions) (*importer.PlotImportResult, error) {
	result, err := is.orch.ImportPlot(ctx, nil, instanceID, in, opts)
	if err != nil {
		is.metrics.IncImportRun("error")
		return nil, err
	}
	is.metrics.IncImportRun("ok")
	return result, nil
}

func (is *importService) ListRuns(ctx context.Context, instanceID uuid.UUID, limit int) ([]types.ImportEvent, error) {
	return is.ledger.List(ctx, nil, instanceID, limit)
}

func (is *importService) GetRun(ctx context.Context, importID uuid.UUID) (*types.ImportEvent, error) {
	return is.ledger.Get(ctx, nil, importID)
}

func (is *importService) SweepFolder(ctx context.Context, instanceID uuid.UUID) error {
	if is.ingestor == nil {
		is.log.Debug("no tracker folder configured, skipping sweep")
		return nil
	}
	return is.ingestor.Run(ctx, instanceID)
}
