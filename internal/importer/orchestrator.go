package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// Orchestrator materializes one full plot graph from a denormalized
// import object, composing the entity upserts in strict dependency order.
// It holds no state of its own between runs.
type Orchestrator struct {
	engine *Engine
	ledger *Ledger
	log    *logger.Logger
}

func NewOrchestrator(engine *Engine, ledger *Ledger, log *logger.Logger) *Orchestrator {
	return &Orchestrator{engine: engine, ledger: ledger, log: log}
}

// ImportOptions identifies the run a plot import belongs to. When
// ImportID is nil a new import event is opened for this call.
type ImportOptions struct {
	ImportID *uuid.UUID
	Ref      string
	Source   string
	Notes    string
	UserID   *uuid.UUID
}

// PlotImportResult reports every id the pipeline resolved or created.
// Ids stay nil when the corresponding sub-object was absent or skipped
// over a missing natural key.
type PlotImportResult struct {
	ImportID         uuid.UUID
	DnoDetailsID     *uuid.UUID
	RegionID         *uuid.UUID
	SiteID           *uuid.UUID
	ClientID         *uuid.UUID
	ProjectProcessID *uuid.UUID
	ProjectID        *uuid.UUID
	PlotAddressID    *uuid.UUID
	PlotStatusID     *uuid.UUID
	PlotID           uuid.UUID
	PlotSpecID       *uuid.UUID
	PlotInstallID    *uuid.UUID
}

// ImportPlot runs the full pipeline for one plot import object.
//
// Ordering is strict: each step's output id feeds a later step. A missing
// natural key in a sub-object is logged and the reference left nil; the
// remaining steps continue. A storage error aborts the remaining steps
// and leaves earlier writes in place — every step is independently
// idempotent, so re-importing the same row converges the partial state.
func (o *Orchestrator) ImportPlot(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, in *PlotImport, opts ImportOptions) (*PlotImportResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	importID, err := o.runID(ctx, tx, instanceID, opts)
	if err != nil {
		return nil, err
	}
	res := &PlotImportResult{ImportID: importID}
	eng := o.engine

	// 1. DNO details need nothing else.
	if id, err := eng.ImportDnoDetail(ctx, tx, instanceID, in.DNO, importID); err != nil {
		if !o.skippable(err, "dno", in, importID) {
			return res, err
		}
	} else if id != uuid.Nil {
		res.DnoDetailsID = &id
	}

	// 2. Region is a pure lookup against seeded rows.
	if in.Region != nil {
		id, found, err := eng.LookupRegion(ctx, tx, instanceID, in.Region)
		if err != nil {
			return res, err
		}
		if found {
			res.RegionID = &id
		} else {
			o.log.Warn("region number not found, leaving project region unset",
				"region_number", in.Region.RegionNumber, "import_id", importID)
		}
	}

	// 3. Site, with its nested address and users.
	if id, err := eng.ImportSite(ctx, tx, instanceID, in.Site, importID); err != nil {
		if !o.skippable(err, "site", in, importID) {
			return res, err
		}
	} else if id != uuid.Nil {
		res.SiteID = &id
	}

	// 4. Client, with its own address and contact.
	if id, err := eng.ImportClient(ctx, tx, instanceID, in.Client, importID); err != nil {
		if !o.skippable(err, "client", in, importID) {
			return res, err
		}
	} else if id != uuid.Nil {
		res.ClientID = &id
	}

	// 5–6. Project process, then the project row referencing steps 1–5.
	if in.Project != nil {
		if id, err := eng.ImportProjectProcess(ctx, tx, instanceID, in.Project.Process, importID); err != nil {
			return res, err
		} else if id != uuid.Nil {
			res.ProjectProcessID = &id
		}
		refs := ProjectRefs{
			ClientID:         res.ClientID,
			DnoDetailsID:     res.DnoDetailsID,
			RegionID:         res.RegionID,
			SiteID:           res.SiteID,
			ProjectProcessID: res.ProjectProcessID,
		}
		if id, err := eng.ImportProject(ctx, tx, instanceID, in.Project, refs, importID); err != nil {
			if !o.skippable(err, "project", in, importID) {
				return res, err
			}
		} else if id != uuid.Nil {
			res.ProjectID = &id
		}
	}

	// 7. The plot's own address.
	if id, err := eng.ImportAddress(ctx, tx, instanceID, in.Address, importID); err != nil {
		if !o.skippable(err, "plot address", in, importID) {
			return res, err
		}
	} else if id != uuid.Nil {
		res.PlotAddressID = &id
	}

	// 8. The plot's status.
	if id, err := eng.ImportStatus(ctx, tx, instanceID, in.Status, importID); err != nil {
		if !o.skippable(err, "plot status", in, importID) {
			return res, err
		}
	} else if id != uuid.Nil {
		res.PlotStatusID = &id
	}

	// 9. The plot row itself. plot_spec and plot_install carry a non-null
	// plot_id, so the row is materialized here with every id resolved so
	// far rather than at the end of the pipeline.
	plotID, err := eng.ImportPlotRow(ctx, tx, instanceID, in, PlotRefs{
		ProjectID:     res.ProjectID,
		SiteID:        res.SiteID,
		PlotAddressID: res.PlotAddressID,
		PlotStatusID:  res.PlotStatusID,
	}, importID)
	if err != nil {
		return res, fmt.Errorf("import plot %q: %w", in.PlotNumber, err)
	}
	res.PlotID = plotID

	// 10. Spec and install versions, each fanning into elevations and
	// products.
	if id, err := eng.ImportPlotSpec(ctx, tx, instanceID, plotID, in.PlotSpec, importID); err != nil {
		return res, err
	} else if id != uuid.Nil {
		res.PlotSpecID = &id
	}
	if id, err := eng.ImportPlotInstall(ctx, tx, instanceID, plotID, in.PlotInstall, importID); err != nil {
		return res, err
	} else if id != uuid.Nil {
		res.PlotInstallID = &id
	}

	return res, nil
}

// runID returns the import event id the run's writes are stamped with,
// opening a new one unless the caller supplied an existing id.
func (o *Orchestrator) runID(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, opts ImportOptions) (uuid.UUID, error) {
	if opts.ImportID != nil && *opts.ImportID != uuid.Nil {
		return *opts.ImportID, nil
	}
	return o.ledger.StartRun(ctx, tx, instanceID, opts.Ref, opts.Source, opts.Notes, opts.UserID)
}

// skippable reports whether an entity-level failure should be logged and
// stepped over. Only missing natural keys qualify; storage errors abort
// the pipeline.
func (o *Orchestrator) skippable(err error, step string, in *PlotImport, importID uuid.UUID) bool {
	if errors.Is(err, pkgerrors.ErrMissingNaturalKey) {
		o.log.Warn("skipping import step, natural key incomplete",
			"step", step, "plot_number", in.PlotNumber, "import_id", importID, "error", err)
		return true
	}
	return false
}
