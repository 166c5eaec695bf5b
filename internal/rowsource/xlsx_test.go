package rowsource

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tdobson/snowy-sub000/internal/importer"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "tracker.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestXlsxSourceMapsRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Plot Number", "Tracker Ref", "Site Name", "Client Name", "PV Number", "MPAN Prefix", "Pitch", "Orientation", "Module Qty", "Inverter", "Elevation_No", "Scaffold Notes"},
		{"61", "", "Meadow Park", "Wainhomes", "PV1234", "22", 35, "South", 9, "Solis Mini", "1", "double lift"},
		{"", "", "", "", "", "", "", "", "", "", "", ""},
		{"62", "T2", "Meadow Park", "Wainhomes", "PV1234", "22", "", "", "", "", "", ""},
	})

	src, err := NewXlsxSource(path, "", testLogger(t))
	if err != nil {
		t.Fatalf("NewXlsxSource: %v", err)
	}
	defer src.Close()
	ctx := context.Background()

	first, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("Next (first): %v", err)
	}
	if first.PlotNumber != "61" {
		t.Fatalf("plot number: %q", first.PlotNumber)
	}
	if first.Site == nil || first.Site.SiteName != "Meadow Park" {
		t.Fatalf("site not mapped: %+v", first.Site)
	}
	if first.Project == nil || first.Project.PvNumber != "PV1234" {
		t.Fatalf("project not mapped: %+v", first.Project)
	}
	if first.DNO == nil || first.DNO.MpanPrefix != "22" {
		t.Fatalf("dno not mapped: %+v", first.DNO)
	}
	if first.PlotSpec == nil || len(first.PlotSpec.Elevations) != 1 {
		t.Fatalf("elevation not mapped: %+v", first.PlotSpec)
	}
	elev := first.PlotSpec.Elevations[0]
	if elev.Orientation != "South" || elev.Pitch == nil || *elev.Pitch != 35 {
		t.Fatalf("elevation fields: %+v", elev)
	}
	if elev.ModuleQty == nil || *elev.ModuleQty != 9 {
		t.Fatalf("module qty: %+v", elev.ModuleQty)
	}
	if elev.Inverter == nil || elev.Inverter.ProductName != "Solis Mini" {
		t.Fatalf("inverter: %+v", elev.Inverter)
	}
	if elev.CustomFields == nil || elev.CustomFields.Fields[importer.ElevationNoField].Value != "1" {
		t.Fatalf("elevation number passthrough: %+v", elev.CustomFields)
	}

	// Unknown columns pass through as plot custom fields.
	if first.CustomFields == nil {
		t.Fatalf("expected custom field block for unknown columns")
	}
	if got := first.CustomFields.Fields["scaffold notes"].Value; got != "double lift" {
		t.Fatalf("unknown column passthrough: %q", got)
	}

	// The blank row is skipped; the next row is plot 62.
	second, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("Next (second): %v", err)
	}
	if second.PlotNumber != "62" || second.TrackerRef != "T2" {
		t.Fatalf("second row: %+v", second)
	}
	if second.PlotSpec != nil {
		t.Fatalf("row without elevation data mapped an elevation: %+v", second.PlotSpec)
	}

	if _, err := src.Next(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestXlsxSourceRequiresPlotNumberColumn(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Site Name", "Client Name"},
		{"Meadow Park", "Wainhomes"},
	})
	if _, err := NewXlsxSource(path, "", testLogger(t)); err == nil {
		t.Fatalf("expected error for workbook without plot number column")
	}
}
