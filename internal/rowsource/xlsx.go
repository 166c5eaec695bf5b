package rowsource

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tdobson/snowy-sub000/internal/importer"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// Well-known tracker sheet headers. Matching is case-insensitive with
// spaces and underscores collapsed, so "Plot Number", "plot_number" and
// "PLOT NUMBER" all bind the same column.
const (
	colPlotNumber   = "plot number"
	colTrackerRef   = "tracker ref"
	colHousetype    = "housetype"
	colMpan         = "mpan"
	colAddressLine1 = "address line 1"
	colAddressLine2 = "address line 2"
	colAddressTown  = "town"
	colPostcode     = "postcode"
	colPlotStatus   = "plot status"
	colMpanPrefix   = "mpan prefix"
	colDnoName      = "dno name"
	colRegionNumber = "region number"
	colSiteName     = "site name"
	colClientName   = "client name"
	colPvNumber     = "pv number"
	colProjectName  = "project name"
	colPitch        = "pitch"
	colOrientation  = "orientation"
	colModuleQty    = "module qty"
	colKwp          = "kwp"
	colElevationNo  = "elevation no"
	colInverter     = "inverter"
	colPanel        = "panel"
	colRoofKit      = "roof kit"
)

var knownColumns = map[string]bool{
	colPlotNumber: true, colTrackerRef: true, colHousetype: true,
	colMpan: true, colAddressLine1: true, colAddressLine2: true,
	colAddressTown: true, colPostcode: true, colPlotStatus: true,
	colMpanPrefix: true, colDnoName: true, colRegionNumber: true,
	colSiteName: true, colClientName: true, colPvNumber: true,
	colProjectName: true, colPitch: true, colOrientation: true,
	colModuleQty: true, colKwp: true, colElevationNo: true,
	colInverter: true, colPanel: true, colRoofKit: true,
}

// XlsxSource reads a tracker workbook one row at a time, mapping header
// names to the nested plot import shape. Columns the mapping does not
// recognize pass through as a custom-field block on the plot, so tenant
// specific tracker columns are never dropped.
type XlsxSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	header map[string]int
	name   string
	log    *logger.Logger
}

// NewXlsxSource opens the named sheet of a workbook. An empty sheet name
// selects the workbook's first sheet. The first row is the header.
func NewXlsxSource(path, sheet string, log *logger.Logger) (*XlsxSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open sheet %q: %w", sheet, err)
	}

	src := &XlsxSource{
		file:   f,
		rows:   rows,
		header: make(map[string]int),
		name:   path,
		log:    log.With("component", "XlsxSource", "workbook", path),
	}
	if !rows.Next() {
		src.Close()
		return nil, fmt.Errorf("workbook %s: sheet %q has no header row", path, sheet)
	}
	cells, err := rows.Columns()
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("workbook %s: read header: %w", path, err)
	}
	for i, cell := range cells {
		name := normalizeHeader(cell)
		if name == "" {
			continue
		}
		if _, dup := src.header[name]; dup {
			src.log.Warn("duplicate header column, keeping first", "column", name)
			continue
		}
		src.header[name] = i
	}
	if _, ok := src.header[colPlotNumber]; !ok {
		src.Close()
		return nil, fmt.Errorf("workbook %s: no %q column", path, colPlotNumber)
	}
	return src, nil
}

// Next returns the next row as a plot import object, skipping rows with a
// blank plot number. io.EOF ends iteration.
func (s *XlsxSource) Next(ctx context.Context) (*importer.PlotImport, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.rows.Next() {
			if err := s.rows.Error(); err != nil {
				return nil, fmt.Errorf("workbook %s: %w", s.name, err)
			}
			return nil, io.EOF
		}
		cells, err := s.rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("workbook %s: read row: %w", s.name, err)
		}
		if strings.TrimSpace(s.cell(cells, colPlotNumber)) == "" {
			continue
		}
		return s.mapRow(cells), nil
	}
}

func (s *XlsxSource) Close() error {
	if s.rows != nil {
		_ = s.rows.Close()
	}
	return s.file.Close()
}

func (s *XlsxSource) mapRow(cells []string) *importer.PlotImport {
	p := &importer.PlotImport{
		PlotNumber: strings.TrimSpace(s.cell(cells, colPlotNumber)),
		TrackerRef: strings.TrimSpace(s.cell(cells, colTrackerRef)),
		Housetype:  s.cell(cells, colHousetype),
		Mpan:       s.cell(cells, colMpan),
	}

	if line1, postcode := s.cell(cells, colAddressLine1), s.cell(cells, colPostcode); line1 != "" || postcode != "" {
		p.Address = &importer.AddressImport{
			AddressLine1: line1,
			AddressLine2: s.cell(cells, colAddressLine2),
			AddressTown:  s.cell(cells, colAddressTown),
			Postcode:     postcode,
		}
	}
	if state := s.cell(cells, colPlotStatus); state != "" {
		p.Status = &importer.StatusImport{StatusState: state, StatusGroup: "Plot"}
	}
	if prefix := s.cell(cells, colMpanPrefix); prefix != "" {
		p.DNO = &importer.DnoImport{MpanPrefix: prefix, DnoName: s.cell(cells, colDnoName)}
	}
	if n, ok := s.intCell(cells, colRegionNumber); ok {
		p.Region = &importer.RegionImport{RegionNumber: n}
	}
	if name := s.cell(cells, colSiteName); name != "" {
		p.Site = &importer.SiteImport{SiteName: name}
	}
	if name := s.cell(cells, colClientName); name != "" {
		p.Client = &importer.ClientImport{ClientName: name}
	}
	if pv := s.cell(cells, colPvNumber); pv != "" {
		p.Project = &importer.ProjectImport{PvNumber: pv, ProjectName: s.cell(cells, colProjectName)}
	}

	if elev := s.mapElevation(cells); elev != nil {
		p.PlotSpec = &importer.PlotSpecImport{Elevations: []importer.ElevationImport{*elev}}
	}

	if extras := s.extraFields(cells); len(extras) > 0 {
		p.CustomFields = &importer.CustomFieldBlock{
			EntityType: importer.KindPlot,
			Fields:     extras,
		}
	}
	return p
}

func (s *XlsxSource) mapElevation(cells []string) *importer.ElevationImport {
	orientation := s.cell(cells, colOrientation)
	pitch, hasPitch := s.floatCell(cells, colPitch)
	if orientation == "" && !hasPitch {
		return nil
	}
	elev := &importer.ElevationImport{Orientation: orientation}
	if hasPitch {
		elev.Pitch = &pitch
	}
	if n, ok := s.intCell(cells, colModuleQty); ok {
		elev.ModuleQty = &n
	}
	if v, ok := s.floatCell(cells, colKwp); ok {
		elev.Kwp = &v
	}
	if no := s.cell(cells, colElevationNo); no != "" {
		elev.CustomFields = &importer.CustomFieldBlock{
			EntityType: importer.KindElevationSpec,
			Fields: map[string]importer.CustomFieldValue{
				importer.ElevationNoField: {Value: no},
			},
		}
	}
	if name := s.cell(cells, colInverter); name != "" {
		elev.Inverter = &importer.ProductImport{ProductName: name, ProductType: "Inverter"}
	}
	if name := s.cell(cells, colPanel); name != "" {
		elev.Panel = &importer.ProductImport{ProductName: name, ProductType: "Panel"}
	}
	if name := s.cell(cells, colRoofKit); name != "" {
		elev.RoofKit = &importer.ProductImport{ProductName: name, ProductType: "Roof Kit"}
	}
	return elev
}

// extraFields collects the cells under headers the mapping does not know.
func (s *XlsxSource) extraFields(cells []string) map[string]importer.CustomFieldValue {
	extras := make(map[string]importer.CustomFieldValue)
	for name, idx := range s.header {
		if knownColumns[name] {
			continue
		}
		if idx >= len(cells) {
			continue
		}
		val := strings.TrimSpace(cells[idx])
		if val == "" {
			continue
		}
		extras[name] = importer.CustomFieldValue{Value: val}
	}
	return extras
}

func (s *XlsxSource) cell(cells []string, column string) string {
	idx, ok := s.header[column]
	if !ok || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func (s *XlsxSource) floatCell(cells []string, column string) (float64, bool) {
	raw := s.cell(cells, column)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.log.Warn("unparseable numeric cell", "column", column, "value", raw)
		return 0, false
	}
	return v, true
}

func (s *XlsxSource) intCell(cells []string, column string) (int, bool) {
	v, ok := s.floatCell(cells, column)
	if !ok {
		return 0, false
	}
	return int(v), true
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}
