package intake

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// RequiredColumns must all be present in the header row of an uploaded sites
// workbook. Order here is the canonical order used in error messages.
var RequiredColumns = []string{"Store", "Address", "City", "State", "Zipcode"}

// SiteMapColumn is the single optional column.
const SiteMapColumn = "Site Map"

// SiteRow is one parsed spreadsheet row. RowID is a 1-based sequence number
// stable within a single upload. Cells keeps every original-cased column so
// pricing columns can look their per-site price up later.
type SiteRow struct {
	RowID      int               `json:"rowId"`
	Store      string            `json:"store"`
	Address    string            `json:"address"`
	City       string            `json:"city"`
	State      string            `json:"state"`
	Zipcode    string            `json:"zipcode"`
	SiteMapURL string            `json:"siteMapUrl"`
	Cells      map[string]string `json:"cells"`
}

// PriceFor returns the row's cell value for a pricing column's source column,
// parsed as a number, 0 when the cell is absent or not numeric.
func (s SiteRow) PriceFor(column string) float64 {
	raw, ok := s.Cells[column]
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// ImportResult is a successful parse: the site rows plus the pricing columns
// derived from the extra header columns. Re-uploading replaces both wholesale.
type ImportResult struct {
	Sites          []SiteRow     `json:"sites"`
	PricingColumns []PricingItem `json:"pricingColumns"`
}

// MissingColumnsError reports every required column absent from the header
// row, in canonical order.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "Missing required columns: " + strings.Join(e.Columns, ", ")
}

// ParseSites reads an xlsx workbook and produces site rows and pricing
// columns. Only the first sheet is read; its first row is the header.
func ParseSites(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var headers []string
	if len(rows) > 0 {
		for _, h := range rows[0] {
			headers = append(headers, strings.TrimSpace(h))
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !contains(headers, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	var sites []SiteRow
	for _, row := range rows[1:] {
		cells := map[string]string{}
		empty := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			if v != "" {
				empty = false
			}
			cells[h] = v
		}
		if empty {
			continue
		}
		sites = append(sites, SiteRow{
			RowID:      len(sites) + 1,
			Store:      cells["Store"],
			Address:    cells["Address"],
			City:       cells["City"],
			State:      cells["State"],
			Zipcode:    cells["Zipcode"],
			SiteMapURL: cells[SiteMapColumn],
			Cells:      cells,
		})
	}

	var pricing []PricingItem
	for _, h := range headers {
		if h == "" || h == SiteMapColumn || contains(RequiredColumns, h) {
			continue
		}
		pricing = append(pricing, PricingItem{
			ID:     uuid.NewString(),
			Column: h,
			Unit:   "Service",
			Volume: "0",
		})
	}

	return &ImportResult{Sites: sites, PricingColumns: pricing}, nil
}

// WriteTemplate writes the downloadable sites workbook: the header row and one
// example data row on a sheet named "Sites".
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sites"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	header := append(append([]string{}, RequiredColumns...), SiteMapColumn)
	example := []string{
		"Store Name",
		"123 Main St",
		"Seattle",
		"WA",
		"98101",
		"https://example.com/sitemap.jpg (optional)",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A2", &example); err != nil {
		return err
	}

	// Column widths are cosmetic only.
	widths := []float64{15, 20, 15, 8, 10, 40}
	for i, wch := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, wch); err != nil {
			return err
		}
	}

	return f.Write(w)
}
