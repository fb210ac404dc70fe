// Package export renders a project as an xlsx workbook: one worksheet per
// sheet, every table placed at the cell block its rect maps to. Values
// only; charts and formula definitions are not carried over.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/canvassheets/canvassheets-go/canvassheets"
)

const currencyFormat = `"$"#,##0.00`

// Workbook builds an in-memory workbook from the project's current cells.
// Worksheet names follow sheet names, deduplicated with a numeric suffix.
func Workbook(p *canvassheets.Project) (*excelize.File, error) {
	f := excelize.NewFile()
	seen := make(map[string]int)
	for i, sheet := range p.Sheets() {
		name := worksheetName(seen, sheet)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("name worksheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add worksheet %q: %w", name, err)
		}
		for _, tbl := range sheet.Tables() {
			if err := writeTable(f, name, tbl); err != nil {
				return nil, fmt.Errorf("table %q: %w", tbl.ID, err)
			}
		}
	}
	return f, nil
}

// WriteFile builds the workbook and saves it to path.
func WriteFile(p *canvassheets.Project, path string) error {
	f, err := Workbook(p)
	if err != nil {
		return err
	}
	return f.SaveAs(path)
}

func worksheetName(seen map[string]int, sheet *canvassheets.Sheet) string {
	base := sheet.Name
	if base == "" {
		base = sheet.ID
	}
	seen[base]++
	if seen[base] == 1 {
		return base
	}
	return fmt.Sprintf("%s (%d)", base, seen[base])
}

// writeTable lays one table out at the block derived from its rect: top
// label rows, then body rows, then bottom label rows, with left and right
// label columns flanking the body.
func writeTable(f *excelize.File, worksheet string, tbl *canvassheets.Table) error {
	baseCol := int(tbl.Rect.X / canvassheets.DefaultCellWidth)
	baseRow := int(tbl.Rect.Y / canvassheets.DefaultCellHeight)
	labels := tbl.Grid.Labels
	bodyRow := baseRow + labels.TopRows
	bodyCol := baseCol + labels.LeftCols

	for i := 0; i < labels.TopRows; i++ {
		for j, label := range tbl.LabelBand(canvassheets.BandTop, i) {
			if err := setCell(f, worksheet, bodyCol+j, baseRow+i, label); err != nil {
				return err
			}
		}
	}
	for i := 0; i < labels.BottomRows; i++ {
		row := bodyRow + tbl.Grid.BodyRows + i
		for j, label := range tbl.LabelBand(canvassheets.BandBottom, i) {
			if err := setCell(f, worksheet, bodyCol+j, row, label); err != nil {
				return err
			}
		}
	}
	for j := 0; j < labels.LeftCols; j++ {
		for i, label := range tbl.LabelBand(canvassheets.BandLeft, j) {
			if err := setCell(f, worksheet, baseCol+j, bodyRow+i, label); err != nil {
				return err
			}
		}
	}
	for j := 0; j < labels.RightCols; j++ {
		col := bodyCol + tbl.Grid.BodyCols + j
		for i, label := range tbl.LabelBand(canvassheets.BandRight, j) {
			if err := setCell(f, worksheet, col, bodyRow+i, label); err != nil {
				return err
			}
		}
	}

	for r := 0; r < tbl.Grid.BodyRows; r++ {
		for c := 0; c < tbl.Grid.BodyCols; c++ {
			v := tbl.Value(r, c)
			if v.IsEmpty() {
				continue
			}
			if err := setCell(f, worksheet, bodyCol+c, bodyRow+r, exportValue(v)); err != nil {
				return err
			}
		}
	}

	return styleCurrencyColumns(f, worksheet, tbl, bodyCol, bodyRow)
}

// exportValue maps a cell value to what lands in the worksheet. Dates and
// times export as their ISO text; error cells export as the sentinel.
func exportValue(v canvassheets.CellValue) any {
	switch v.Kind() {
	case canvassheets.KindNumber:
		f, _ := v.Float()
		return f
	case canvassheets.KindBool:
		return v.Unwrap()
	default:
		return v.String()
	}
}

func setCell(f *excelize.File, worksheet string, col, row int, v any) error {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	return f.SetCellValue(worksheet, axis, v)
}

// styleCurrencyColumns applies a currency number format over every body
// column typed "currency".
func styleCurrencyColumns(f *excelize.File, worksheet string, tbl *canvassheets.Table, bodyCol, bodyRow int) error {
	types := tbl.ColumnTypes()
	var styleID int
	haveStyle := false
	for c, typ := range types {
		if typ != "currency" {
			continue
		}
		if !haveStyle {
			format := currencyFormat
			id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
			if err != nil {
				return err
			}
			styleID = id
			haveStyle = true
		}
		top, err := excelize.CoordinatesToCellName(bodyCol+c+1, bodyRow+1)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(bodyCol+c+1, bodyRow+tbl.Grid.BodyRows)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(worksheet, top, bottom, styleID); err != nil {
			return err
		}
	}
	return nil
}
