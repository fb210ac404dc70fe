package canvassheets

import (
	"slices"
	"strconv"
	"strings"
)

// regionBody is the grid region that drives growth. Label regions accept
// writes without resizing the table.
const regionBody = "body"

// ModeSpreadsheet is the only formula evaluation mode.
const ModeSpreadsheet = "spreadsheet"

// Label band names accepted by SetLabelBand.
const (
	BandTop    = "top"
	BandBottom = "bottom"
	BandLeft   = "left"
	BandRight  = "right"
)

// FormulaDef is one stored formula: its verbatim text, evaluation mode,
// parsed target range, and definition-order stamp.
type FormulaDef struct {
	Text   string
	Mode   string
	Target *RangeRef
	Order  int
}

// RangeBlock is a SetRange payload kept verbatim for serialization.
type RangeBlock struct {
	Values [][]CellValue
	Dtype  string
}

// Table is one grid of cells on a sheet, carrying stored values, range
// payloads, formula definitions, label bands, column types, and (for
// summary tables) a summary definition.
type Table struct {
	ID   string
	Name string
	Rect Rect
	Grid GridSpec

	cells    map[string]CellValue
	ranges   map[string]*RangeBlock
	formulas map[string]*FormulaDef
	bands    map[string]map[string][]string
	colTypes []string
	summary  *SummarySpec

	project *Project
}

func newTable(p *Project, id, name string, rows, cols int, opts *TableOptions) *Table {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t := &Table{
		ID:       id,
		Name:     name,
		Grid:     GridSpec{BodyRows: rows, BodyCols: cols},
		cells:    make(map[string]CellValue),
		ranges:   make(map[string]*RangeBlock),
		formulas: make(map[string]*FormulaDef),
		bands:    newBands(),
		project:  p,
	}
	if opts != nil {
		t.Rect.X, t.Rect.Y = opts.X, opts.Y
		t.Grid.Labels = clampBands(opts.Labels)
	}
	t.deriveRect()
	return t
}

func newBands() map[string]map[string][]string {
	return map[string]map[string][]string{
		BandTop:    {},
		BandBottom: {},
		BandLeft:   {},
		BandRight:  {},
	}
}

func clampBands(b LabelBands) LabelBands {
	return LabelBands{
		TopRows:    max(0, b.TopRows),
		BottomRows: max(0, b.BottomRows),
		LeftCols:   max(0, b.LeftCols),
		RightCols:  max(0, b.RightCols),
	}
}

// deriveRect recomputes the pixel footprint from the grid shape, leaving
// the origin alone.
func (t *Table) deriveRect() {
	t.Rect.Width, t.Rect.Height = t.Grid.sizeOf()
}

// growBody widens the body to cover at least rows x cols.
func (t *Table) growBody(rows, cols int) {
	grew := false
	if rows > t.Grid.BodyRows {
		t.Grid.BodyRows = rows
		grew = true
	}
	if cols > t.Grid.BodyCols {
		t.Grid.BodyCols = cols
		grew = true
	}
	if grew {
		t.deriveRect()
	}
}

// Resize sets the body extent. Pass KeepDim to leave a dimension unchanged.
func (t *Table) Resize(rows, cols int) {
	if rows >= 0 {
		t.Grid.BodyRows = rows
	}
	if cols >= 0 {
		t.Grid.BodyCols = cols
	}
	t.deriveRect()
}

// SetLabels sets the label band widths. Pass KeepDim to leave one unchanged.
func (t *Table) SetLabels(top, left, bottom, right int) {
	if top >= 0 {
		t.Grid.Labels.TopRows = top
	}
	if left >= 0 {
		t.Grid.Labels.LeftCols = left
	}
	if bottom >= 0 {
		t.Grid.Labels.BottomRows = bottom
	}
	if right >= 0 {
		t.Grid.Labels.RightCols = right
	}
	t.deriveRect()
}

// SetPosition moves the rect origin. Size stays derived from the grid.
func (t *Table) SetPosition(x, y float64) {
	t.Rect.X, t.Rect.Y = x, y
}

// writeCell stores one parsed cell under its canonical key. clearFormulas
// distinguishes user writes, which delete any formula whose target covers
// the cell, from formula output writes, which never delete definitions.
func (t *Table) writeCell(region string, row, col int, v CellValue, clearFormulas bool) {
	if clearFormulas {
		for key, def := range t.formulas {
			if def.Target.Region == region && def.Target.Contains(row, col) {
				delete(t.formulas, key)
			}
		}
	}
	t.cells[Address(region, row, col)] = v
}

// readCell returns the stored value at a parsed coordinate, empty when the
// key was never written.
func (t *Table) readCell(region string, row, col int) CellValue {
	return t.cells[Address(region, row, col)]
}

// SetCells writes a batch of region-keyed values. Body keys grow the grid
// to the maximal touched coordinate before any write; keys that do not
// parse as a single cell, or that name another region, are stored verbatim
// without growth.
func (t *Table) SetCells(cells map[string]any) {
	type cellWrite struct {
		ref   *RangeRef
		value CellValue
	}
	maxRow, maxCol := -1, -1
	writes := make([]cellWrite, 0, len(cells))
	for key, raw := range cells {
		ref, err := ParseRange(key)
		if err != nil || ref.StartRow != ref.EndRow || ref.StartCol != ref.EndCol {
			t.cells[key] = Normalize(raw)
			continue
		}
		if ref.Region == regionBody {
			maxRow = max(maxRow, ref.StartRow)
			maxCol = max(maxCol, ref.StartCol)
		}
		writes = append(writes, cellWrite{ref: ref, value: Normalize(raw)})
	}
	t.growBody(maxRow+1, maxCol+1)
	for _, w := range writes {
		t.writeCell(w.ref.Region, w.ref.StartRow, w.ref.StartCol, w.value, true)
	}
}

// SetRange stores a block payload verbatim under its range key, then
// expands it into per-cell writes anchored at the range start. Ragged rows
// leave absent positions untouched. The dtype defaults to "number".
func (t *Table) SetRange(rangeText string, values [][]any, dtype string) error {
	ref, err := ParseRange(rangeText)
	if err != nil {
		return err
	}
	if dtype == "" {
		dtype = "number"
	}
	block := &RangeBlock{Dtype: dtype, Values: make([][]CellValue, len(values))}
	maxCols := 0
	for i, row := range values {
		block.Values[i] = make([]CellValue, len(row))
		for j, raw := range row {
			block.Values[i][j] = Normalize(raw)
		}
		maxCols = max(maxCols, len(row))
	}
	t.ranges[rangeText] = block

	startRow, startCol, _, _ := ref.Bounds()
	if ref.Region == regionBody && len(block.Values) > 0 && maxCols > 0 {
		t.growBody(startRow+len(block.Values), startCol+maxCols)
	}
	for i, row := range block.Values {
		for j, v := range row {
			t.writeCell(ref.Region, startRow+i, startCol+j, v, true)
		}
	}
	return nil
}

// SetColumnType records a body column's display type, growing the body and
// padding the type list with "number" to cover the index.
func (t *Table) SetColumnType(index int, columnType string) error {
	if index < 0 {
		return newError(CodeOutOfBounds, "negative column index %d", index)
	}
	t.growBody(0, index+1)
	for len(t.colTypes) < t.Grid.BodyCols {
		t.colTypes = append(t.colTypes, "number")
	}
	t.colTypes[index] = columnType
	return nil
}

// ColumnTypes returns one type per body column, defaulting to "number".
func (t *Table) ColumnTypes() []string {
	out := make([]string, t.Grid.BodyCols)
	for i := range out {
		if i < len(t.colTypes) && t.colTypes[i] != "" {
			out[i] = t.colTypes[i]
		} else {
			out[i] = "number"
		}
	}
	return out
}

// SetLabelBand stores the label strings for one index of a band. The index
// counts rows of the top/bottom bands and columns of the left/right bands.
func (t *Table) SetLabelBand(band string, index int, values []string) error {
	if _, ok := t.bands[band]; !ok {
		return newError(CodeNotFound, "unknown label band %q", band)
	}
	if index < 0 {
		return newError(CodeOutOfBounds, "negative label band index %d", index)
	}
	t.bands[band][strconv.Itoa(index)] = slices.Clone(values)
	return nil
}

// LabelBand returns the stored labels for one index of a band, nil when
// unset.
func (t *Table) LabelBand(band string, index int) []string {
	return t.bands[band][strconv.Itoa(index)]
}

// SetFormula stores a formula definition against a target range and stamps
// it with the project's next definition-order value. Empty text deletes the
// definition. The target must parse; body targets grow the grid to cover
// their extent, other regions never grow. The only evaluation mode is
// "spreadsheet", which is also the default.
func (t *Table) SetFormula(rangeText, formulaText, mode string) error {
	if strings.TrimSpace(formulaText) == "" {
		delete(t.formulas, rangeText)
		return nil
	}
	ref, err := ParseRange(rangeText)
	if err != nil {
		return err
	}
	if mode == "" {
		mode = ModeSpreadsheet
	}
	if mode != ModeSpreadsheet {
		return newError(CodeUnsupportedMode, "unsupported formula mode %q", mode)
	}
	if ref.Region == regionBody {
		_, _, endRow, endCol := ref.Bounds()
		t.growBody(endRow+1, endCol+1)
	}
	t.formulas[rangeText] = &FormulaDef{
		Text:   formulaText,
		Mode:   mode,
		Target: ref,
		Order:  t.project.nextOrder(),
	}
	return nil
}

// InsertRows grows the body by count rows. Stored cell keys are not
// rewritten; the insertion index exists for interface compatibility.
func (t *Table) InsertRows(at, count int) {
	if count > 0 {
		t.Grid.BodyRows += count
		t.deriveRect()
	}
}

// InsertCols grows the body by count columns. Stored cell keys are not
// rewritten; the insertion index exists for interface compatibility.
func (t *Table) InsertCols(at, count int) {
	if count > 0 {
		t.Grid.BodyCols += count
		t.deriveRect()
	}
}

// Minimize shrinks the body to the smallest extent covering every non-empty
// body cell and every body formula target, flooring at 1x1.
func (t *Table) Minimize() {
	maxRow, maxCol := -1, -1
	for key, v := range t.cells {
		if v.IsEmpty() {
			continue
		}
		ref, err := ParseRange(key)
		if err != nil || ref.Region != regionBody {
			continue
		}
		_, _, endRow, endCol := ref.Bounds()
		maxRow = max(maxRow, endRow)
		maxCol = max(maxCol, endCol)
	}
	for _, def := range t.formulas {
		if def.Target.Region != regionBody {
			continue
		}
		_, _, endRow, endCol := def.Target.Bounds()
		maxRow = max(maxRow, endRow)
		maxCol = max(maxCol, endCol)
	}
	t.Grid.BodyRows = max(1, maxRow+1)
	t.Grid.BodyCols = max(1, maxCol+1)
	t.deriveRect()
}

// Get reads a body cell, returning the unwrapped scalar or nil when empty.
func (t *Table) Get(row, col int) any {
	return t.readCell(regionBody, row, col).Unwrap()
}

// Value reads a body cell as its tagged CellValue form.
func (t *Table) Value(row, col int) CellValue {
	return t.readCell(regionBody, row, col)
}

// Set writes one body cell, growing the grid and clearing any formula whose
// target covers the cell.
func (t *Table) Set(row, col int, value any) error {
	if row < 0 || col < 0 {
		return newError(CodeOutOfBounds, "cell out of bounds (%d, %d)", row, col)
	}
	t.growBody(row+1, col+1)
	t.writeCell(regionBody, row, col, Normalize(value), true)
	return nil
}

// Summary returns the table's summary definition, nil for ordinary tables.
func (t *Table) Summary() *SummarySpec {
	return t.summary
}
