package canvassheets

// Project is the root document: sheets in order, a global table registry,
// and the definition-order counter that schedules ApplyFormulas.
type Project struct {
	sheets    []*Sheet
	sheetByID map[string]*Sheet
	tableByID map[string]*Table
	chartIDs  map[string]struct{}
	orderSeq  int
}

// TableOptions carries optional placement and label bands for AddTable.
type TableOptions struct {
	X      float64
	Y      float64
	Labels LabelBands
}

// NewProject creates an empty project.
func NewProject() *Project {
	return &Project{
		sheetByID: make(map[string]*Sheet),
		tableByID: make(map[string]*Table),
		chartIDs:  make(map[string]struct{}),
	}
}

// nextOrder hands out the monotonically increasing definition-order stamp
// shared by formulas and summary definitions.
func (p *Project) nextOrder() int {
	p.orderSeq++
	return p.orderSeq
}

// AddSheet appends a sheet. Duplicate ids fail with AlreadyExists.
func (p *Project) AddSheet(name, sheetID string) (*Sheet, error) {
	if _, ok := p.sheetByID[sheetID]; ok {
		return nil, newError(CodeAlreadyExists, "sheet %q already exists", sheetID)
	}
	s := &Sheet{ID: sheetID, Name: name, project: p}
	p.sheets = append(p.sheets, s)
	p.sheetByID[sheetID] = s
	return s, nil
}

// RenameSheet changes a sheet's display name.
func (p *Project) RenameSheet(sheetID, name string) error {
	s, ok := p.sheetByID[sheetID]
	if !ok {
		return newError(CodeNotFound, "sheet %q not found", sheetID)
	}
	s.Name = name
	return nil
}

// AddTable creates a table on a sheet. Table ids are unique across the
// whole project; rows and cols floor at 1.
func (p *Project) AddTable(sheetID, tableID, name string, rows, cols int, opts *TableOptions) (*Table, error) {
	s, ok := p.sheetByID[sheetID]
	if !ok {
		return nil, newError(CodeNotFound, "sheet %q not found", sheetID)
	}
	if _, ok := p.tableByID[tableID]; ok {
		return nil, newError(CodeAlreadyExists, "table %q already exists", tableID)
	}
	t := newTable(p, tableID, name, rows, cols, opts)
	s.tables = append(s.tables, t)
	p.tableByID[tableID] = t
	return t, nil
}

// AddSummaryTable creates a table whose body is recomputed from a source
// table on every ApplyFormulas pass. groupBy and value columns are source
// column letters; aggregations are sum, avg, min, max, or count. A non-empty
// sourceRange restricts the scanned row window. The definition takes the
// next order stamp, so it runs after everything defined before it.
func (p *Project) AddSummaryTable(sheetID, tableID, name, sourceTableID string, groupBy []string, values []SummaryValue, sourceRange string) (*Table, error) {
	s, ok := p.sheetByID[sheetID]
	if !ok {
		return nil, newError(CodeNotFound, "sheet %q not found", sheetID)
	}
	if _, ok := p.tableByID[tableID]; ok {
		return nil, newError(CodeAlreadyExists, "table %q already exists", tableID)
	}
	if _, ok := p.tableByID[sourceTableID]; !ok {
		return nil, newError(CodeUnknownTable, "unknown table %q", sourceTableID)
	}

	spec := &SummarySpec{SourceTableID: sourceTableID}
	for _, label := range groupBy {
		col, err := ColumnIndex(label)
		if err != nil {
			return nil, err
		}
		spec.GroupBy = append(spec.GroupBy, col)
	}
	for _, v := range values {
		col, err := ColumnIndex(v.Col)
		if err != nil {
			return nil, err
		}
		agg := Aggregation(v.Agg)
		if !agg.valid() {
			return nil, newError(CodeUnsupportedAggregation, "unsupported aggregation %q", v.Agg)
		}
		spec.Values = append(spec.Values, SummaryColumn{Col: col, Agg: agg})
	}
	if sourceRange != "" {
		ref, err := ParseRange(sourceRange)
		if err != nil {
			return nil, err
		}
		spec.SourceRange = ref
	}

	cols := max(1, len(spec.GroupBy)+len(spec.Values))
	t := newTable(p, tableID, name, 1, cols, nil)
	spec.Order = p.nextOrder()
	t.summary = spec
	s.tables = append(s.tables, t)
	p.tableByID[tableID] = t
	return t, nil
}

// AddChart places a chart on a sheet. Chart ids are unique across the
// project.
func (p *Project) AddChart(sheetID string, spec ChartSpec) (*Chart, error) {
	s, ok := p.sheetByID[sheetID]
	if !ok {
		return nil, newError(CodeNotFound, "sheet %q not found", sheetID)
	}
	if _, ok := p.chartIDs[spec.ID]; ok {
		return nil, newError(CodeAlreadyExists, "chart %q already exists", spec.ID)
	}
	c := newChart(spec)
	s.charts = append(s.charts, c)
	p.chartIDs[spec.ID] = struct{}{}
	return c, nil
}

// Sheet looks a sheet up by id.
func (p *Project) Sheet(id string) (*Sheet, error) {
	s, ok := p.sheetByID[id]
	if !ok {
		return nil, newError(CodeNotFound, "sheet %q not found", id)
	}
	return s, nil
}

// Table looks a table up by id across all sheets.
func (p *Project) Table(id string) (*Table, error) {
	t, ok := p.tableByID[id]
	if !ok {
		return nil, newError(CodeUnknownTable, "unknown table %q", id)
	}
	return t, nil
}

// Sheets returns the project's sheets in the order they were added.
func (p *Project) Sheets() []*Sheet {
	return p.sheets
}
