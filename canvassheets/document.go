package canvassheets

import "encoding/json"

// Document serialization. Every shape is a DTO so the wire format stays
// stable regardless of internal field layout; encoding/json sorts map
// keys, so output is deterministic.

type projectJSON struct {
	Sheets []*Sheet `json:"sheets"`
}

type sheetJSON struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Tables []*Table `json:"tables"`
	Charts []*Chart `json:"charts"`
}

type tableJSON struct {
	ID              string                         `json:"id"`
	Name            string                         `json:"name"`
	Rect            Rect                           `json:"rect"`
	GridSpec        GridSpec                       `json:"gridSpec"`
	CellValues      map[string]CellValue           `json:"cellValues"`
	RangeValues     map[string]rangeBlockJSON      `json:"rangeValues"`
	Formulas        map[string]formulaJSON         `json:"formulas"`
	LabelBandValues map[string]map[string][]string `json:"labelBandValues"`
	BodyColumnTypes []string                       `json:"bodyColumnTypes"`
	Summary         *summaryJSON                   `json:"summary,omitempty"`
}

type rangeBlockJSON struct {
	Values [][]CellValue `json:"values"`
	Dtype  string        `json:"dtype"`
}

type formulaJSON struct {
	Formula string `json:"formula"`
	Mode    string `json:"mode"`
}

type summaryJSON struct {
	Source      string           `json:"source"`
	GroupBy     []int            `json:"groupBy"`
	Values      []summaryColJSON `json:"values"`
	SourceRange string           `json:"sourceRange,omitempty"`
}

type summaryColJSON struct {
	Col int    `json:"col"`
	Agg string `json:"agg"`
}

type chartJSON struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ChartType  string  `json:"chartType"`
	TableID    string  `json:"tableId"`
	ValueRange string  `json:"valueRange"`
	LabelRange *string `json:"labelRange"`
	Rect       Rect    `json:"rect"`
	Title      string  `json:"title"`
	XAxisTitle string  `json:"xAxisTitle"`
	YAxisTitle string  `json:"yAxisTitle"`
	ShowLegend bool    `json:"showLegend"`
}

func (p *Project) MarshalJSON() ([]byte, error) {
	doc := projectJSON{Sheets: p.sheets}
	if doc.Sheets == nil {
		doc.Sheets = []*Sheet{}
	}
	return json.Marshal(doc)
}

func (s *Sheet) MarshalJSON() ([]byte, error) {
	doc := sheetJSON{ID: s.ID, Name: s.Name, Tables: s.tables, Charts: s.charts}
	if doc.Tables == nil {
		doc.Tables = []*Table{}
	}
	if doc.Charts == nil {
		doc.Charts = []*Chart{}
	}
	return json.Marshal(doc)
}

func (t *Table) MarshalJSON() ([]byte, error) {
	doc := tableJSON{
		ID:              t.ID,
		Name:            t.Name,
		Rect:            t.Rect,
		GridSpec:        t.Grid,
		CellValues:      t.cells,
		RangeValues:     make(map[string]rangeBlockJSON, len(t.ranges)),
		Formulas:        make(map[string]formulaJSON, len(t.formulas)),
		LabelBandValues: t.bands,
		BodyColumnTypes: t.colTypes,
	}
	for key, block := range t.ranges {
		doc.RangeValues[key] = rangeBlockJSON{Values: block.Values, Dtype: block.Dtype}
	}
	for key, def := range t.formulas {
		doc.Formulas[key] = formulaJSON{Formula: def.Text, Mode: def.Mode}
	}
	if doc.BodyColumnTypes == nil {
		doc.BodyColumnTypes = []string{}
	}
	if t.summary != nil {
		doc.Summary = summarizeJSON(t.summary)
	}
	return json.Marshal(doc)
}

func summarizeJSON(spec *SummarySpec) *summaryJSON {
	out := &summaryJSON{
		Source:  spec.SourceTableID,
		GroupBy: spec.GroupBy,
		Values:  make([]summaryColJSON, 0, len(spec.Values)),
	}
	if out.GroupBy == nil {
		out.GroupBy = []int{}
	}
	for _, v := range spec.Values {
		out.Values = append(out.Values, summaryColJSON{Col: v.Col, Agg: string(v.Agg)})
	}
	if spec.SourceRange != nil {
		out.SourceRange = spec.SourceRange.String()
	}
	return out
}

func (c *Chart) MarshalJSON() ([]byte, error) {
	return json.Marshal(chartJSON{
		ID:         c.ID,
		Name:       c.Name,
		ChartType:  c.Type,
		TableID:    c.TableID,
		ValueRange: c.ValueRange,
		LabelRange: c.LabelRange,
		Rect:       c.Rect,
		Title:      c.Title,
		XAxisTitle: c.XAxisTitle,
		YAxisTitle: c.YAxisTitle,
		ShowLegend: c.ShowLegend,
	})
}
