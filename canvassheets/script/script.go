// Package script builds projects from declarative YAML documents: sheets,
// tables, cell values, formulas, summaries, and charts, plus the number of
// evaluation passes to run after building.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/canvassheets/canvassheets-go/canvassheets"
)

// Document is the top-level script. A nil Passes means the default single
// pass; an explicit 0 builds without evaluating.
type Document struct {
	Sheets []SheetDef `yaml:"sheets"`
	Passes *int       `yaml:"passes"`
}

// SheetDef describes one sheet. An omitted id is generated.
type SheetDef struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Tables []TableDef `yaml:"tables"`
	Charts []ChartDef `yaml:"charts"`
}

// TableDef describes one table. A table with a summary block takes its
// shape from the summary definition and ignores rows and cols.
type TableDef struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Rows        int            `yaml:"rows"`
	Cols        int            `yaml:"cols"`
	X           float64        `yaml:"x"`
	Y           float64        `yaml:"y"`
	Labels      LabelsDef      `yaml:"labels"`
	Cells       map[string]any `yaml:"cells"`
	Ranges      []RangeDef     `yaml:"ranges"`
	ColumnTypes map[int]string `yaml:"columnTypes"`
	LabelBands  []LabelBandDef `yaml:"labelBands"`
	Formulas    []FormulaDef   `yaml:"formulas"`
	Summary     *SummaryDef    `yaml:"summary"`
}

// LabelsDef sets the label band widths around the body.
type LabelsDef struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// RangeDef writes a block of values anchored at a range.
type RangeDef struct {
	Range  string  `yaml:"range"`
	Dtype  string  `yaml:"dtype"`
	Values [][]any `yaml:"values"`
}

// LabelBandDef fills one index of a label band.
type LabelBandDef struct {
	Band   string   `yaml:"band"`
	Index  int      `yaml:"index"`
	Values []string `yaml:"values"`
}

// FormulaDef attaches a formula to a target range.
type FormulaDef struct {
	Target  string `yaml:"target"`
	Formula string `yaml:"formula"`
	Mode    string `yaml:"mode"`
}

// SummaryDef turns its table into a summary over a source table.
type SummaryDef struct {
	Source      string            `yaml:"source"`
	SourceRange string            `yaml:"sourceRange"`
	GroupBy     []string          `yaml:"groupBy"`
	Values      []SummaryValueDef `yaml:"values"`
}

// SummaryValueDef is one aggregated column: a source column letter and an
// aggregation name.
type SummaryValueDef struct {
	Col string `yaml:"col"`
	Agg string `yaml:"agg"`
}

// ChartDef places a chart on its sheet. ShowLegend defaults to true.
type ChartDef struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Type       string  `yaml:"type"`
	Table      string  `yaml:"table"`
	ValueRange string  `yaml:"valueRange"`
	LabelRange *string `yaml:"labelRange"`
	Rect       RectDef `yaml:"rect"`
	Title      string  `yaml:"title"`
	XAxisTitle string  `yaml:"xAxisTitle"`
	YAxisTitle string  `yaml:"yAxisTitle"`
	ShowLegend *bool   `yaml:"showLegend"`
}

// RectDef is a chart's pixel placement.
type RectDef struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Parse decodes a YAML script. An empty input is an empty document.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &doc, nil
}

// ParseFile decodes a YAML script from a file.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Build constructs the project the document describes. It does not run any
// evaluation passes. Errors name the sheet and table they came from.
func (d *Document) Build() (*canvassheets.Project, error) {
	p := canvassheets.NewProject()
	for i := range d.Sheets {
		sheet := &d.Sheets[i]
		id := sheet.ID
		if id == "" {
			id = uuid.NewString()
		}
		name := sheet.Name
		if name == "" {
			name = id
		}
		if _, err := p.AddSheet(name, id); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", id, err)
		}
		for j := range sheet.Tables {
			if err := buildTable(p, id, &sheet.Tables[j]); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", id, err)
			}
		}
		for j := range sheet.Charts {
			if err := buildChart(p, id, &sheet.Charts[j]); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", id, err)
			}
		}
	}
	return p, nil
}

func buildTable(p *canvassheets.Project, sheetID string, def *TableDef) error {
	id := def.ID
	if id == "" {
		id = uuid.NewString()
	}
	name := def.Name
	if name == "" {
		name = id
	}

	var tbl *canvassheets.Table
	var err error
	if def.Summary != nil {
		values := make([]canvassheets.SummaryValue, 0, len(def.Summary.Values))
		for _, v := range def.Summary.Values {
			values = append(values, canvassheets.SummaryValue{Col: v.Col, Agg: v.Agg})
		}
		tbl, err = p.AddSummaryTable(sheetID, id, name, def.Summary.Source,
			def.Summary.GroupBy, values, def.Summary.SourceRange)
		if err == nil {
			tbl.SetPosition(def.X, def.Y)
			tbl.SetLabels(def.Labels.Top, def.Labels.Left, def.Labels.Bottom, def.Labels.Right)
		}
	} else {
		tbl, err = p.AddTable(sheetID, id, name, def.Rows, def.Cols, &canvassheets.TableOptions{
			X: def.X,
			Y: def.Y,
			Labels: canvassheets.LabelBands{
				TopRows:    def.Labels.Top,
				BottomRows: def.Labels.Bottom,
				LeftCols:   def.Labels.Left,
				RightCols:  def.Labels.Right,
			},
		})
	}
	if err != nil {
		return fmt.Errorf("table %q: %w", id, err)
	}

	if len(def.Cells) > 0 {
		cells := make(map[string]any, len(def.Cells))
		for key, raw := range def.Cells {
			v, err := decodeValue(raw)
			if err != nil {
				return fmt.Errorf("table %q: cell %q: %w", id, key, err)
			}
			cells[key] = v
		}
		tbl.SetCells(cells)
	}
	for _, r := range def.Ranges {
		values := make([][]any, len(r.Values))
		for ri, row := range r.Values {
			values[ri] = make([]any, len(row))
			for ci, raw := range row {
				v, err := decodeValue(raw)
				if err != nil {
					return fmt.Errorf("table %q: range %q: %w", id, r.Range, err)
				}
				values[ri][ci] = v
			}
		}
		if err := tbl.SetRange(r.Range, values, r.Dtype); err != nil {
			return fmt.Errorf("table %q: range %q: %w", id, r.Range, err)
		}
	}
	for col, typ := range def.ColumnTypes {
		if err := tbl.SetColumnType(col, typ); err != nil {
			return fmt.Errorf("table %q: column type %d: %w", id, col, err)
		}
	}
	for _, band := range def.LabelBands {
		if err := tbl.SetLabelBand(band.Band, band.Index, band.Values); err != nil {
			return fmt.Errorf("table %q: label band %q: %w", id, band.Band, err)
		}
	}
	for _, f := range def.Formulas {
		if err := tbl.SetFormula(f.Target, f.Formula, f.Mode); err != nil {
			return fmt.Errorf("table %q: formula %q: %w", id, f.Target, err)
		}
	}
	return nil
}

func buildChart(p *canvassheets.Project, sheetID string, def *ChartDef) error {
	id := def.ID
	if id == "" {
		id = uuid.NewString()
	}
	legend := true
	if def.ShowLegend != nil {
		legend = *def.ShowLegend
	}
	_, err := p.AddChart(sheetID, canvassheets.ChartSpec{
		ID:         id,
		Name:       def.Name,
		Type:       def.Type,
		TableID:    def.Table,
		ValueRange: def.ValueRange,
		LabelRange: def.LabelRange,
		X:          def.Rect.X,
		Y:          def.Rect.Y,
		Width:      def.Rect.Width,
		Height:     def.Rect.Height,
		Title:      def.Title,
		XAxisTitle: def.XAxisTitle,
		YAxisTitle: def.YAxisTitle,
		ShowLegend: legend,
	})
	if err != nil {
		return fmt.Errorf("chart %q: %w", id, err)
	}
	return nil
}

// decodeValue converts a YAML scalar or a tagged {type, value} mapping into
// a cell value. Bare scalars follow their YAML type; timestamps become
// dates.
func decodeValue(raw any) (canvassheets.CellValue, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return canvassheets.Normalize(raw), nil
	}
	typ, err := cast.ToStringE(m["type"])
	if err != nil {
		return canvassheets.CellValue{}, fmt.Errorf("typed value needs a string type: %w", err)
	}
	val := m["value"]
	switch typ {
	case "empty":
		return canvassheets.Empty(), nil
	case "number":
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return canvassheets.CellValue{}, fmt.Errorf("number value %v: %w", val, err)
		}
		return canvassheets.Number(f), nil
	case "string":
		s, err := cast.ToStringE(val)
		if err != nil {
			return canvassheets.CellValue{}, fmt.Errorf("string value %v: %w", val, err)
		}
		return canvassheets.String(s), nil
	case "bool":
		b, err := cast.ToBoolE(val)
		if err != nil {
			return canvassheets.CellValue{}, fmt.Errorf("bool value %v: %w", val, err)
		}
		return canvassheets.Bool(b), nil
	case "date":
		if t, ok := val.(time.Time); ok {
			return canvassheets.DateOf(t), nil
		}
		s, err := cast.ToStringE(val)
		if err != nil {
			return canvassheets.CellValue{}, fmt.Errorf("date value %v: %w", val, err)
		}
		return canvassheets.ParseDate(s)
	case "time":
		s, err := cast.ToStringE(val)
		if err != nil {
			return canvassheets.CellValue{}, fmt.Errorf("time value %v: %w", val, err)
		}
		return canvassheets.ParseClock(s)
	default:
		return canvassheets.CellValue{}, fmt.Errorf("unknown value type %q", typ)
	}
}

// Load parses a script, builds the project, and runs the document's
// evaluation passes, one by default.
func Load(r io.Reader) (*canvassheets.Project, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return doc.Load()
}

// LoadFile is Load against a file path.
func LoadFile(path string) (*canvassheets.Project, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Load()
}

// Load builds the document's project and applies its passes.
func (d *Document) Load() (*canvassheets.Project, error) {
	p, err := d.Build()
	if err != nil {
		return nil, err
	}
	for i := 0; i < d.EffectivePasses(); i++ {
		if err := p.ApplyFormulas(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// EffectivePasses resolves the pass count: the document's explicit value,
// or one.
func (d *Document) EffectivePasses() int {
	if d.Passes == nil {
		return 1
	}
	if *d.Passes < 0 {
		return 0
	}
	return *d.Passes
}
