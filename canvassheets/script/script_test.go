package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvassheets/canvassheets-go/canvassheets"
)

const fullScript = `
sheets:
  - id: sheet_1
    name: Sheet 1
    tables:
      - id: table_1
        name: Inputs
        rows: 3
        cols: 2
        labels: {top: 1}
        cells:
          body[A0]: G1
          body[B0]: 1
        ranges:
          - range: "body[A1:B2]"
            values: [[G2, 2], [G1, 2]]
        columnTypes: {1: currency}
        labelBands:
          - {band: top, index: 0, values: [Name, Amount]}
        formulas:
          - target: "body[C0:C2]"
            formula: "=B0*2"
      - id: summary_1
        name: Totals
        summary:
          source: table_1
          groupBy: [A]
          values: [{col: B, agg: sum}]
    charts:
      - id: chart_1
        name: Chart
        type: line
        table: table_1
        valueRange: "body[B0:B2]"
        rect: {x: 10, y: 20, width: 300, height: 200}
`

func TestLoadFullScript(t *testing.T) {
	p, err := Load(strings.NewReader(fullScript))
	require.NoError(t, err)

	tbl, err := p.Table("table_1")
	require.NoError(t, err)
	assert.Equal(t, "Inputs", tbl.Name)
	assert.Equal(t, 1, tbl.Grid.Labels.TopRows)
	assert.Equal(t, []string{"number", "currency", "number"}, tbl.ColumnTypes())
	assert.Equal(t, []string{"Name", "Amount"}, tbl.LabelBand(canvassheets.BandTop, 0))

	assert.Equal(t, 2.0, tbl.Get(0, 2))
	assert.Equal(t, 4.0, tbl.Get(1, 2))
	assert.Equal(t, 4.0, tbl.Get(2, 2))

	sum, err := p.Table("summary_1")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Grid.BodyRows)
	assert.Equal(t, "G1", sum.Get(0, 0))
	assert.Equal(t, 3.0, sum.Get(0, 1))
	assert.Equal(t, "G2", sum.Get(1, 0))
	assert.Equal(t, 2.0, sum.Get(1, 1))

	sheet, err := p.Sheet("sheet_1")
	require.NoError(t, err)
	require.Len(t, sheet.Charts(), 1)
	chart := sheet.Charts()[0]
	assert.Equal(t, "line", chart.Type)
	assert.Equal(t, canvassheets.Rect{X: 10, Y: 20, Width: 300, Height: 200}, chart.Rect)
	assert.True(t, chart.ShowLegend)
	assert.Nil(t, chart.LabelRange)
}

func TestTypedCellValues(t *testing.T) {
	doc := `
sheets:
  - id: sheet_1
    tables:
      - id: table_1
        rows: 1
        cols: 6
        cells:
          body[A0]: 2024-06-01
          body[B0]: {type: date, value: 2024-01-15}
          body[C0]: {type: time, value: "13:45:30"}
          body[D0]: {type: number, value: 3}
          body[E0]: {type: string, value: "42"}
          body[F0]: {type: bool, value: true}
`
	p, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	tbl, err := p.Table("table_1")
	require.NoError(t, err)

	assert.Equal(t, canvassheets.KindDate, tbl.Value(0, 0).Kind())
	assert.Equal(t, "2024-06-01", tbl.Value(0, 0).String())
	assert.Equal(t, "2024-01-15", tbl.Value(0, 1).String())
	assert.Equal(t, "13:45:30", tbl.Value(0, 2).String())
	assert.Equal(t, canvassheets.Number(3), tbl.Value(0, 3))
	assert.Equal(t, canvassheets.String("42"), tbl.Value(0, 4))
	assert.Equal(t, canvassheets.Bool(true), tbl.Value(0, 5))
}

func TestUnknownTypedValue(t *testing.T) {
	doc := `
sheets:
  - id: sheet_1
    tables:
      - id: table_1
        cells:
          body[A0]: {type: vector, value: 1}
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector")
	assert.Contains(t, err.Error(), `table "table_1"`)
}

func TestGeneratedIDs(t *testing.T) {
	doc := `
sheets:
  - tables:
      - rows: 1
        cols: 1
    charts:
      - type: line
`
	p, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	sheets := p.Sheets()
	require.Len(t, sheets, 1)
	assert.Len(t, sheets[0].ID, 36)
	assert.Equal(t, sheets[0].ID, sheets[0].Name)
	require.Len(t, sheets[0].Tables(), 1)
	assert.Len(t, sheets[0].Tables()[0].ID, 36)
	require.Len(t, sheets[0].Charts(), 1)
	assert.Len(t, sheets[0].Charts()[0].ID, 36)
}

const lagScript = `
sheets:
  - id: sheet_1
    tables:
      - id: table_1
        rows: 1
        cols: 3
        cells:
          body[A0]: 1
        formulas:
          - target: body[C0]
            formula: "=B0+2"
          - target: body[B0]
            formula: "=A0+8"
passes: 2
`

// With an inverted definition order, the first pass leaves the dependent
// cell poisoned and the second pass converges.
func TestPasses(t *testing.T) {
	doc, err := Parse(strings.NewReader(lagScript))
	require.NoError(t, err)
	require.NotNil(t, doc.Passes)
	assert.Equal(t, 2, doc.EffectivePasses())

	p, err := doc.Load()
	require.NoError(t, err)
	tbl, err := p.Table("table_1")
	require.NoError(t, err)
	assert.Equal(t, 9.0, tbl.Get(0, 1))
	assert.Equal(t, 11.0, tbl.Get(0, 2))

	// One pass stops at the poisoned intermediate.
	doc.Passes = nil
	assert.Equal(t, 1, doc.EffectivePasses())
	p, err = doc.Load()
	require.NoError(t, err)
	tbl, err = p.Table("table_1")
	require.NoError(t, err)
	assert.True(t, tbl.Value(0, 2).IsError())

	// Zero passes builds without evaluating.
	zero := 0
	doc.Passes = &zero
	p, err = doc.Load()
	require.NoError(t, err)
	tbl, err = p.Table("table_1")
	require.NoError(t, err)
	assert.True(t, tbl.Value(0, 1).IsEmpty())
}

func TestBuildErrors(t *testing.T) {
	dup := `
sheets:
  - id: sheet_1
    tables:
      - id: table_1
      - id: table_1
`
	_, err := Load(strings.NewReader(dup))
	require.Error(t, err)
	assert.Equal(t, canvassheets.CodeAlreadyExists, canvassheets.CodeOf(err))
	assert.Contains(t, err.Error(), `table "table_1"`)
	assert.Contains(t, err.Error(), `sheet "sheet_1"`)

	missing := `
sheets:
  - id: sheet_1
    tables:
      - id: summary_1
        summary:
          source: table_9
          groupBy: [A]
`
	_, err = Load(strings.NewReader(missing))
	require.Error(t, err)
	assert.Equal(t, canvassheets.CodeUnknownTable, canvassheets.CodeOf(err))
}

func TestParseEmpty(t *testing.T) {
	doc, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Sheets)

	p, err := doc.Load()
	require.NoError(t, err)
	assert.Empty(t, p.Sheets())
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("sheets: [}"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullScript), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	tbl, err := p.Table("table_1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, tbl.Get(0, 2))

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
