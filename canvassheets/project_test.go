package canvassheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSheet(t *testing.T) {
	p := NewProject()
	s, err := p.AddSheet("Sheet 1", "sheet_1")
	require.NoError(t, err)
	assert.Equal(t, "Sheet 1", s.Name)

	_, err = p.AddSheet("Again", "sheet_1")
	require.Error(t, err)
	assert.Equal(t, CodeAlreadyExists, CodeOf(err))

	require.NoError(t, p.RenameSheet("sheet_1", "Budget"))
	got, err := p.Sheet("sheet_1")
	require.NoError(t, err)
	assert.Equal(t, "Budget", got.Name)

	err = p.RenameSheet("sheet_9", "x")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestAddTable(t *testing.T) {
	p := NewProject()
	_, err := p.AddSheet("Sheet 1", "sheet_1")
	require.NoError(t, err)
	_, err = p.AddSheet("Sheet 2", "sheet_2")
	require.NoError(t, err)

	_, err = p.AddTable("sheet_9", "table_1", "T", 1, 1, nil)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	tbl, err := p.AddTable("sheet_1", "table_1", "T", 2, 3, &TableOptions{
		X:      10,
		Y:      20,
		Labels: LabelBands{TopRows: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, tbl.Rect.X)
	assert.Equal(t, 1, tbl.Grid.Labels.TopRows)

	// Table ids are project-global, not per sheet.
	_, err = p.AddTable("sheet_2", "table_1", "T", 1, 1, nil)
	require.Error(t, err)
	assert.Equal(t, CodeAlreadyExists, CodeOf(err))

	got, err := p.Table("table_1")
	require.NoError(t, err)
	assert.Same(t, tbl, got)

	_, err = p.Table("table_9")
	require.Error(t, err)
	assert.Equal(t, CodeUnknownTable, CodeOf(err))
}

func TestAddSummaryTable(t *testing.T) {
	p := NewProject()
	_, err := p.AddSheet("Sheet 1", "sheet_1")
	require.NoError(t, err)
	_, err = p.AddTable("sheet_1", "table_1", "Source", 3, 2, nil)
	require.NoError(t, err)

	tbl, err := p.AddSummaryTable("sheet_1", "summary_1", "Totals", "table_1",
		[]string{"A"}, []SummaryValue{{Col: "B", Agg: "sum"}}, "")
	require.NoError(t, err)
	require.NotNil(t, tbl.Summary())
	assert.Equal(t, "table_1", tbl.Summary().SourceTableID)
	assert.Equal(t, []int{0}, tbl.Summary().GroupBy)
	assert.Equal(t, []SummaryColumn{{Col: 1, Agg: AggSum}}, tbl.Summary().Values)
	assert.Equal(t, 1, tbl.Grid.BodyRows)
	assert.Equal(t, 2, tbl.Grid.BodyCols)

	_, err = p.AddSummaryTable("sheet_1", "summary_2", "T", "table_9", nil, nil, "")
	require.Error(t, err)
	assert.Equal(t, CodeUnknownTable, CodeOf(err))

	_, err = p.AddSummaryTable("sheet_1", "summary_2", "T", "table_1",
		[]string{"A"}, []SummaryValue{{Col: "B", Agg: "median"}}, "")
	require.Error(t, err)
	assert.Equal(t, CodeUnsupportedAggregation, CodeOf(err))

	_, err = p.AddSummaryTable("sheet_1", "summary_2", "T", "table_1",
		[]string{"A1"}, nil, "")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidColumnLabel, CodeOf(err))

	_, err = p.AddSummaryTable("sheet_1", "summary_2", "T", "table_1",
		[]string{"A"}, nil, "oops")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidRangeFormat, CodeOf(err))
}

func TestAddChart(t *testing.T) {
	p := NewProject()
	_, err := p.AddSheet("Sheet 1", "sheet_1")
	require.NoError(t, err)

	labels := "body[A0:A2]"
	c, err := p.AddChart("sheet_1", ChartSpec{
		ID:         "chart_1",
		Name:       "Chart",
		Type:       "line",
		TableID:    "table_1",
		ValueRange: "body[B0:B2]",
		LabelRange: &labels,
		X:          10,
		Y:          20,
		Width:      300,
		Height:     200,
		ShowLegend: true,
	})
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 10, Y: 20, Width: 300, Height: 200}, c.Rect)

	_, err = p.AddChart("sheet_1", ChartSpec{ID: "chart_1"})
	require.Error(t, err)
	assert.Equal(t, CodeAlreadyExists, CodeOf(err))

	_, err = p.AddChart("sheet_9", ChartSpec{ID: "chart_2"})
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	s, err := p.Sheet("sheet_1")
	require.NoError(t, err)
	require.Len(t, s.Charts(), 1)
}

func TestChartSetSpec(t *testing.T) {
	labels := "body[A0:A2]"
	c := newChart(ChartSpec{
		ID:         "chart_1",
		Type:       "line",
		ValueRange: "body[B0:B2]",
		LabelRange: &labels,
		Title:      "Before",
		ShowLegend: true,
	})

	newType := "bar"
	newTitle := "After"
	hide := false
	c.SetSpec(ChartUpdate{Type: &newType, Title: &newTitle, ShowLegend: &hide})
	assert.Equal(t, "bar", c.Type)
	assert.Equal(t, "After", c.Title)
	assert.False(t, c.ShowLegend)
	// Untouched fields stay put.
	assert.Equal(t, "body[B0:B2]", c.ValueRange)
	require.NotNil(t, c.LabelRange)

	// ClearLabelRange wins over a new label range in the same update.
	other := "body[C0:C2]"
	c.SetSpec(ChartUpdate{LabelRange: &other, ClearLabelRange: true})
	assert.Nil(t, c.LabelRange)

	c.SetPosition(5, 6)
	assert.Equal(t, 5.0, c.Rect.X)
	assert.Equal(t, 6.0, c.Rect.Y)
}
