package canvassheets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyProjectJSON(t *testing.T) {
	data, err := json.Marshal(NewProject())
	require.NoError(t, err)
	assert.JSONEq(t, `{"sheets":[]}`, string(data))
}

func TestProjectMarshalJSON(t *testing.T) {
	p := NewProject()
	_, err := p.AddSheet("Sheet 1", "sheet_1")
	require.NoError(t, err)
	tbl, err := p.AddTable("sheet_1", "table_1", "Items", 1, 2, nil)
	require.NoError(t, err)

	require.NoError(t, tbl.Set(0, 0, 1.5))
	require.NoError(t, tbl.SetColumnType(1, "currency"))
	require.NoError(t, tbl.SetLabelBand(BandTop, 0, []string{"Name", "Amount"}))
	require.NoError(t, tbl.SetFormula("body[B0]", "=A0*2", ""))

	_, err = p.AddChart("sheet_1", ChartSpec{
		ID:         "chart_1",
		Name:       "Chart",
		Type:       "line",
		TableID:    "table_1",
		ValueRange: "body[B0]",
		X:          5,
		Y:          6,
		Width:      300,
		Height:     200,
	})
	require.NoError(t, err)

	require.NoError(t, p.ApplyFormulas())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"sheets": [{
			"id": "sheet_1",
			"name": "Sheet 1",
			"tables": [{
				"id": "table_1",
				"name": "Items",
				"rect": {"x": 0, "y": 0, "width": 200, "height": 24},
				"gridSpec": {
					"bodyRows": 1,
					"bodyCols": 2,
					"labelBands": {"topRows": 0, "bottomRows": 0, "leftCols": 0, "rightCols": 0}
				},
				"cellValues": {
					"body[A0]": {"type": "number", "value": 1.5},
					"body[B0]": {"type": "number", "value": 3}
				},
				"rangeValues": {},
				"formulas": {
					"body[B0]": {"formula": "=A0*2", "mode": "spreadsheet"}
				},
				"labelBandValues": {
					"top": {"0": ["Name", "Amount"]},
					"bottom": {},
					"left": {},
					"right": {}
				},
				"bodyColumnTypes": ["number", "currency"]
			}],
			"charts": [{
				"id": "chart_1",
				"name": "Chart",
				"chartType": "line",
				"tableId": "table_1",
				"valueRange": "body[B0]",
				"labelRange": null,
				"rect": {"x": 5, "y": 6, "width": 300, "height": 200},
				"title": "",
				"xAxisTitle": "",
				"yAxisTitle": "",
				"showLegend": false
			}]
		}]
	}`, string(data))
}

func TestSummaryTableJSON(t *testing.T) {
	p := NewProject()
	_, err := p.AddSheet("Sheet 1", "sheet_1")
	require.NoError(t, err)
	src, err := p.AddTable("sheet_1", "table_1", "Source", 2, 2, nil)
	require.NoError(t, err)
	require.NoError(t, src.Set(0, 0, "G1"))
	require.NoError(t, src.Set(0, 1, 4))
	require.NoError(t, src.Set(1, 0, "G1"))
	require.NoError(t, src.Set(1, 1, 6))

	_, err = p.AddSummaryTable("sheet_1", "summary_1", "Totals", "table_1",
		[]string{"A"}, []SummaryValue{{Col: "B", Agg: "sum"}}, "body[A0:A1]")
	require.NoError(t, err)
	require.NoError(t, p.ApplyFormulas())

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var doc struct {
		Sheets []struct {
			Tables []struct {
				ID         string               `json:"id"`
				CellValues map[string]CellValue `json:"cellValues"`
				Summary    *struct {
					Source      string `json:"source"`
					GroupBy     []int  `json:"groupBy"`
					SourceRange string `json:"sourceRange"`
					Values      []struct {
						Col int    `json:"col"`
						Agg string `json:"agg"`
					} `json:"values"`
				} `json:"summary"`
			} `json:"tables"`
		} `json:"sheets"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Sheets, 1)
	require.Len(t, doc.Sheets[0].Tables, 2)

	plain := doc.Sheets[0].Tables[0]
	assert.Nil(t, plain.Summary)

	sum := doc.Sheets[0].Tables[1]
	require.NotNil(t, sum.Summary)
	assert.Equal(t, "table_1", sum.Summary.Source)
	assert.Equal(t, []int{0}, sum.Summary.GroupBy)
	assert.Equal(t, "body[A0:A1]", sum.Summary.SourceRange)
	require.Len(t, sum.Summary.Values, 1)
	assert.Equal(t, 1, sum.Summary.Values[0].Col)
	assert.Equal(t, "sum", sum.Summary.Values[0].Agg)

	assert.Equal(t, String("G1"), sum.CellValues["body[A0]"])
	assert.Equal(t, Number(10), sum.CellValues["body[B0]"])
}
