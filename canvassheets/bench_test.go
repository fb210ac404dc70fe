package canvassheets

import (
	"fmt"
	"testing"
)

func benchTable(b *testing.B, rows, cols int) (*Project, *Table) {
	b.Helper()
	p := NewProject()
	if _, err := p.AddSheet("Sheet 1", "sheet_1"); err != nil {
		b.Fatal(err)
	}
	tbl, err := p.AddTable("sheet_1", "table_1", "Data", rows, cols, nil)
	if err != nil {
		b.Fatal(err)
	}
	return p, tbl
}

func BenchmarkLargeCellPopulation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, tbl := benchTable(b, 100, 26)
		cells := make(map[string]any, 100*26)
		for row := 0; row < 100; row++ {
			for col := 0; col < 26; col++ {
				cells[CellKey(row, col)] = float64((row + 1) * (col + 1))
			}
		}
		tbl.SetCells(cells)
	}
}

func BenchmarkFormulaChain(b *testing.B) {
	p, tbl := benchTable(b, 100, 1)
	tbl.Set(0, 0, 1.0)
	for row := 1; row < 100; row++ {
		target := fmt.Sprintf("body[A%d]", row)
		formula := fmt.Sprintf("=A%d+1", row-1)
		if err := tbl.SetFormula(target, formula, ""); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.ApplyFormulas(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWideFanOut(b *testing.B) {
	p, tbl := benchTable(b, 500, 2)
	tbl.Set(0, 0, 100.0)
	if err := tbl.SetFormula("body[B0:B499]", "=$A$0*2", ""); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.Set(0, 0, float64(i))
		if err := p.ApplyFormulas(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLargeRangeSum(b *testing.B) {
	p, tbl := benchTable(b, 1000, 2)
	for row := 0; row < 1000; row++ {
		tbl.Set(row, 0, float64(row+1))
	}
	if err := tbl.SetFormula("body[B0]", "=SUM(A0:A999)", ""); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.ApplyFormulas(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRelativeRangeFormulas(b *testing.B) {
	p, tbl := benchTable(b, 100, 4)
	for row := 0; row < 100; row++ {
		tbl.Set(row, 0, float64(row+1))
	}
	defs := [][2]string{
		{"body[B0:B99]", "=A0*2"},
		{"body[C0:C99]", "=B0+A0"},
		{"body[D0:D99]", "=C0/2"},
	}
	for _, def := range defs {
		if err := tbl.SetFormula(def[0], def[1], ""); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.ApplyFormulas(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConditionalLogic(b *testing.B) {
	p, tbl := benchTable(b, 200, 3)
	for row := 0; row < 200; row++ {
		tbl.Set(row, 0, float64(row+1))
		tbl.Set(row, 1, float64(row%2))
	}
	if err := tbl.SetFormula("body[C0:C199]", "=IF(B0, A0*2, A0/2)", ""); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.ApplyFormulas(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCrossTableAggregates(b *testing.B) {
	p, tbl := benchTable(b, 100, 1)
	for row := 0; row < 100; row++ {
		tbl.Set(row, 0, float64(row+1))
	}
	report, err := p.AddTable("sheet_1", "table_2", "Report", 1, 4, nil)
	if err != nil {
		b.Fatal(err)
	}
	formulas := []string{
		"=SUM(table_1.A)",
		"=AVERAGE(table_1.A)",
		"=MAX(table_1.A)",
		"=MIN(table_1.A)",
	}
	for col, formula := range formulas {
		target := fmt.Sprintf("body[%s0]", string(rune('A'+col)))
		if err := report.SetFormula(target, formula, ""); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.ApplyFormulas(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSummaryRecompute(b *testing.B) {
	p, tbl := benchTable(b, 500, 2)
	for row := 0; row < 500; row++ {
		tbl.Set(row, 0, fmt.Sprintf("group_%d", row%10))
		tbl.Set(row, 1, float64(row))
	}
	_, err := p.AddSummaryTable("sheet_1", "table_2", "Rollup", "table_1",
		[]string{"A"}, []SummaryValue{{Col: "B", Agg: "sum"}, {Col: "B", Agg: "avg"}}, "")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.ApplyFormulas(); err != nil {
			b.Fatal(err)
		}
	}
}
