package canvassheets

import (
	"strconv"
	"strings"
)

// Aggregation names a fold applied to a summary value column.
type Aggregation string

const (
	AggSum   Aggregation = "sum"
	AggAvg   Aggregation = "avg"
	AggMin   Aggregation = "min"
	AggMax   Aggregation = "max"
	AggCount Aggregation = "count"
)

func (a Aggregation) valid() bool {
	switch a {
	case AggSum, AggAvg, AggMin, AggMax, AggCount:
		return true
	}
	return false
}

// SummaryValue is the caller-facing form of one value column: a source
// column letter and an aggregation name.
type SummaryValue struct {
	Col string
	Agg string
}

// SummaryColumn is the resolved form of one value column.
type SummaryColumn struct {
	Col int
	Agg Aggregation
}

// SummarySpec is a summary table's definition: the source table, the
// group-by columns, the value columns, an optional row window, and the
// definition-order stamp that schedules the recompute.
type SummarySpec struct {
	SourceTableID string
	GroupBy       []int
	Values        []SummaryColumn
	SourceRange   *RangeRef
	Order         int
}

// recomputeSummary rebuilds the summary table's body from the source
// table's current cells. Groups appear in first-seen source-row order;
// rows whose group-by cells are all blank are skipped. Each output row is
// the group keys followed by one aggregated cell per value column. The
// body is resized to exactly fit the output, flooring at 1x1.
func (t *Table) recomputeSummary() error {
	spec := t.summary
	src, err := t.project.Table(spec.SourceTableID)
	if err != nil {
		return err
	}

	// The source range restricts the scanned row window only; columns
	// always come from the spec.
	startRow, endRow := 0, src.Grid.BodyRows-1
	if spec.SourceRange != nil {
		s, _, e, _ := spec.SourceRange.Bounds()
		startRow, endRow = max(startRow, s), min(endRow, e)
	}

	type group struct {
		keys []CellValue
		rows []int
	}
	var order []string
	groups := make(map[string]*group)
	for r := startRow; r <= endRow; r++ {
		keys := make([]CellValue, len(spec.GroupBy))
		allBlank := true
		for i, col := range spec.GroupBy {
			keys[i] = src.readCell(regionBody, r, col)
			if !blankCell(keys[i]) {
				allBlank = false
			}
		}
		if len(spec.GroupBy) > 0 && allBlank {
			continue
		}
		id := groupKey(keys)
		g, ok := groups[id]
		if !ok {
			g = &group{keys: keys}
			groups[id] = g
			order = append(order, id)
		}
		g.rows = append(g.rows, r)
	}

	for key := range t.cells {
		ref, err := ParseRange(key)
		if err != nil || ref.Region != regionBody {
			continue
		}
		delete(t.cells, key)
	}

	gcols := len(spec.GroupBy)
	for i, id := range order {
		g := groups[id]
		for j, key := range g.keys {
			t.cells[Address(regionBody, i, j)] = key
		}
		for j, vc := range spec.Values {
			t.cells[Address(regionBody, i, gcols+j)] = aggregate(src, g.rows, vc)
		}
	}

	t.Grid.BodyRows = max(1, len(order))
	t.Grid.BodyCols = max(1, gcols+len(spec.Values))
	t.deriveRect()
	return nil
}

// groupKey builds a collision-safe map key from the group cells, tagging
// each element with its kind so the number 1 and the string "1" land in
// different groups.
func groupKey(keys []CellValue) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(strconv.Itoa(int(k.Kind())))
		b.WriteByte(':')
		b.WriteString(k.String())
	}
	return b.String()
}

// blankCell reports whether a cell reads as blank for grouping and
// counting: the empty variant, the empty string, or the error sentinel.
func blankCell(v CellValue) bool {
	switch v.kind {
	case KindEmpty, KindError:
		return true
	case KindString:
		return v.str == ""
	}
	return false
}

// aggregate folds one value column over a group's source rows. Sum, avg,
// min, and max fold the numeric-coercible cells and finalize to an empty
// cell when none contributed; count tallies every non-blank cell
// regardless of numeric-ness, zero included.
func aggregate(src *Table, rows []int, vc SummaryColumn) CellValue {
	sum, best := 0.0, 0.0
	numeric, present := 0, 0
	for _, r := range rows {
		cell := src.readCell(regionBody, r, vc.Col)
		if !blankCell(cell) {
			present++
		}
		f, ok := toNumber(cell)
		if !ok {
			continue
		}
		sum += f
		if numeric == 0 || (vc.Agg == AggMin && f < best) || (vc.Agg == AggMax && f > best) {
			best = f
		}
		numeric++
	}
	if vc.Agg == AggCount {
		return Number(float64(present))
	}
	if numeric == 0 {
		return Empty()
	}
	switch vc.Agg {
	case AggSum:
		return Number(sum)
	case AggAvg:
		return Number(sum / float64(numeric))
	case AggMin, AggMax:
		return Number(best)
	}
	return Empty()
}
