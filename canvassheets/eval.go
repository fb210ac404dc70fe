package canvassheets

import "math"

type valueShape uint8

const (
	shapeScalar valueShape = iota
	shapeList
	shapeGrid
)

// value is anything an expression can produce: a scalar, a flat list from a
// column or row read, or a rows x cols grid from a range read.
type value struct {
	shape  valueShape
	scalar CellValue
	list   []CellValue
	grid   [][]CellValue
}

func scalarValue(v CellValue) value {
	return value{shape: shapeScalar, scalar: v}
}

func listValue(vs []CellValue) value {
	return value{shape: shapeList, list: vs}
}

func gridValue(g [][]CellValue) value {
	return value{shape: shapeGrid, grid: g}
}

// flatten appends every element of v to dst in reading order.
func (v value) flatten(dst []CellValue) []CellValue {
	switch v.shape {
	case shapeScalar:
		return append(dst, v.scalar)
	case shapeList:
		return append(dst, v.list...)
	case shapeGrid:
		for _, row := range v.grid {
			dst = append(dst, row...)
		}
	}
	return dst
}

func (v value) elements() int {
	switch v.shape {
	case shapeScalar:
		return 1
	case shapeList:
		return len(v.list)
	case shapeGrid:
		n := 0
		for _, row := range v.grid {
			n += len(row)
		}
		return n
	}
	return 0
}

// collapse reduces v to a single scalar. One-element lists and grids
// collapse; anything else fails ScalarExpected.
func (v value) collapse() (CellValue, error) {
	switch v.shape {
	case shapeScalar:
		return v.scalar, nil
	case shapeList:
		if len(v.list) == 1 {
			return v.list[0], nil
		}
	case shapeGrid:
		if len(v.grid) == 1 && len(v.grid[0]) == 1 {
			return v.grid[0][0], nil
		}
	}
	return CellValue{}, newError(CodeScalarExpected, "expected a single value, got %d", v.elements())
}

// evalContext is one formula application point: the project for cross-table
// reads, the home table, the target range's top-left anchor, and the cell
// being produced. Relative references shift by target minus anchor.
type evalContext struct {
	project   *Project
	home      *Table
	anchorRow int
	anchorCol int
	targetRow int
	targetCol int
}

// table resolves a reference's table id; empty means the home table.
func (ctx *evalContext) table(id string) (*Table, error) {
	if id == "" {
		return ctx.home, nil
	}
	return ctx.project.Table(id)
}

// shift applies the anchor-relative offset to a coordinate, honoring $
// pins. A negative resolved coordinate is out of bounds.
func (ctx *evalContext) shift(c cellCoord) (row, col int, err error) {
	row, col = c.row, c.col
	if !c.rowAbs {
		row += ctx.targetRow - ctx.anchorRow
	}
	if !c.colAbs {
		col += ctx.targetCol - ctx.anchorCol
	}
	if row < 0 || col < 0 {
		return 0, 0, newError(CodeOutOfBounds, "reference resolves out of bounds (%d, %d)", row, col)
	}
	return row, col, nil
}

func (n *numberNode) eval(_ *evalContext) (value, error) {
	return scalarValue(Number(n.val)), nil
}

func (n *boolNode) eval(_ *evalContext) (value, error) {
	return scalarValue(Bool(n.val)), nil
}

func (n *cellNode) eval(ctx *evalContext) (value, error) {
	tbl, err := ctx.table(n.table)
	if err != nil {
		return value{}, err
	}
	row, col, err := ctx.shift(n.coord)
	if err != nil {
		return value{}, err
	}
	return scalarValue(tbl.readCell(n.region, row, col)), nil
}

func (n *rangeNode) eval(ctx *evalContext) (value, error) {
	tbl, err := ctx.table(n.table)
	if err != nil {
		return value{}, err
	}
	startRow, startCol, err := ctx.shift(n.start)
	if err != nil {
		return value{}, err
	}
	endRow, endCol, err := ctx.shift(n.end)
	if err != nil {
		return value{}, err
	}
	if startRow > endRow {
		startRow, endRow = endRow, startRow
	}
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}
	grid := make([][]CellValue, 0, endRow-startRow+1)
	for r := startRow; r <= endRow; r++ {
		row := make([]CellValue, 0, endCol-startCol+1)
		for c := startCol; c <= endCol; c++ {
			row = append(row, tbl.readCell(n.region, r, c))
		}
		grid = append(grid, row)
	}
	return gridValue(grid), nil
}

// Column and row references read the source table's current body extent at
// a fixed index; they never shift with the target.

func (n *columnNode) eval(ctx *evalContext) (value, error) {
	tbl, err := ctx.table(n.table)
	if err != nil {
		return value{}, err
	}
	out := make([]CellValue, 0, tbl.Grid.BodyRows)
	for r := 0; r < tbl.Grid.BodyRows; r++ {
		out = append(out, tbl.readCell(regionBody, r, n.col))
	}
	return listValue(out), nil
}

func (n *rowNode) eval(ctx *evalContext) (value, error) {
	tbl, err := ctx.table(n.table)
	if err != nil {
		return value{}, err
	}
	out := make([]CellValue, 0, tbl.Grid.BodyCols)
	for c := 0; c < tbl.Grid.BodyCols; c++ {
		out = append(out, tbl.readCell(regionBody, n.row, c))
	}
	return listValue(out), nil
}

func (n *unaryNode) eval(ctx *evalContext) (value, error) {
	inner, err := n.operand.eval(ctx)
	if err != nil {
		return value{}, err
	}
	scalar, err := inner.collapse()
	if err != nil {
		return value{}, err
	}
	f, ok := toNumber(scalar)
	if !ok {
		return value{}, newError(CodeDomainError, "operand is not numeric")
	}
	if n.op == tokenMinus {
		f = -f
	}
	return scalarValue(Number(f)), nil
}

func (n *binaryNode) eval(ctx *evalContext) (value, error) {
	leftVal, err := n.left.eval(ctx)
	if err != nil {
		return value{}, err
	}
	rightVal, err := n.right.eval(ctx)
	if err != nil {
		return value{}, err
	}
	leftScalar, err := leftVal.collapse()
	if err != nil {
		return value{}, err
	}
	rightScalar, err := rightVal.collapse()
	if err != nil {
		return value{}, err
	}
	lf, ok := toNumber(leftScalar)
	if !ok {
		return value{}, newError(CodeDomainError, "left operand is not numeric")
	}
	rf, ok := toNumber(rightScalar)
	if !ok {
		return value{}, newError(CodeDomainError, "right operand is not numeric")
	}
	switch n.op {
	case tokenPlus:
		return scalarValue(Number(lf + rf)), nil
	case tokenMinus:
		return scalarValue(Number(lf - rf)), nil
	case tokenAsterisk:
		return scalarValue(Number(lf * rf)), nil
	case tokenSlash:
		if rf == 0 {
			return value{}, newError(CodeDivisionByZero, "division by zero")
		}
		return scalarValue(Number(lf / rf)), nil
	case tokenCaret:
		return scalarValue(Number(math.Pow(lf, rf))), nil
	}
	return value{}, newError(CodeUnexpectedToken, "unknown operator %s", n.op)
}

func (n *functionNode) eval(ctx *evalContext) (value, error) {
	args := make([]value, 0, len(n.args))
	for _, argNode := range n.args {
		arg, err := argNode.eval(ctx)
		if err != nil {
			return value{}, err
		}
		args = append(args, arg)
	}
	return callBuiltin(n.name, args)
}

// applyFormula evaluates one stored formula across its target range. A
// parse failure writes the error sentinel into every target cell with no
// evaluation attempted; a per-cell evaluation failure writes the sentinel
// into that cell alone and siblings continue.
func (t *Table) applyFormula(def *FormulaDef) {
	startRow, startCol, endRow, endCol := def.Target.Bounds()
	region := def.Target.Region

	node, err := parseFormula(def.Text)
	if err != nil {
		for r := startRow; r <= endRow; r++ {
			for c := startCol; c <= endCol; c++ {
				t.writeFormulaResult(region, r, c, ErrorCell())
			}
		}
		return
	}

	for r := startRow; r <= endRow; r++ {
		for c := startCol; c <= endCol; c++ {
			ctx := &evalContext{
				project:   t.project,
				home:      t,
				anchorRow: startRow,
				anchorCol: startCol,
				targetRow: r,
				targetCol: c,
			}
			out, evalErr := node.eval(ctx)
			var scalar CellValue
			if evalErr == nil {
				scalar, evalErr = out.collapse()
			}
			if evalErr != nil {
				scalar = ErrorCell()
			}
			t.writeFormulaResult(region, r, c, scalar)
		}
	}
}

// writeFormulaResult stores formula output. Body targets grow the grid;
// formula definitions are never cleared by their own output.
func (t *Table) writeFormulaResult(region string, row, col int, v CellValue) {
	if region == regionBody {
		t.growBody(row+1, col+1)
	}
	t.writeCell(region, row, col, v, false)
}
