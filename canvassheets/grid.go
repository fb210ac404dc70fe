package canvassheets

// Pixel size of one grid cell. Table geometry is always derived from the
// grid shape and these constants, never stored by hand.
const (
	DefaultCellWidth  = 100.0
	DefaultCellHeight = 24.0
)

// KeepDim leaves a dimension unchanged in Resize and SetLabels.
const KeepDim = -1

// Rect is the pixel-space placement of a table or chart.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LabelBands counts the label rows and columns surrounding a table body.
type LabelBands struct {
	TopRows    int `json:"topRows"`
	BottomRows int `json:"bottomRows"`
	LeftCols   int `json:"leftCols"`
	RightCols  int `json:"rightCols"`
}

// GridSpec is a table's logical shape: the body extent plus its label bands.
type GridSpec struct {
	BodyRows int        `json:"bodyRows"`
	BodyCols int        `json:"bodyCols"`
	Labels   LabelBands `json:"labelBands"`
}

// Rows returns the total row count including label bands.
func (g GridSpec) Rows() int {
	return g.Labels.TopRows + g.BodyRows + g.Labels.BottomRows
}

// Cols returns the total column count including label bands.
func (g GridSpec) Cols() int {
	return g.Labels.LeftCols + g.BodyCols + g.Labels.RightCols
}

// sizeOf derives the pixel footprint of the grid.
func (g GridSpec) sizeOf() (width, height float64) {
	return float64(g.Cols()) * DefaultCellWidth, float64(g.Rows()) * DefaultCellHeight
}
