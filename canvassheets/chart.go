package canvassheets

// ChartSpec describes a chart at creation time. LabelRange is optional;
// ranges are range-text strings against the named table.
type ChartSpec struct {
	ID         string
	Name       string
	Type       string
	TableID    string
	ValueRange string
	LabelRange *string
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Title      string
	XAxisTitle string
	YAxisTitle string
	ShowLegend bool
}

// Chart is a placed chart on a sheet. Charts are presentation only and
// never participate in evaluation.
type Chart struct {
	ID         string
	Name       string
	Type       string
	TableID    string
	ValueRange string
	LabelRange *string
	Rect       Rect
	Title      string
	XAxisTitle string
	YAxisTitle string
	ShowLegend bool
}

// ChartUpdate mutates only its populated fields through SetSpec.
// ClearLabelRange removes the label range; it wins over LabelRange.
type ChartUpdate struct {
	Type            *string
	ValueRange      *string
	LabelRange      *string
	ClearLabelRange bool
	Title           *string
	XAxisTitle      *string
	YAxisTitle      *string
	ShowLegend      *bool
}

func newChart(spec ChartSpec) *Chart {
	return &Chart{
		ID:         spec.ID,
		Name:       spec.Name,
		Type:       spec.Type,
		TableID:    spec.TableID,
		ValueRange: spec.ValueRange,
		LabelRange: spec.LabelRange,
		Rect:       Rect{X: spec.X, Y: spec.Y, Width: spec.Width, Height: spec.Height},
		Title:      spec.Title,
		XAxisTitle: spec.XAxisTitle,
		YAxisTitle: spec.YAxisTitle,
		ShowLegend: spec.ShowLegend,
	}
}

// SetPosition moves the chart's rect origin.
func (c *Chart) SetPosition(x, y float64) {
	c.Rect.X, c.Rect.Y = x, y
}

// SetSpec applies the populated fields of the update.
func (c *Chart) SetSpec(u ChartUpdate) {
	if u.Type != nil {
		c.Type = *u.Type
	}
	if u.ValueRange != nil {
		c.ValueRange = *u.ValueRange
	}
	if u.ClearLabelRange {
		c.LabelRange = nil
	} else if u.LabelRange != nil {
		c.LabelRange = u.LabelRange
	}
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.XAxisTitle != nil {
		c.XAxisTitle = *u.XAxisTitle
	}
	if u.YAxisTitle != nil {
		c.YAxisTitle = *u.YAxisTitle
	}
	if u.ShowLegend != nil {
		c.ShowLegend = *u.ShowLegend
	}
}
