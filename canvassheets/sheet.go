package canvassheets

// Sheet groups tables and charts. Order of addition is preserved for
// serialization.
type Sheet struct {
	ID   string
	Name string

	tables []*Table
	charts []*Chart

	project *Project
}

// Tables returns the sheet's tables in the order they were added.
func (s *Sheet) Tables() []*Table {
	return s.tables
}

// Charts returns the sheet's charts in the order they were added.
func (s *Sheet) Charts() []*Chart {
	return s.charts
}
