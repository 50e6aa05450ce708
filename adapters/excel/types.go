package excel

// RawRowData represents a row of raw sheet data keyed by normalized header
type RawRowData map[string]string

// ExcelData represents the complete sheet or CSV dataset
type ExcelData struct {
	Headers []string     // Column headers, lower-cased
	Rows    []RawRowData // Data rows
}

// Column names recognised in sample sheets
const (
	ColTrial   = "trial"
	ColTime    = "time"
	ColX       = "x"
	ColY       = "y"
	ColSize    = "size"
	ColMessage = "message"
)

// Sheet names written by EventWriter
const (
	SheetEvents  = "Events"
	SheetSummary = "Summary"
	SheetPupil   = "Pupil"
)
