package excel

// RawRowData represents a row of raw sheet data as header -> cell value
type RawRowData map[string]string

// ExcelData represents a complete sheet
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// LogRow is one imported log entry before validation. Err is set when
// the row itself could not be read; the row should then be skipped.
type LogRow struct {
	Line      int
	Title     string
	Content   string
	Category  string
	Duration  *int
	Timestamp string
	Err       error
}

// Sheet and column names shared by the exporter and the importer
const (
	LogsSheet    = "Logs"
	ReportsSheet = "Reports"

	ColTimestamp = "Timestamp"
	ColTitle     = "Title"
	ColContent   = "Content"
	ColCategory  = "Category"
	ColDuration  = "Duration (min)"
)
