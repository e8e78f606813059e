package results

import (
	"fmt"
	"path/filepath"
)

// Files names the outputs of one session.
type Files struct {
	CSV      string
	XLSX     string
	Markers  string
	Report   string
	Schedule string
}

// SessionFiles returns the output paths for session n under dir. Testing runs
// get a _test suffix so they never overwrite real data.
func SessionFiles(dir string, n int, testing bool) Files {
	base := fmt.Sprintf("data_session_%d", n)
	if testing {
		base += "_test"
	}
	p := filepath.Join(dir, base)
	return Files{
		CSV:      p + ".csv",
		XLSX:     p + ".xlsx",
		Markers:  p + "_markers.csv",
		Report:   p + "_report.html",
		Schedule: p + "_schedule.csv",
	}
}

// Save writes the CSV, the workbook and the report. The CSV is written first
// and is the only required output.
func (l *Log) Save(files Files, title string) error {
	if err := l.SaveCSV(files.CSV); err != nil {
		return fmt.Errorf("saving %s: %w", files.CSV, err)
	}
	if err := l.SaveXLSX(files.XLSX); err != nil {
		return fmt.Errorf("saving %s: %w", files.XLSX, err)
	}
	if err := SaveReport(files.Report, title, l.Records); err != nil {
		return fmt.Errorf("saving %s: %w", files.Report, err)
	}
	return nil
}
