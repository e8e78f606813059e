package results

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TrialsSheet is the sheet name of the exported workbook.
const TrialsSheet = "trials"

// SaveXLSX writes the log as a single-sheet workbook with typed cells.
func (l *Log) SaveXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TrialsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(TrialsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range l.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := r.values()
		if err := f.SetSheetRow(TrialsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing trial %d: %w", r.TrialNumber, err)
		}
	}

	if err := f.SetPanes(TrialsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	return f.SaveAs(path)
}
