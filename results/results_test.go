package results

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
)

func record(n, block int, correct, missed bool, rt float64) Record {
	resp := response.Response{ResponseTimeMS: rt, CorrectKey: correct, Missed: missed}
	switch {
	case missed:
		resp.Feedback = response.FeedbackMissed
	case correct:
		resp.KeyPressed, resp.Feedback = "m", response.FeedbackCorrect
	default:
		resp.KeyPressed, resp.Feedback = "z", response.FeedbackIncorrect
	}
	return Record{
		TrialNumber: n,
		Block:       block,
		Start:       time.Duration(n) * 4 * time.Second,
		End:         time.Duration(n)*4*time.Second + 3500*time.Millisecond,
		Characteristics: design.Characteristics{
			StaticDurationMS: 800,
			ITIMS:            650,
			ChangeDirection:  design.Clockwise,
			StimuliColours:   [2]design.Colour{design.Palette[0], design.Palette[1]},
			CaptureColour:    design.Palette[0],
			Condition:        design.Valid,
			LeftOrientation:  -30, RightOrientation: 45,
			LeftOrientation2: -28, RightOrientation2: 45,
			TargetBar:            design.Left,
			TargetColour:         design.Palette[0],
			TargetPreOrientation: -30, TargetPostOrientation: -28,
		},
		ConditionCode: "32",
		Response:      resp,
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0:00:00", FormatElapsed(0))
	assert.Equal(t, "0:00:04.500000", FormatElapsed(4500*time.Millisecond))
	assert.Equal(t, "1:02:03.000004", FormatElapsed(time.Hour+2*time.Minute+3*time.Second+4*time.Microsecond))
}

func TestRecordRow(t *testing.T) {
	r := record(1, 1, true, false, 512.25)
	r.Response.PrematurePressed = true
	r.Response.PrematureKey = "z"
	r.Response.PrematureTimingMS = -120.5

	row := r.Row()
	require.Len(t, row, len(Columns))

	cell := func(name string) string {
		for i, c := range Columns {
			if c == name {
				return row[i]
			}
		}
		t.Fatalf("no column %q", name)
		return ""
	}
	assert.Equal(t, "0:00:04", cell("start_time"))
	assert.Equal(t, "#1392ce #d967f1", cell("stimuli_colours"))
	assert.Equal(t, "-28", cell("target_post_orientation"))
	assert.Equal(t, "512.25", cell("response_time_in_ms"))
	assert.Equal(t, "m", cell("key_pressed"))
	assert.Equal(t, "true", cell("premature_pressed"))
	assert.Equal(t, "-120.5", cell("premature_timing"))
	assert.Equal(t, "false", cell("missed"))

	missed := record(2, 1, false, true, 2000).Row()
	assert.Equal(t, "", missed[20], "no key on a missed trial")
	assert.Equal(t, "", missed[22], "no premature key without a premature press")
}

func TestSaveCSV(t *testing.T) {
	var l Log
	l.Append(record(1, 1, true, false, 400))
	l.Append(record(2, 1, false, true, 2000))

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, l.SaveCSV(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	if diff := cmp.Diff(Columns, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, l.Records[1].Row(), rows[2])
}

func TestSaveXLSX(t *testing.T) {
	var l Log
	l.Append(record(1, 1, true, false, 400))
	l.Append(record(2, 2, false, false, 700))

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, l.SaveXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TrialsSheet}, f.GetSheetList())
	rows, err := f.GetRows(TrialsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "2", rows[2][1])
	assert.Equal(t, "700", rows[2][19])
}

func TestScore(t *testing.T) {
	assert.Equal(t, 0, Score(nil))
	assert.Equal(t, 67, Score([]bool{true, true, false}))
	assert.Equal(t, 100, Score([]bool{true}))

	// 25 and 15 of 40 land on a half percent.
	block := func(n int) []bool {
		c := make([]bool, 40)
		for i := range n {
			c[i] = true
		}
		return c
	}
	assert.Equal(t, 62, Score(block(25)))
	assert.Equal(t, 38, Score(block(15)))
}

func TestSummarize(t *testing.T) {
	broken := record(4, 2, false, true, 300)
	broken.Response.FixationBroken = true

	recs := []Record{
		record(1, 2, true, false, 400),
		record(2, 2, false, false, 600),
		record(3, 1, true, false, 500),
		broken,
	}
	got := Summarize(recs)
	want := []BlockSummary{
		{Block: 2, Trials: 3, Correct: 1, Missed: 1, FixationBroken: 1, PercentCorrect: 33, MeanRTMS: 500},
		{Block: 1, Trials: 1, Correct: 1, PercentCorrect: 100, MeanRTMS: 500},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, Summarize(nil))
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, "participant 3 session 1", Summarize([]Record{
		record(1, 1, true, false, 400),
		record(2, 2, true, false, 450),
	})))
	html := buf.String()
	assert.Contains(t, html, "Accuracy per block")
	assert.Contains(t, html, "Mean response time per block")
	assert.Contains(t, html, "participant 3 session 1")
}

func TestSessionFilesAndSave(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "data_session_2.csv"), SessionFiles(dir, 2, false).CSV)

	files := SessionFiles(dir, 2, true)
	assert.Equal(t, filepath.Join(dir, "data_session_2_test.csv"), files.CSV)
	assert.Equal(t, filepath.Join(dir, "data_session_2_test_markers.csv"), files.Markers)
	assert.Equal(t, filepath.Join(dir, "data_session_2_test_schedule.csv"), files.Schedule)

	var l Log
	l.Append(record(1, 1, true, false, 400))
	require.NoError(t, l.Save(files, "test"))
	for _, p := range []string{files.CSV, files.XLSX, files.Report} {
		assert.FileExists(t, p)
	}
}
