package results

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteReport renders per-block accuracy and response times as an HTML page.
func WriteReport(w io.Writer, title string, summaries []BlockSummary) error {
	blocks := make([]string, len(summaries))
	accuracy := make([]opts.BarData, len(summaries))
	missed := make([]opts.BarData, len(summaries))
	rts := make([]opts.LineData, len(summaries))
	for i, s := range summaries {
		blocks[i] = strconv.Itoa(s.Block)
		accuracy[i] = opts.BarData{Value: s.PercentCorrect}
		missed[i] = opts.BarData{Value: s.Missed}
		rts[i] = opts.LineData{Value: s.MeanRTMS}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Accuracy per block", Subtitle: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "block"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Min: 0, Max: 100}),
	)
	label := charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"})
	bar.SetXAxis(blocks).
		AddSeries("correct", accuracy, label).
		AddSeries("missed", missed, label)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Mean response time per block"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "block"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ms"}),
	)
	line.SetXAxis(blocks).AddSeries("response time", rts)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(bar, line)
	return page.Render(w)
}

// SaveReport writes the report of records to path.
func SaveReport(path, title string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteReport(f, title, Summarize(records)); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return f.Close()
}
