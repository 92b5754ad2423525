// Package report renders an HTML overview of a scanned observation
// catalog using go-echarts: frames per file split by channel, and the
// time-offset span of each file.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/helio-data/sunprep/internal/catalog"
)

// Write renders the catalog report to outPath.
func Write(store *catalog.Store, outPath string) error {
	obs, err := store.Observations()
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if len(obs) == 0 {
		return fmt.Errorf("report: catalog is empty")
	}

	page := components.NewPage()
	page.PageTitle = "GREGOR dataset report"
	page.AddCharts(framesPerFileChart(obs), timeOffsetChart(obs))

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", outPath, err)
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("report: render: %w", err)
	}
	return f.Close()
}

func framesPerFileChart(obs []catalog.Observation) *charts.Bar {
	paths, byChannel := groupByChannel(obs)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Frames per file",
			Subtitle: fmt.Sprintf("%d catalogued observations", len(obs)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, len(paths))
	for i, p := range paths {
		labels[i] = filepath.Base(p)
	}
	bar.SetXAxis(labels)

	channels := sortedKeys(byChannel)
	for _, ch := range channels {
		counts := byChannel[ch]
		data := make([]opts.BarData, len(paths))
		for i, p := range paths {
			data[i] = opts.BarData{Value: counts[p]}
		}
		bar.AddSeries(ch, data)
	}
	return bar
}

func timeOffsetChart(obs []catalog.Observation) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Time-offset span per file"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "TIMEOFFS"}),
	)

	byChannel := make(map[string][]opts.ScatterData)
	for i, o := range obs {
		byChannel[o.Channel] = append(byChannel[o.Channel],
			opts.ScatterData{Value: []interface{}{i, o.MinTimeOffset}},
			opts.ScatterData{Value: []interface{}{i, o.MaxTimeOffset}},
		)
	}
	for _, ch := range sortedScatterKeys(byChannel) {
		scatter.AddSeries(ch, byChannel[ch], charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}
	return scatter
}

func groupByChannel(obs []catalog.Observation) ([]string, map[string]map[string]int) {
	seen := make(map[string]bool)
	var paths []string
	byChannel := make(map[string]map[string]int)
	for _, o := range obs {
		if !seen[o.Path] {
			seen[o.Path] = true
			paths = append(paths, o.Path)
		}
		if byChannel[o.Channel] == nil {
			byChannel[o.Channel] = make(map[string]int)
		}
		byChannel[o.Channel][o.Path] = o.FrameCount
	}
	sort.Strings(paths)
	return paths, byChannel
}

func sortedKeys(m map[string]map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedScatterKeys(m map[string][]opts.ScatterData) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
