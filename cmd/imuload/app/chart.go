package app

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/roman-kulish/imu-inspect/internal/imu"
)

// LineSeries generates an echart multi-line chart of one quantity, a line per axis
func LineSeries(series *imu.Series, q imu.Quantity) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    fmt.Sprintf("%s, %s", q, q.Unit()),
				Subtitle: fmt.Sprintf("start %s s", imu.FormatFloat64(series.Start)),
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: "t, s",
			},
		),
	)

	x := make([]string, len(series.Timestamps))
	for i, ts := range series.Timestamps {
		x[i] = imu.FormatFloat64(ts)
	}
	line = line.SetXAxis(x)

	for _, axis := range imu.Axes {
		col := series.Column(q, axis)
		lineData := make([]opts.LineData, 0, len(col))
		for _, v := range col {
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line = line.AddSeries(axis.String(), lineData)
	}

	return line
}

// writeChart renders an HTML page with acceleration and angular rate charts
func writeChart(path string, series *imu.Series) (err error) {
	page := components.NewPage()
	page.AddCharts(
		LineSeries(series, imu.Acceleration),
		LineSeries(series, imu.AngularRate),
	)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := file.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if err = page.Render(file); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
