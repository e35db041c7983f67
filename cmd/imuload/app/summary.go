package app

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/roman-kulish/imu-inspect/internal/imu"
)

// AxisStats describes the distribution of one axis
type AxisStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
}

// QuantityStats holds per axis statistics of acceleration or angular rate
type QuantityStats struct {
	Unit string    `json:"unit"`
	X    AxisStats `json:"x"`
	Y    AxisStats `json:"y"`
	Z    AxisStats `json:"z"`
}

// Summary describes a loaded series
type Summary struct {
	Samples        int           `json:"samples"`
	FileSize       int64         `json:"fileSize,omitempty"`
	Start          float64       `json:"start"`
	Duration       float64       `json:"duration"`
	SampleRate     float64       `json:"sampleRate"`     // Mean rate in Hz
	MedianInterval float64       `json:"medianInterval"` // Seconds
	Acceleration   QuantityStats `json:"acceleration"`
	AngularRate    QuantityStats `json:"angularRate"`
}

// NewSummary computes the summary of series. fileSize is reported when positive.
func NewSummary(series *imu.Series, fileSize int64) *Summary {
	return &Summary{
		Samples:        series.Len(),
		FileSize:       fileSize,
		Start:          series.Start,
		Duration:       series.Duration(),
		SampleRate:     meanSampleRate(series),
		MedianInterval: medianInterval(series.Timestamps),
		Acceleration:   quantityStats(series, imu.Acceleration),
		AngularRate:    quantityStats(series, imu.AngularRate),
	}
}

func quantityStats(series *imu.Series, q imu.Quantity) QuantityStats {
	return QuantityStats{
		Unit: q.Unit(),
		X:    axisStats(series.Column(q, imu.AxisX)),
		Y:    axisStats(series.Column(q, imu.AxisY)),
		Z:    axisStats(series.Column(q, imu.AxisZ)),
	}
}

func axisStats(values []float64) AxisStats {
	if len(values) == 0 {
		return AxisStats{}
	}

	s := AxisStats{
		Min: floats.Min(values),
		Max: floats.Max(values),
	}
	if len(values) < 2 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}

func meanSampleRate(series *imu.Series) float64 {
	if series.Len() < 2 || series.Duration() <= 0 {
		return 0
	}
	return float64(series.Len()-1) / series.Duration()
}

func medianInterval(timestamps []float64) float64 {
	if len(timestamps) < 2 {
		return 0
	}

	intervals := make([]float64, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		intervals[i-1] = timestamps[i] - timestamps[i-1]
	}
	sort.Float64s(intervals)
	return stat.Quantile(0.5, stat.Empirical, intervals, nil)
}

// WriteText writes a human readable summary
func (s *Summary) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("Summary:\n")
	ew.printf("  samples:     %s", humanize.Comma(int64(s.Samples)))
	if s.FileSize > 0 {
		ew.printf(" (%s)", humanize.Bytes(uint64(s.FileSize)))
	}
	ew.printf("\n")
	ew.printf("  start:       %s s\n", imu.FormatFloat64(s.Start))
	ew.printf("  duration:    %s\n", humanize.SIWithDigits(s.Duration, 3, "s"))
	if s.SampleRate > 0 {
		ew.printf("  sample rate: %s (median interval %s)\n",
			humanize.SIWithDigits(s.SampleRate, 2, "Hz"),
			humanize.SIWithDigits(s.MedianInterval, 3, "s"))
	}

	for _, q := range []struct {
		name  imu.Quantity
		stats QuantityStats
	}{
		{imu.Acceleration, s.Acceleration},
		{imu.AngularRate, s.AngularRate},
	} {
		ew.printf("  %s (%s):\n", q.name, q.stats.Unit)
		for _, axis := range []struct {
			name  string
			stats AxisStats
		}{
			{"x", q.stats.X},
			{"y", q.stats.Y},
			{"z", q.stats.Z},
		} {
			ew.printf("    %s: min=%s max=%s mean=%s stddev=%s\n", axis.name,
				humanize.FtoaWithDigits(axis.stats.Min, 4),
				humanize.FtoaWithDigits(axis.stats.Max, 4),
				humanize.FtoaWithDigits(axis.stats.Mean, 4),
				humanize.FtoaWithDigits(axis.stats.StdDev, 4))
		}
	}

	return ew.err
}

// errWriter keeps the first write error and skips all writes after it
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
