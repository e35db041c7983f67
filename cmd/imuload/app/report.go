package app

import (
	"bufio"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/roman-kulish/imu-inspect/internal/imu"
)

// Reporter writes a loaded series to the standard output
type Reporter struct {
	format OutputFormat
}

func NewReporter(format OutputFormat) (*Reporter, error) {
	if _, ok := validOutputFormats[format]; !ok {
		return nil, fmt.Errorf("invalid output format: %s", format)
	}
	return &Reporter{format: format}, nil
}

// Write dumps series to w. The summary is optional.
func (r *Reporter) Write(w io.Writer, series *imu.Series, summary *Summary) error {
	if r.format == FormatJSON {
		return writeJSON(w, series, summary)
	}

	bw := bufio.NewWriter(w)
	labeled := r.format == FormatLabeled

	if labeled {
		_, _ = bw.WriteString("Loaded IMU data:\n")
		_, _ = bw.WriteString("TimeStamps (relative to first):\n")
	}
	for i, ts := range series.Timestamps {
		if i > 0 {
			_ = bw.WriteByte(' ')
		}
		_, _ = bw.WriteString(imu.FormatFloat64(ts))
	}
	_ = bw.WriteByte('\n')

	if labeled {
		_, _ = bw.WriteString("Accelerometer data:\n")
	}
	writeVectors(bw, series.Accelerations)

	if labeled {
		_, _ = bw.WriteString("Gyroscope data:\n")
	}
	writeVectors(bw, series.AngularRates)

	if err := bw.Flush(); err != nil {
		return err
	}

	if summary != nil {
		return summary.WriteText(w)
	}
	return nil
}

func writeVectors(bw *bufio.Writer, vectors []imu.Vector3) {
	for i, v := range vectors {
		if i > 0 {
			_ = bw.WriteByte(' ')
		}
		_, _ = bw.WriteString(v.String())
	}
	_ = bw.WriteByte('\n')
}

type jsonReport struct {
	Start         float64      `json:"start"`
	Timestamps    []float64    `json:"timestamps"`
	Accelerations [][3]float32 `json:"accelerations"`
	AngularRates  [][3]float32 `json:"angularRates"`
	Summary       *Summary     `json:"summary,omitempty"`
}

func writeJSON(w io.Writer, series *imu.Series, summary *Summary) error {
	report := jsonReport{
		Start:         series.Start,
		Timestamps:    series.Timestamps,
		Accelerations: vectorArrays(series.Accelerations),
		AngularRates:  vectorArrays(series.AngularRates),
		Summary:       summary,
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

func vectorArrays(vectors []imu.Vector3) [][3]float32 {
	out := make([][3]float32, len(vectors))
	for i, v := range vectors {
		out[i] = v.Array()
	}
	return out
}
