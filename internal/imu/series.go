package imu

import (
	"fmt"
	"math"
)

// Series holds the loaded samples ordered by timestamp. Index i of every
// slice refers to the same sample.
type Series struct {
	Start         float64   // Absolute timestamp of the first sample, seconds
	Timestamps    []float64 // Seconds relative to Start, Timestamps[0] == 0
	Accelerations []Vector3
	AngularRates  []Vector3
}

// NewSeries re-bases both sets to the smallest acceleration timestamp and
// returns them as index aligned slices.
func NewSeries(acc, gyr *SampleSet) (*Series, error) {
	if acc.Len() == 0 || gyr.Len() == 0 {
		return nil, ErrEmptyData
	}
	if !acc.SameKeys(gyr) {
		return nil, fmt.Errorf("%d acceleration and %d angular rate samples: %w",
			acc.Len(), gyr.Len(), ErrMisaligned)
	}

	keys := acc.sortedKeys()
	start := keys[0]
	if last := keys[len(keys)-1]; math.IsInf(last-start, 0) {
		return nil, fmt.Errorf("%w: %s to %s", ErrTimestampRange, FormatFloat64(start), FormatFloat64(last))
	}

	timestamps := make([]float64, len(keys))
	for i, k := range keys {
		timestamps[i] = k - start
	}

	return &Series{
		Start:         start,
		Timestamps:    timestamps,
		Accelerations: acc.Values(),
		AngularRates:  gyr.Values(),
	}, nil
}

// Len returns the number of samples
func (s *Series) Len() int {
	return len(s.Timestamps)
}

// Duration is the relative timestamp of the last sample
func (s *Series) Duration() float64 {
	if len(s.Timestamps) == 0 {
		return 0
	}
	return s.Timestamps[len(s.Timestamps)-1]
}

// Sample returns the i-th sample with its absolute timestamp
func (s *Series) Sample(i int) Sample {
	return Sample{
		Timestamp:   s.Start + s.Timestamps[i],
		Accel:       s.Accelerations[i],
		AngularRate: s.AngularRates[i],
	}
}

// Quantity names one of the two measured vectors
type Quantity string

const (
	Acceleration Quantity = "acceleration"
	AngularRate  Quantity = "angular rate"
)

// Unit returns the SI unit of the quantity
func (q Quantity) Unit() string {
	if q == AngularRate {
		return "rad/s"
	}
	return "m/s²"
}

// Column extracts one axis of a quantity as float64
func (s *Series) Column(q Quantity, axis Axis) []float64 {
	src := s.Accelerations
	if q == AngularRate {
		src = s.AngularRates
	}
	col := make([]float64, len(src))
	for i, v := range src {
		col[i] = float64(v.Axis(axis))
	}
	return col
}
