package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/imu-inspect/internal/imu"
)

func TestNewSummary(t *testing.T) {
	series := &imu.Series{
		Start:      100,
		Timestamps: []float64{0, 0.01, 0.02, 0.04},
		Accelerations: []imu.Vector3{
			{1, 0, 9},
			{2, 0, 9},
			{3, 0, 11},
			{4, 0, 11},
		},
		AngularRates: []imu.Vector3{
			{0, -1, 0},
			{0, 1, 0},
			{0, -1, 0},
			{0, 1, 0},
		},
	}

	s := NewSummary(series, 512)

	assert.Equal(t, 4, s.Samples)
	assert.Equal(t, int64(512), s.FileSize)
	assert.Equal(t, 100.0, s.Start)
	assert.InDelta(t, 0.04, s.Duration, 1e-12)
	assert.InDelta(t, 75.0, s.SampleRate, 1e-9)
	assert.InDelta(t, 0.01, s.MedianInterval, 1e-12)

	assert.Equal(t, "m/s²", s.Acceleration.Unit)
	assert.Equal(t, 1.0, s.Acceleration.X.Min)
	assert.Equal(t, 4.0, s.Acceleration.X.Max)
	assert.Equal(t, 2.5, s.Acceleration.X.Mean)
	assert.InDelta(t, 1.2909944, s.Acceleration.X.StdDev, 1e-6)
	assert.Equal(t, AxisStats{}, s.Acceleration.Y)
	assert.Equal(t, 10.0, s.Acceleration.Z.Mean)

	assert.Equal(t, "rad/s", s.AngularRate.Unit)
	assert.Equal(t, -1.0, s.AngularRate.Y.Min)
	assert.Equal(t, 1.0, s.AngularRate.Y.Max)
	assert.Equal(t, 0.0, s.AngularRate.Y.Mean)
}

func TestNewSummary_SingleSample(t *testing.T) {
	series := &imu.Series{
		Start:         5,
		Timestamps:    []float64{0},
		Accelerations: []imu.Vector3{{1, 2, 3}},
		AngularRates:  []imu.Vector3{{4, 5, 6}},
	}

	s := NewSummary(series, 0)
	assert.Equal(t, 1, s.Samples)
	assert.Equal(t, 0.0, s.SampleRate)
	assert.Equal(t, 0.0, s.MedianInterval)
	assert.Equal(t, AxisStats{Min: 3, Max: 3, Mean: 3}, s.Acceleration.Z)
	assert.Equal(t, 0.0, s.AngularRate.X.StdDev)
}

func TestSummary_WriteText(t *testing.T) {
	series := &imu.Series{
		Start:         1,
		Timestamps:    []float64{0, 0.005, 0.01},
		Accelerations: []imu.Vector3{{0, 0, 9.5}, {0, 0, 10}, {0, 0, 10.5}},
		AngularRates:  []imu.Vector3{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
	}

	var out bytes.Buffer
	require.NoError(t, NewSummary(series, 1500).WriteText(&out))

	text := out.String()
	assert.Contains(t, text, "samples:     3 (1.5 kB)\n")
	assert.Contains(t, text, "duration:    10 ms\n")
	assert.Contains(t, text, "sample rate: 200 Hz (median interval 5 ms)\n")
	assert.Contains(t, text, "acceleration (m/s²):\n")
	assert.Contains(t, text, "z: min=9.5 max=10.5 mean=10 stddev=0.5\n")
	assert.Contains(t, text, "angular rate (rad/s):\n")
}
