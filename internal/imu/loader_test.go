package imu

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "timestamp,ax,ay,az,gx,gy,gz\n"

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imu.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, header+
		"2.0,0.1,0.2,0.3,0.01,0.02,0.03\n"+
		"1.0,0.0,0.0,9.8,0.0,0.0,0.0\n")

	series, err := LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1.0, series.Start)
	assert.Equal(t, []float64{0, 1}, series.Timestamps)
	assert.Equal(t, []Vector3{{0, 0, 9.8}, {0.1, 0.2, 0.3}}, series.Accelerations)
	assert.Equal(t, []Vector3{{0, 0, 0}, {0.01, 0.02, 0.03}}, series.AngularRates)
}

func TestLoadFile_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	series, err := LoadFile(context.Background(), path)
	assert.Nil(t, series)
	assert.ErrorIs(t, err, ErrFileOpen)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestLoad(t *testing.T) {
	testData := map[string]struct {
		input         string
		timestamps    []float64
		accelerations []Vector3
		angularRates  []Vector3
		err           error
	}{
		"header only": {
			input: header,
			err:   ErrEmptyData,
		},
		"empty input": {
			input: "",
			err:   ErrEmptyData,
		},
		"blank lines only": {
			input: header + "\n   \n\n",
			err:   ErrEmptyData,
		},
		"numeric header is still discarded": {
			input:         "0.5,1,1,1,1,1,1\n1.5,1,2,3,4,5,6\n",
			timestamps:    []float64{0},
			accelerations: []Vector3{{1, 2, 3}},
			angularRates:  []Vector3{{4, 5, 6}},
		},
		"out of order rows are sorted": {
			input: header +
				"3,3,3,3,-3,-3,-3\n" +
				"1,1,1,1,-1,-1,-1\n" +
				"2,2,2,2,-2,-2,-2\n",
			timestamps:    []float64{0, 1, 2},
			accelerations: []Vector3{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}},
			angularRates:  []Vector3{{-1, -1, -1}, {-2, -2, -2}, {-3, -3, -3}},
		},
		"duplicate timestamps keep the last row": {
			input: header +
				"1,1,1,1,1,1,1\n" +
				"2,2,2,2,2,2,2\n" +
				"1,7,8,9,-7,-8,-9\n",
			timestamps:    []float64{0, 1},
			accelerations: []Vector3{{7, 8, 9}, {2, 2, 2}},
			angularRates:  []Vector3{{-7, -8, -9}, {2, 2, 2}},
		},
		"blank lines and crlf": {
			input: "timestamp,ax,ay,az,gx,gy,gz\r\n" +
				"10.5, 1, 2, 3, 4, 5, 6\r\n" +
				"\r\n" +
				"11.0,1,2,3,4,5,6\r\n",
			timestamps:    []float64{0, 0.5},
			accelerations: []Vector3{{1, 2, 3}, {1, 2, 3}},
			angularRates:  []Vector3{{4, 5, 6}, {4, 5, 6}},
		},
		"extra fields are ignored": {
			input:         header + "1,1,2,3,4,5,6,99,extra\n",
			timestamps:    []float64{0},
			accelerations: []Vector3{{1, 2, 3}},
			angularRates:  []Vector3{{4, 5, 6}},
		},
		"short row": {
			input: header + "1,1,2,3,4,5\n",
			err:   ErrParse,
		},
		"invalid number": {
			input: header + "1,1,2,abc,4,5,6\n",
			err:   ErrParse,
		},
		"trailing garbage": {
			input: header + "1.0abc,1,2,3,4,5,6\n",
			err:   ErrParse,
		},
		"not finite": {
			input: header + "1,1,2,3,NaN,5,6\n",
			err:   ErrParse,
		},
		"float32 overflow": {
			input: header + "1,1e40,2,3,4,5,6\n",
			err:   ErrParse,
		},
		"timestamp span overflows": {
			input: header + "1e308,0,0,9.8,0,0,0\n-1e308,0,0,9.8,0,0,0\n",
			err:   ErrTimestampRange,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			series, err := Load(context.Background(), strings.NewReader(td.input))
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				assert.Nil(t, series)
				return
			}
			require.NoError(t, err)
			assert.InDeltaSlice(t, td.timestamps, series.Timestamps, 1e-12)
			assert.Equal(t, td.accelerations, series.Accelerations)
			assert.Equal(t, td.angularRates, series.AngularRates)
		})
	}
}

func TestLoad_ParseErrorDetails(t *testing.T) {
	testData := map[string]struct {
		input string
		line  int
		field string
		value string
	}{
		"short row": {
			input: header + "1,1,2,3,4,5,6\n2,1,2\n",
			line:  3,
		},
		"bad timestamp": {
			input: header + "x,1,2,3,4,5,6\n",
			line:  2,
			field: "timestamp",
			value: "x",
		},
		"bad gyro": {
			input: header + "1,1,2,3,4,5,6\n\n2,1,2,3,4,5,?\n",
			line:  4,
			field: "gyro_z",
			value: "?",
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Load(context.Background(), strings.NewReader(td.input))

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, td.line, parseErr.Line)
			assert.Equal(t, td.field, parseErr.Field)
			assert.Equal(t, td.value, parseErr.Value)
		})
	}
}

func TestLoad_RelativeTimestamps(t *testing.T) {
	absolute := []float64{1700000000.125, 1700000000.130, 1700000000.135, 1700000001.0}

	var sb strings.Builder
	sb.WriteString(header)
	for i := len(absolute) - 1; i >= 0; i-- {
		sb.WriteString(FormatFloat64(absolute[i]))
		sb.WriteString(",0,0,9.81,0,0,0\n")
	}

	series, err := Load(context.Background(), strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Equal(t, len(absolute), series.Len())

	assert.Equal(t, 0.0, series.Timestamps[0])
	for i := range absolute {
		assert.InDelta(t, absolute[i]-absolute[0], series.Timestamps[i], 1e-9)
		assert.InDelta(t, absolute[i], series.Sample(i).Timestamp, 1e-6)
	}
	assert.InDelta(t, 0.875, series.Duration(), 1e-9)
}

func TestLoad_Options(t *testing.T) {
	input := "# recorded by logger\n" +
		"timestamp;ax;ay;az;gx;gy;gz\n" +
		"5;1;2;3;4;5;6\n" +
		"6;1;2;3;4;5;6\n"

	series, err := Load(context.Background(), strings.NewReader(input),
		WithHeaderLines(2),
		WithDelimiter(';'))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, series.Timestamps)
	assert.Equal(t, 5.0, series.Start)
}

func TestLoad_Cancelled(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(header)
	for i := 0; i < 2*ctxCheckInterval; i++ {
		sb.WriteString(FormatFloat64(float64(i)))
		sb.WriteString(",0,0,0,0,0,0\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, strings.NewReader(sb.String()))
	assert.ErrorIs(t, err, context.Canceled)
}
