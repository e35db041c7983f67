package imu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	// FieldsPerRow is the number of fields read from every data row
	FieldsPerRow = 7

	// DefaultHeaderLines is the number of lines discarded before data rows
	DefaultHeaderLines = 1

	// DefaultDelimiter separates fields within a row
	DefaultDelimiter = ','

	ctxCheckInterval = 1024
	maxLineSize      = 1024 * 1024
)

var fieldNames = [FieldsPerRow]string{"timestamp", "acc_x", "acc_y", "acc_z", "gyro_x", "gyro_y", "gyro_z"}

var errShortRow = fmt.Errorf("expected %d fields", FieldsPerRow)

// WithLogger sets the logger for the loader
func WithLogger(logger *slog.Logger) func(l *loader) {
	return func(l *loader) {
		l.logger = logger.With(slog.String("component", "imu"))
	}
}

// WithHeaderLines sets how many leading lines are discarded unread
func WithHeaderLines(n int) func(l *loader) {
	return func(l *loader) {
		l.headerLines = max(n, 0)
	}
}

// WithDelimiter sets the field separator
func WithDelimiter(d rune) func(l *loader) {
	return func(l *loader) {
		l.delimiter = string(d)
	}
}

type loader struct {
	logger      *slog.Logger
	headerLines int
	delimiter   string
}

func newLoader(options ...func(l *loader)) *loader {
	l := loader{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
		headerLines: DefaultHeaderLines,
		delimiter:   string(DefaultDelimiter),
	}
	for _, option := range options {
		option(&l)
	}
	return &l
}

// LoadFile opens path and loads it with Load. The file is closed before
// LoadFile returns.
func LoadFile(ctx context.Context, path string, options ...func(l *loader)) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w at '%s': %w", ErrFileOpen, path, err)
	}
	defer f.Close()

	return Load(ctx, f, options...)
}

// Load reads IMU rows from r. The header is skipped, rows are sorted and
// de-duplicated by timestamp (the last row wins) and timestamps are made
// relative to the first sample.
func Load(ctx context.Context, r io.Reader, options ...func(l *loader)) (*Series, error) {
	l := newLoader(options...)

	acc, gyr, err := l.read(ctx, r)
	if err != nil {
		return nil, err
	}

	series, err := NewSeries(acc, gyr)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loaded IMU data",
		slog.Int("samples", series.Len()),
		slog.Float64("start", series.Start),
		slog.Float64("duration", series.Duration()))

	return series, nil
}

func (l *loader) read(ctx context.Context, r io.Reader) (acc, gyr *SampleSet, err error) {
	acc, gyr = NewSampleSet(), NewSampleSet()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lineNo, rows, replaced int
	for scanner.Scan() {
		lineNo++
		if lineNo%ctxCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		if lineNo <= l.headerLines {
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var s Sample
		if s, err = l.parseRow(lineNo, line); err != nil {
			return nil, nil, err
		}

		if acc.Insert(s.Timestamp, s.Accel) {
			replaced++
			l.logger.Debug("duplicate timestamp, keeping the later row",
				slog.Int("line", lineNo),
				slog.Float64("timestamp", s.Timestamp))
		}
		gyr.Insert(s.Timestamp, s.AngularRate)
		rows++
	}
	if err = scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, nil, &ParseError{Line: lineNo + 1, Err: err}
		}
		return nil, nil, fmt.Errorf("reading IMU data: %w", err)
	}

	l.logger.Debug("finished reading rows",
		slog.Int("lines", lineNo),
		slog.Int("rows", rows),
		slog.Int("duplicates", replaced))

	return acc, gyr, nil
}

func (l *loader) parseRow(lineNo int, line string) (Sample, error) {
	tokens := strings.Split(line, l.delimiter)
	if len(tokens) < FieldsPerRow {
		return Sample{}, &ParseError{
			Line: lineNo,
			Err:  fmt.Errorf("%w, got %d", errShortRow, len(tokens)),
		}
	}

	ts, err := parseField(lineNo, 0, tokens[0], 64)
	if err != nil {
		return Sample{}, err
	}

	var values [FieldsPerRow - 1]float32
	for i := range values {
		v, err := parseField(lineNo, i+1, tokens[i+1], 32)
		if err != nil {
			return Sample{}, err
		}
		values[i] = float32(v)
	}

	return Sample{
		Timestamp:   ts,
		Accel:       Vector3{X: values[0], Y: values[1], Z: values[2]},
		AngularRate: Vector3{X: values[3], Y: values[4], Z: values[5]},
	}, nil
}

func parseField(lineNo, field int, token string, bitSize int) (float64, error) {
	token = strings.TrimSpace(token)
	v, err := strconv.ParseFloat(token, bitSize)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errors.New("value is not finite")
	}
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &ParseError{
			Line:  lineNo,
			Field: fieldNames[field],
			Value: token,
			Err:   err,
		}
	}
	return v, nil
}
