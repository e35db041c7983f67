package imu

import (
	"errors"
	"fmt"
)

var (
	// ErrFileOpen is returned when the input file cannot be opened
	ErrFileOpen = errors.New("cannot open IMU data file")

	// ErrParse is matched by every *ParseError
	ErrParse = errors.New("malformed IMU data row")

	// ErrEmptyData is returned when the input has no data rows
	ErrEmptyData = errors.New("no IMU data found")

	// ErrMisaligned is returned when acceleration and angular rate samples are not keyed by the same timestamps
	ErrMisaligned = errors.New("acceleration and angular rate timestamps differ")

	// ErrTimestampRange is returned when the span between the first and last timestamp is not a finite number
	ErrTimestampRange = errors.New("IMU timestamp range overflows")
)

// ParseError describes a data row that could not be parsed
type ParseError struct {
	Line  int    // 1-based line number in the input
	Field string // Field name, empty when the row is short
	Value string // Offending token
	Err   error  // Underlying cause
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: field %s: invalid value %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
