package imu

import (
	"strconv"
	"strings"
)

// Vector3 is a three axis reading, m/s² for acceleration and rad/s for angular rate
type Vector3 struct {
	X, Y, Z float32
}

// String formats the vector as "[x, y, z]"
func (v Vector3) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(FormatFloat32(v.X))
	sb.WriteString(", ")
	sb.WriteString(FormatFloat32(v.Y))
	sb.WriteString(", ")
	sb.WriteString(FormatFloat32(v.Z))
	sb.WriteByte(']')
	return sb.String()
}

// Array returns the components in X, Y, Z order
func (v Vector3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Axis returns a single component, 0 is X, 1 is Y, anything else is Z
func (v Vector3) Axis(axis Axis) float32 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// Sample is a single row of the input file
type Sample struct {
	Timestamp   float64 // Seconds
	Accel       Vector3 // Linear acceleration
	AngularRate Vector3 // Gyroscope reading
}

// Axis selects one component of a Vector3
type Axis int

// Vector3 components
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists every axis in X, Y, Z order
var Axes = [...]Axis{AxisX, AxisY, AxisZ}

// String returns the lower case axis letter
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// FormatFloat64 returns the shortest decimal form that round-trips as float64
func FormatFloat64(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatFloat32 returns the shortest decimal form that round-trips as float32
func FormatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
