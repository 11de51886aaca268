package cmdkit

import (
	"encoding"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"
)

// Parse rules convert one raw argument value into a typed value. Generated
// code references them by name, both for validation and decoding.

func ParseString(s string) (string, error) { return s, nil }

func ParseBool(s string) (bool, error) {
	v, err := strconv.ParseBool(s)
	return v, numErr(err)
}

func ParseInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, strconv.IntSize)
	return int(v), numErr(err)
}

func ParseInt8(s string) (int8, error) {
	v, err := strconv.ParseInt(s, 10, 8)
	return int8(v), numErr(err)
}

func ParseInt16(s string) (int16, error) {
	v, err := strconv.ParseInt(s, 10, 16)
	return int16(v), numErr(err)
}

func ParseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), numErr(err)
}

func ParseInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, numErr(err)
}

func ParseUint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, strconv.IntSize)
	return uint(v), numErr(err)
}

func ParseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	return uint8(v), numErr(err)
}

func ParseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	return uint16(v), numErr(err)
}

func ParseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), numErr(err)
}

func ParseUint64(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	return v, numErr(err)
}

func ParseFloat32(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), numErr(err)
}

func ParseFloat64(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	return v, numErr(err)
}

func ParseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

// ParseTime accepts RFC 3339 timestamps.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseRune accepts exactly one character.
func ParseRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected a single character")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// ParseText parses types that implement encoding.TextUnmarshaler.
func ParseText[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](s string) (T, error) {
	var v T
	err := PT(&v).UnmarshalText([]byte(s))
	return v, err
}
