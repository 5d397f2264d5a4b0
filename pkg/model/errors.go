package model

import (
	"fmt"
	"strings"
)

// MissingFieldError reports declared categoric or output fields that are absent from a
// source header.
type MissingFieldError struct {
	Categoric []string
	Output    []string
}

func (e *MissingFieldError) Error() string {
	var parts []string
	if len(e.Categoric) > 0 {
		parts = append(parts, "categoric fields not in header: "+strings.Join(e.Categoric, ", "))
	}
	if len(e.Output) > 0 {
		parts = append(parts, "output fields not in header: "+strings.Join(e.Output, ", "))
	}
	return strings.Join(parts, "; ")
}

// SchemaDriftError reports the difference between a header and the canonical source fields
// recorded by an initial run.
type SchemaDriftError struct {
	Extra   []string
	Missing []string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("header differs from canonical source fields: extra [%s] missing [%s]",
		strings.Join(e.Extra, ", "), strings.Join(e.Missing, ", "))
}

// NumericParseError reports a value of a numeric field that is not a real number.
type NumericParseError struct {
	Field string
	Line  int
	Value string
	Err   error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("error parsing numeric field %s at line %d (%q): %s", e.Field, e.Line, e.Value, e.Err)
}

func (e *NumericParseError) Unwrap() error {
	return e.Err
}

// ShapeError reports a matrix whose dimensions do not match the processed field layout.
type ShapeError struct {
	What     string
	Expected string
	Rows     int
	Columns  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s matrix is %dx%d, expected %s", e.What, e.Rows, e.Columns, e.Expected)
}
