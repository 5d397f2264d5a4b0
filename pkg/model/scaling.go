package model

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// ScalingFactors holds the divisor of every numeric field. Fields and Factors are parallel
// slices; lookups always go through the field name.
type ScalingFactors struct {
	Fields  []string
	Factors []float64

	index FieldIndex
}

// NewScalingFactors binds field names to factors. It must be used to rebuild the name index
// of a table decoded from the metadata store.
func NewScalingFactors(fields []string, factors []float64) ScalingFactors {
	return ScalingFactors{
		Fields:  fields,
		Factors: factors,
		index:   NewFieldIndex(fields),
	}
}

// Factor returns the divisor of field, or false when the field is not scaled
func (s ScalingFactors) Factor(field string) (float64, bool) {
	i, ok := s.index.Lookup(field)
	if !ok {
		return 1.0, false
	}
	return s.Factors[i], true
}

// FactorOrOne returns the divisor of field, or 1.0 for fields without one.
func (s ScalingFactors) FactorOrOne(field string) float64 {
	f, _ := s.Factor(field)
	return f
}

func (s ScalingFactors) Size() int {
	return len(s.Fields)
}

// Sorted returns a copy ordered by field name, the form written to the metadata store.
func (s ScalingFactors) Sorted() ScalingFactors {
	fields := sortedCopy(s.Fields)
	factors := make([]float64, len(fields))
	for i, f := range fields {
		factors[i] = s.FactorOrOne(f)
	}
	return NewScalingFactors(fields, factors)
}

var errNotFinite = errors.New("not a finite number")

// ParseNumeric parses a numeric cell value. NaN and infinities are rejected.
func ParseNumeric(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// ComputeScalingFactors computes, for each numeric field, the maximum absolute value found in
// records. A maximum of 0 is replaced by 1 so that the field passes through unscaled.
// Fields are processed concurrently; the result keeps the order of numeric. Numeric fields
// that are not part of header are skipped.
func ComputeScalingFactors(ctx context.Context, numeric []string, header FieldIndex, records [][]string) (ScalingFactors, error) {
	var fields []string
	var columns []int
	for _, name := range numeric {
		if col, ok := header.Lookup(name); ok {
			fields = append(fields, name)
			columns = append(columns, col)
		}
	}

	factors := make([]float64, len(fields))
	g, ctx := errgroup.WithContext(ctx)
	for i := range fields {
		i := i
		g.Go(func() error {
			f, err := columnFactor(ctx, fields[i], columns[i], records)
			if err != nil {
				return err
			}
			factors[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ScalingFactors{}, err
	}
	return NewScalingFactors(fields, factors), nil
}

func columnFactor(ctx context.Context, field string, column int, records [][]string) (float64, error) {
	values := make([]float64, 0, len(records))
	for line, record := range records {
		if line%4096 == 0 && ctx.Err() != nil {
			return 0, ctx.Err()
		}
		v, err := ParseNumeric(record[column])
		if err != nil {
			return 0, &NumericParseError{Field: field, Line: line + 1, Value: record[column], Err: err}
		}
		values = append(values, v)
	}
	factor := floats.Norm(values, math.Inf(1))
	if factor == 0.0 {
		factor = 1.0
	}
	return factor, nil
}

// sortedKeys returns the keys of a string keyed map in ascending order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
