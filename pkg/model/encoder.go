package model

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// OneHot returns the dummy vector of value over a sorted vocabulary. A value outside the
// vocabulary yields an all-zero vector.
func OneHot(vocabulary []string, value string) []float64 {
	vector := make([]float64, len(vocabulary))
	i := sort.SearchStrings(vocabulary, value)
	if i < len(vocabulary) && vocabulary[i] == value {
		vector[i] = 1
	}
	return vector
}

// fieldEncoder encodes a single source column into one or more processed columns
type fieldEncoder struct {
	name       string
	column     int
	categoric  bool
	factor     float64
	vocabulary []string

	// targets holds the processed column of each encoded cell, -1 when the layout has none
	targets []int
}

// Encoder maps raw records of a given header to encoded rows laid out in processed field
// order. It holds no per-row state and is safe for concurrent use.
type Encoder struct {
	width   int
	fields  []fieldEncoder
	layout  []string
	columns FieldIndex
}

// NewEncoder prepares the encoding of records whose columns follow header. Header fields that
// are not canonical source fields are ignored; canonical fields missing from header leave
// their processed columns at the default fill.
func NewEncoder(params *ProcessingParameters, factors ScalingFactors, values DistinctValues, header []string) *Encoder {
	layout := NewFieldIndex(params.ProcessedFields)
	e := &Encoder{
		width:   len(params.ProcessedFields),
		layout:  params.ProcessedFields,
		columns: NewFieldIndex(header),
	}

	for _, name := range params.SourceFields {
		column, ok := e.columns.Lookup(name)
		if !ok {
			continue
		}
		fe := fieldEncoder{name: name, column: column}
		if params.Roles.IsCategoric(name) {
			fe.categoric = true
			fe.vocabulary, _ = values.Vocabulary(name)
			for _, v := range fe.vocabulary {
				fe.targets = append(fe.targets, target(layout, DummyField(name, v)))
			}
		} else {
			fe.factor = factors.FactorOrOne(name)
			fe.targets = []int{target(layout, name)}
		}
		e.fields = append(e.fields, fe)
	}
	return e
}

func target(layout FieldIndex, name string) int {
	if i, ok := layout.Lookup(name); ok {
		return i
	}
	return -1
}

// Header returns the processed field names, the header of encoded output.
func (e *Encoder) Header() []string {
	return e.layout
}

// Width is the number of columns of an encoded row
func (e *Encoder) Width() int {
	return e.width
}

// EncodeRow encodes a single record. line is the 1-based data line used in error reports.
func (e *Encoder) EncodeRow(record []string, line int) ([]float64, error) {
	row := make([]float64, e.width)
	for i := range row {
		row[i] = BiasValue
	}

	for _, fe := range e.fields {
		raw := record[fe.column]
		if fe.categoric {
			for p, v := range OneHot(fe.vocabulary, raw) {
				if t := fe.targets[p]; t >= 0 {
					row[t] = v
				}
			}
			continue
		}

		v, err := ParseNumeric(raw)
		if err != nil {
			return nil, &NumericParseError{Field: fe.name, Line: line, Value: raw, Err: err}
		}
		if t := fe.targets[0]; t >= 0 {
			row[t] = v / fe.factor
		}
	}
	return row, nil
}

// EncodeAll encodes records concurrently in chunks of chunkSize rows, keeping record order.
func (e *Encoder) EncodeAll(ctx context.Context, records [][]string, chunkSize int) ([][]float64, error) {
	if chunkSize <= 0 {
		chunkSize = len(records)
	}
	result := make([][]float64, len(records))
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(records); start += chunkSize {
		start := start
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				row, err := e.EncodeRow(records[i], i+1)
				if err != nil {
					return err
				}
				result[i] = row
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
