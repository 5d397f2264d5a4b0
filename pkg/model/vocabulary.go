package model

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DistinctValues holds the vocabulary of every categoric field. Fields are sorted by name and
// Values[i] is the sorted, deduplicated list of values seen for Fields[i].
type DistinctValues struct {
	Fields []string
	Values [][]string

	index FieldIndex
}

// NewDistinctValues binds field names to their vocabularies. It must be used to rebuild the
// name index of a value decoded from the metadata store.
func NewDistinctValues(fields []string, values [][]string) DistinctValues {
	return DistinctValues{
		Fields: fields,
		Values: values,
		index:  NewFieldIndex(fields),
	}
}

// Vocabulary returns the distinct values of field
func (d DistinctValues) Vocabulary(field string) ([]string, bool) {
	i, ok := d.index.Lookup(field)
	if !ok {
		return nil, false
	}
	return d.Values[i], true
}

func (d DistinctValues) Size() int {
	return len(d.Fields)
}

// ComputeDistinctValues collects the vocabulary of each categoric field in header. Fields
// absent from header are skipped. Fields are processed concurrently.
func ComputeDistinctValues(ctx context.Context, categoric []string, header FieldIndex, records [][]string) (DistinctValues, error) {
	fields := make([]string, 0, len(categoric))
	for _, name := range sortedCopy(dedupe(categoric)) {
		if _, ok := header.Lookup(name); ok {
			fields = append(fields, name)
		}
	}

	values := make([][]string, len(fields))
	g, ctx := errgroup.WithContext(ctx)
	for i := range fields {
		i := i
		column, _ := header.Lookup(fields[i])
		g.Go(func() error {
			seen := map[string]void{}
			for line, record := range records {
				if line%4096 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				seen[record[column]] = Void
			}
			values[i] = sortedKeys(seen)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DistinctValues{}, err
	}
	return NewDistinctValues(fields, values), nil
}
