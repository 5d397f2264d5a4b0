package model

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DataSource identifies the tool that exported a dataset, so that known header quirks can be
// removed before the field names are used.
type DataSource string

const (
	DefaultSource DataSource = "default"
	ExcelSource   DataSource = "excel"
	MatlabSource  DataSource = "matlab"
)

const byteOrderMark = "\uFEFF"

// ParseDataSource validates a data source tag. An empty tag selects DefaultSource.
func ParseDataSource(tag string) (DataSource, error) {
	switch DataSource(strings.ToLower(tag)) {
	case "", DefaultSource:
		return DefaultSource, nil
	case ExcelSource:
		return ExcelSource, nil
	case MatlabSource:
		return MatlabSource, nil
	}
	return "", fmt.Errorf("unknown data source %q (expected default, excel or matlab)", tag)
}

// CleanHeader returns a copy of header with the quirk of the data source stripped from the
// first field name.
func (s DataSource) CleanHeader(header []string) []string {
	result := make([]string, len(header))
	copy(result, header)
	if len(result) == 0 {
		return result
	}
	switch s {
	case ExcelSource:
		result[0] = strings.TrimPrefix(result[0], byteOrderMark)
	case MatlabSource:
		result[0] = strings.TrimPrefix(result[0], "%")
	}
	return result
}

// FieldRoles partitions the source fields into input/output and numeric/categoric roles.
// All lists are sorted.
type FieldRoles struct {
	Input     []string
	Output    []string
	Numeric   []string
	Categoric []string
}

// IsCategoric reports whether field was declared categoric
func (r FieldRoles) IsCategoric(field string) bool {
	for _, c := range r.Categoric {
		if c == field {
			return true
		}
	}
	return false
}

// SchemaHints holds the caller supplied part of a schema
type SchemaHints struct {
	Categoric []string
	Output    []string
	Source    DataSource
}

// ResolveSchema derives the field roles of a header. The cleaned header is returned as the
// canonical source field order. A *MissingFieldError is returned alongside valid roles when
// declared fields are absent from the header; callers decide whether that is fatal.
func ResolveSchema(header []string, hints SchemaHints) ([]string, FieldRoles, error) {
	source := hints.Source.CleanHeader(header)
	sourceSet := NewSet(source...)
	categoric := dedupe(hints.Categoric)
	output := dedupe(hints.Output)

	roles := FieldRoles{
		Numeric:   NewSet(categoric...).Difference(source),
		Categoric: sortedCopy(categoric),
	}
	if len(output) > 0 {
		roles.Output = sortedCopy(output)
	} else if len(source) > 0 {
		roles.Output = []string{source[len(source)-1]}
	}
	roles.Input = NewSet(roles.Output...).Difference(source)

	missing := &MissingFieldError{
		Categoric: sourceSet.Difference(roles.Categoric),
		Output:    sourceSet.Difference(roles.Output),
	}
	if len(missing.Categoric) > 0 || len(missing.Output) > 0 {
		return source, roles, missing
	}
	return source, roles, nil
}

// Fingerprint hashes an ordered list of field names.
func Fingerprint(fields []string) uint64 {
	d := xxhash.New()
	for _, f := range fields {
		_, _ = d.WriteString(f)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
