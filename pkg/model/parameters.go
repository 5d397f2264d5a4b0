package model

import (
	"time"
)

// BiasField is the marker column separating encoded inputs from encoded outputs.
const BiasField = "bias"

// BiasValue fills the bias column and any canonical column without a source cell.
const BiasValue = 1.0

// DummySeparator joins a categoric field name and one of its values into a dummy column name
const DummySeparator = "__"

// ProcessingParameters is the record persisted by an initial run that every later run against
// the same dataset must reload unmodified.
type ProcessingParameters struct {
	DatasetName string
	Source      DataSource

	// SourceFields is the canonical source header recorded at initial time
	SourceFields []string

	// SourceFingerprint is the Fingerprint of SourceFields
	SourceFingerprint uint64

	Roles FieldRoles

	// ProcessedFields is the column layout of an encoded row
	ProcessedFields []string

	CreatedAt time.Time
}

// DummyField names the dummy column of a categoric value
func DummyField(field, value string) string {
	return field + DummySeparator + value
}

// ExpandFields flattens fields into encoded column names: a numeric field keeps its name and
// a categoric field expands into one dummy column per vocabulary entry. Categoric fields
// without a vocabulary expand to nothing.
func ExpandFields(fields []string, roles FieldRoles, vocabularies DistinctValues) []string {
	var result []string
	for _, field := range fields {
		if !roles.IsCategoric(field) {
			result = append(result, field)
			continue
		}
		vocabulary, _ := vocabularies.Vocabulary(field)
		for _, value := range vocabulary {
			result = append(result, DummyField(field, value))
		}
	}
	return result
}

// NewProcessingParameters assembles the parameters of a dataset from its resolved schema and
// vocabularies.
func NewProcessingParameters(datasetName string, source DataSource, sourceFields []string, roles FieldRoles, vocabularies DistinctValues) *ProcessingParameters {
	processed := ExpandFields(roles.Input, roles, vocabularies)
	processed = append(processed, BiasField)
	processed = append(processed, ExpandFields(roles.Output, roles, vocabularies)...)

	return &ProcessingParameters{
		DatasetName:       datasetName,
		Source:            source,
		SourceFields:      sourceFields,
		SourceFingerprint: Fingerprint(sourceFields),
		Roles:             roles,
		ProcessedFields:   processed,
		CreatedAt:         time.Now().UTC(),
	}
}

// ProcessedInputFieldNames returns the processed fields up to and including the bias marker.
func (p *ProcessingParameters) ProcessedInputFieldNames() []string {
	return ProcessedInputFieldNames(p.ProcessedFields)
}

// ProcessedOutputFieldNames returns the processed fields after the bias marker.
func (p *ProcessingParameters) ProcessedOutputFieldNames() []string {
	return ProcessedOutputFieldNames(p.ProcessedFields)
}

func ProcessedInputFieldNames(processed []string) []string {
	for i, f := range processed {
		if f == BiasField {
			return processed[:i+1]
		}
	}
	return processed
}

func ProcessedOutputFieldNames(processed []string) []string {
	for i, f := range processed {
		if f == BiasField {
			return processed[i+1:]
		}
	}
	return nil
}

// CheckSchema compares header with the canonical source fields. It returns a *SchemaDriftError
// listing extra and missing fields when they differ as sets.
func (p *ProcessingParameters) CheckSchema(header []string) error {
	if Fingerprint(header) == p.SourceFingerprint {
		return nil
	}
	extra := NewSet(p.SourceFields...).Difference(header)
	missing := NewSet(header...).Difference(p.SourceFields)
	if len(extra) == 0 && len(missing) == 0 {
		return nil
	}
	return &SchemaDriftError{Extra: extra, Missing: missing}
}
