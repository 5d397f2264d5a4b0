package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

var testHeader = []string{"i1", "i2", "o1"}

var testRecords = [][]string{
	{"1", "A", "1"},
	{"2", "B", "4"},
	{"3", "A", "9"},
}

func newTestEncoder(t *testing.T, header []string) (*ProcessingParameters, *Encoder) {
	t.Helper()
	source, roles, err := ResolveSchema(testHeader, SchemaHints{Categoric: []string{"i2"}})
	require.NoError(t, err)

	ctx := context.Background()
	index := NewFieldIndex(source)
	factors, err := ComputeScalingFactors(ctx, roles.Numeric, index, testRecords)
	require.NoError(t, err)
	values, err := ComputeDistinctValues(ctx, roles.Categoric, index, testRecords)
	require.NoError(t, err)

	params := NewProcessingParameters("test", DefaultSource, source, roles, values)
	return params, NewEncoder(params, factors, values, header)
}

func TestOneHot(t *testing.T) {
	vocabulary := []string{"A", "B", "C"}
	require.Equal(t, []float64{0, 1, 0}, OneHot(vocabulary, "B"))
	require.Equal(t, []float64{1, 0, 0}, OneHot(vocabulary, "A"))
	require.Equal(t, []float64{0, 0, 0}, OneHot(vocabulary, "D"))
	require.Equal(t, []float64{}, OneHot(nil, "A"))
}

func TestEncoder_EncodeAll(t *testing.T) {
	params, encoder := newTestEncoder(t, testHeader)
	require.Equal(t, []string{"i1", "i2__A", "i2__B", "bias", "o1"}, encoder.Header())
	require.Equal(t, params.ProcessedFields, encoder.Header())

	rows, err := encoder.EncodeAll(context.Background(), testRecords, 2)
	require.NoError(t, err)
	require.Equal(t, 3, len(rows))

	expected := [][]float64{
		{1.0 / 3, 1, 0, 1, 1.0 / 9},
		{2.0 / 3, 0, 1, 1, 4.0 / 9},
		{1, 1, 0, 1, 1},
	}
	for i := range expected {
		require.InDeltaSlice(t, expected[i], rows[i], 1e-12)
	}
}

func TestEncoder_UnknownCategory(t *testing.T) {
	_, encoder := newTestEncoder(t, testHeader)
	row, err := encoder.EncodeRow([]string{"3", "Z", "0"}, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 0, 1, 0}, row)
}

func TestEncoder_ReorderedAndMissingColumns(t *testing.T) {
	// o1 is absent and an unknown column is present; i2 moved to the front
	_, encoder := newTestEncoder(t, []string{"i2", "extra", "i1"})
	row, err := encoder.EncodeRow([]string{"B", "whatever", "1.5"}, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 0, 1, BiasValue, BiasValue}, row)
}

func TestEncoder_NumericParseError(t *testing.T) {
	_, encoder := newTestEncoder(t, testHeader)

	for _, value := range []string{"n/a", "NaN", "+Inf", "infinity"} {
		t.Run(value, func(t *testing.T) {
			_, err := encoder.EncodeAll(context.Background(), [][]string{{"1", "A", "1"}, {"1", "A", value}}, 1)
			require.Error(t, err)

			var parseErr *NumericParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, "o1", parseErr.Field)
			require.Equal(t, 2, parseErr.Line)
			require.Equal(t, value, parseErr.Value)
		})
	}
}

func TestEncodeRevertRoundTrip(t *testing.T) {
	params, encoder := newTestEncoder(t, testHeader)
	rows, err := encoder.EncodeAll(context.Background(), testRecords, 0)
	require.NoError(t, err)

	outputs := params.ProcessedOutputFieldNames()
	column := len(params.ProcessedFields) - 1
	predictions := make([][]float64, len(rows))
	for i, r := range rows {
		predictions[i] = []float64{r[column]}
	}
	m, err := NewDense("prediction", predictions)
	require.NoError(t, err)

	factors := NewScalingFactors([]string{"i1", "o1"}, []float64{3, 9})
	reverted, err := RevertPredictions(m, outputs, factors)
	require.NoError(t, err)
	for i, record := range testRecords {
		v, err := ParseNumeric(record[2])
		require.NoError(t, err)
		require.InDelta(t, v, reverted.At(i, 0), 1e-12)
	}
}
