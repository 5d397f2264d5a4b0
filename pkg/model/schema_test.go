package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveSchema(t *testing.T) {

	tests := []struct {
		name      string
		header    []string
		hints     SchemaHints
		source    []string
		input     []string
		output    []string
		numeric   []string
		categoric []string
	}{
		{
			name:      "default output is rightmost field",
			header:    []string{"i2", "i1", "o1"},
			hints:     SchemaHints{Categoric: []string{"i2"}},
			source:    []string{"i2", "i1", "o1"},
			input:     []string{"i1", "i2"},
			output:    []string{"o1"},
			numeric:   []string{"i1", "o1"},
			categoric: []string{"i2"},
		},
		{
			name:      "declared outputs are sorted",
			header:    []string{"x", "o2", "o1", "c"},
			hints:     SchemaHints{Categoric: []string{"c", "o2"}, Output: []string{"o2", "o1"}},
			source:    []string{"x", "o2", "o1", "c"},
			input:     []string{"c", "x"},
			output:    []string{"o1", "o2"},
			numeric:   []string{"o1", "x"},
			categoric: []string{"c", "o2"},
		},
		{
			name:      "excel byte order mark",
			header:    []string{"\uFEFFa", "b"},
			hints:     SchemaHints{Source: ExcelSource},
			source:    []string{"a", "b"},
			input:     []string{"a"},
			output:    []string{"b"},
			numeric:   []string{"a", "b"},
			categoric: []string{},
		},
		{
			name:      "matlab comment marker",
			header:    []string{"%a", "b"},
			hints:     SchemaHints{Source: MatlabSource},
			source:    []string{"a", "b"},
			input:     []string{"a"},
			output:    []string{"b"},
			numeric:   []string{"a", "b"},
			categoric: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, roles, err := ResolveSchema(tt.header, tt.hints)
			require.NoError(t, err)
			require.Equal(t, tt.source, source)
			require.Equal(t, tt.input, roles.Input)
			require.Equal(t, tt.output, roles.Output)
			require.Equal(t, tt.numeric, roles.Numeric)
			require.Equal(t, tt.categoric, roles.Categoric)
		})
	}
}

func TestResolveSchema_MissingFields(t *testing.T) {
	header := []string{"a", "b", "c"}
	source, roles, err := ResolveSchema(header, SchemaHints{
		Categoric: []string{"b", "nope"},
		Output:    []string{"c", "gone"},
	})
	require.Error(t, err)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{"nope"}, missing.Categoric)
	require.Equal(t, []string{"gone"}, missing.Output)
	require.Contains(t, err.Error(), "nope")
	require.Contains(t, err.Error(), "gone")

	// roles are still usable
	require.Equal(t, header, source)
	require.Equal(t, []string{"a", "c"}, roles.Numeric)
	require.Equal(t, []string{"a", "b"}, roles.Input)
}

func TestParseDataSource(t *testing.T) {
	s, err := ParseDataSource("")
	require.NoError(t, err)
	require.Equal(t, DefaultSource, s)

	s, err = ParseDataSource("Excel")
	require.NoError(t, err)
	require.Equal(t, ExcelSource, s)

	_, err = ParseDataSource("lotus123")
	require.Error(t, err)
}
