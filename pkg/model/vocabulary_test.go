package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeDistinctValues(t *testing.T) {
	header := NewFieldIndex([]string{"i1", "i2", "o1", "c0"})
	records := [][]string{
		{"1", "A", "1", "z"},
		{"2", "B", "4", "y"},
		{"3", "A", "9", "z"},
	}

	values, err := ComputeDistinctValues(context.Background(), []string{"i2", "c0", "missing"}, header, records)
	require.NoError(t, err)
	require.Equal(t, []string{"c0", "i2"}, values.Fields)
	require.Equal(t, [][]string{{"y", "z"}, {"A", "B"}}, values.Values)

	vocabulary, ok := values.Vocabulary("i2")
	require.True(t, ok)
	require.Equal(t, []string{"A", "B"}, vocabulary)

	_, ok = values.Vocabulary("missing")
	require.False(t, ok)
}

func TestComputeDistinctValues_Empty(t *testing.T) {
	values, err := ComputeDistinctValues(context.Background(), []string{"i2"}, NewFieldIndex([]string{"i2"}), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"i2"}, values.Fields)

	vocabulary, ok := values.Vocabulary("i2")
	require.True(t, ok)
	require.Empty(t, vocabulary)
}
