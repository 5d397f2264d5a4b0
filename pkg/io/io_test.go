package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fileName := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0o644))
	return fileName
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	fileName := writeFile(t, dir, "data.csv", "i1,i2,o1\n1,A,1\n2,B,4\n3,C,9\n")

	data, err := LoadData(fileName)
	require.NoError(t, err)
	require.Equal(t, []string{"i1", "i2", "o1"}, data.Header)
	require.Equal(t, 3, data.Size())
	require.Equal(t, []string{"2", "B", "4"}, data.Records[1])

	col, ok := data.Index().Lookup("o1")
	require.True(t, ok)
	require.Equal(t, 2, col)
}

func TestLoadData_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadData(filepath.Join(dir, "absent.csv"))
	require.Error(t, err)

	_, err = LoadData(writeFile(t, dir, "empty.csv", ""))
	require.Error(t, err)

	_, err = LoadData(writeFile(t, dir, "ragged.csv", "a,b\n1,2\n3\n"))
	require.Error(t, err)
}

func TestReadData_HeaderOnly(t *testing.T) {
	data, err := ReadData(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	require.Equal(t, 0, data.Size())
}

func TestLoadMatrix(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadMatrix(writeFile(t, dir, "plain.csv", "0.5,1\n-2,3e2\n"))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0.5, 1}, {-2, 300}}, m)

	m, err = LoadMatrix(writeFile(t, dir, "header.csv", "o1,o2\n1,2\n"))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2}}, m)

	_, err = LoadMatrix(writeFile(t, dir, "bad.csv", "1,2\n3,x\n"))
	require.Error(t, err)
}

func TestWriteTable(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "out.csv")

	records := FormatMatrix(mat.NewDense(2, 2, []float64{1, 0.25, -3, 41}), []string{"a", "b"})
	require.NoError(t, WriteTable(fileName, []string{"Processed Input", "o Sensitivity"}, records))

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	require.Equal(t, "Processed Input,o Sensitivity\na,1,0.25\nb,-3,41\n", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Equal(t, 1, len(entries))
}

func TestFormatRows(t *testing.T) {
	require.Equal(t, [][]string{{"0.3333333333333333", "1", "0"}}, FormatRows([][]float64{{1.0 / 3, 1, 0}}))
}

func TestProductFile(t *testing.T) {
	require.Equal(t, filepath.Join("data", "iris_processed.csv"), ProductFile("", filepath.Join("data", "iris.csv"), ProcessedSuffix))
	require.Equal(t, "explicit.csv", ProductFile("explicit.csv", "iris.csv", ProcessedSuffix))
	require.Equal(t, "meta", MetadataFolder("meta", "data/iris.csv"))
	require.Equal(t, "data", MetadataFolder("", "data/iris.csv"))
	require.Equal(t, "iris.train", BaseName("/tmp/x/iris.train.csv"))
}
