package io

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"dataprep/pkg/model"
)

// LoadData reads a CSV data file. The first line is expected to be the header.
func LoadData(fileName string) (*DataSet, error) {
	inputFile, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()

	return ReadData(inputFile)
}

// ReadData parses CSV data from r. Every record must have as many fields as the header.
func ReadData(r io.Reader) (*DataSet, error) {
	reader := csv.NewReader(r)
	reader.Comma = ','

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("error reading data header: empty file")
		}
		return nil, fmt.Errorf("error reading data header: %w", err)
	}

	data := &DataSet{Header: header}
	for record, err := reader.Read(); err != io.EOF; record, err = reader.Read() {
		if err != nil {
			return nil, fmt.Errorf("error reading data: %w", err)
		}
		data.Records = append(data.Records, record)
	}
	return data, nil
}

// LoadMatrix reads a CSV file of real numbers, such as model predictions or sensitivities.
// A first line whose first cell is not a number is treated as a header and skipped.
func LoadMatrix(fileName string) ([][]float64, error) {
	inputFile, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()

	reader := csv.NewReader(inputFile)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading matrix: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		if _, err := model.ParseNumeric(records[0][0]); err != nil {
			records = records[1:]
		}
	}

	result := make([][]float64, len(records))
	for i, record := range records {
		row := make([]float64, len(record))
		for j, cell := range record {
			v, err := model.ParseNumeric(cell)
			if err != nil {
				return nil, fmt.Errorf("error parsing matrix value at row %d column %d: %w", i+1, j+1, err)
			}
			row[j] = v
		}
		result[i] = row
	}
	return result, nil
}

// FormatFloat renders a value with the shortest representation that reads back exactly
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatRows renders numeric rows as CSV records
func FormatRows(rows [][]float64) [][]string {
	result := make([][]string, len(rows))
	for i, row := range rows {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = FormatFloat(v)
		}
		result[i] = record
	}
	return result
}

// FormatMatrix renders a matrix as CSV records. When rowNames is not nil each record is
// prefixed with the name of its row.
func FormatMatrix(m mat.Matrix, rowNames []string) [][]string {
	r, c := m.Dims()
	result := make([][]string, r)
	for i := 0; i < r; i++ {
		record := make([]string, 0, c+1)
		if rowNames != nil {
			record = append(record, rowNames[i])
		}
		for j := 0; j < c; j++ {
			record = append(record, FormatFloat(m.At(i, j)))
		}
		result[i] = record
	}
	return result
}

// WriteTable writes a header and records to fileName. The file is written next to its final
// location and renamed into place once complete.
func WriteTable(fileName string, header []string, records [][]string) (err error) {
	tmp, err := os.CreateTemp(dirOf(fileName), ".dataprep-*")
	if err != nil {
		return fmt.Errorf("error creating output file %s: %w", fileName, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	writer := csv.NewWriter(tmp)
	if err = writer.Write(header); err != nil {
		return fmt.Errorf("error writing %s: %w", fileName, err)
	}
	if err = writer.WriteAll(records); err != nil {
		return fmt.Errorf("error writing %s: %w", fileName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", fileName, err)
	}
	if err = os.Rename(tmp.Name(), fileName); err != nil {
		return fmt.Errorf("error moving output file into place %s: %w", fileName, err)
	}
	return nil
}
