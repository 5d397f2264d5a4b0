package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ProcessedInputHeader is the label of the row name column of a reverted sensitivity table
const ProcessedInputHeader = "Processed Input"

// NewDense converts a rectangular, non-empty list of rows into a dense matrix
func NewDense(what string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &ShapeError{What: what, Expected: "a non-empty matrix", Rows: len(rows)}
	}
	columns := len(rows[0])
	data := make([]float64, 0, len(rows)*columns)
	for i, r := range rows {
		if len(r) != columns {
			return nil, fmt.Errorf("%s matrix row %d has %d columns, expected %d", what, i+1, len(r), columns)
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), columns, data), nil
}

// RevertPredictions multiplies each column of predictions by the scaling factor of the
// processed output field at the same position. Columns without a factor, such as dummy
// columns of categoric outputs, are copied unchanged.
func RevertPredictions(predictions mat.Matrix, outputs []string, factors ScalingFactors) (*mat.Dense, error) {
	r, c := predictions.Dims()
	if c != len(outputs) || len(outputs) == 0 {
		return nil, &ShapeError{
			What:     "prediction",
			Expected: fmt.Sprintf("%d columns (one per processed output)", len(outputs)),
			Rows:     r,
			Columns:  c,
		}
	}

	scale := make([]float64, len(outputs))
	for j, name := range outputs {
		scale[j] = factors.FactorOrOne(name)
	}

	var result mat.Dense
	result.Mul(predictions, mat.NewDiagDense(len(scale), scale))
	return &result, nil
}

// PredictionHeader returns the header of a reverted prediction table
func PredictionHeader(outputs []string) []string {
	header := make([]string, len(outputs))
	for i, o := range outputs {
		header[i] = "Predicted " + o
	}
	return header
}

// RevertSensitivity applies the chain rule to partial derivatives of scaled outputs with
// respect to scaled inputs:
//
//	true[i][j] = raw[i][j] * factor(outputs[j]) / factor(inputs[i])
//
// where fields without a scaling factor use 1. inputs are the processed input fields including
// the bias marker; raw may either contain a row for bias or omit it. The returned matrix and
// row names exclude the bias row.
func RevertSensitivity(raw mat.Matrix, inputs, outputs []string, factors ScalingFactors) (*mat.Dense, []string, error) {
	r, c := raw.Dims()

	biasRow := -1
	var rowNames []string
	for i, name := range inputs {
		if name == BiasField {
			biasRow = i
			continue
		}
		rowNames = append(rowNames, name)
	}

	shapeErr := &ShapeError{
		What:     "sensitivity",
		Expected: fmt.Sprintf("%d or %d rows and %d columns", len(inputs), len(rowNames), len(outputs)),
		Rows:     r,
		Columns:  c,
	}
	if c != len(outputs) || len(outputs) == 0 || len(rowNames) == 0 {
		return nil, nil, shapeErr
	}

	var source mat.Matrix
	switch {
	case r == len(rowNames):
		source = raw
	case r == len(inputs) && biasRow >= 0:
		source = withoutRow(raw, biasRow)
	default:
		return nil, nil, shapeErr
	}

	inverseInput := make([]float64, len(rowNames))
	for i, name := range rowNames {
		inverseInput[i] = 1 / factors.FactorOrOne(name)
	}
	outputScale := make([]float64, len(outputs))
	for j, name := range outputs {
		outputScale[j] = factors.FactorOrOne(name)
	}

	var scaled, result mat.Dense
	scaled.Mul(mat.NewDiagDense(len(inverseInput), inverseInput), source)
	result.Mul(&scaled, mat.NewDiagDense(len(outputScale), outputScale))
	return &result, rowNames, nil
}

// SensitivityHeader returns the header of a reverted sensitivity table
func SensitivityHeader(outputs []string) []string {
	header := make([]string, 0, len(outputs)+1)
	header = append(header, ProcessedInputHeader)
	for _, o := range outputs {
		header = append(header, o+" Sensitivity")
	}
	return header
}

func withoutRow(m mat.Matrix, skip int) *mat.Dense {
	r, c := m.Dims()
	result := mat.NewDense(r-1, c, nil)
	dst := 0
	for i := 0; i < r; i++ {
		if i == skip {
			continue
		}
		for j := 0; j < c; j++ {
			result.Set(dst, j, m.At(i, j))
		}
		dst++
	}
	return result
}
