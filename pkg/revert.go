package pkg

import (
	"context"

	"dataprep/pkg/io"
	"dataprep/pkg/model"
)

// RevertPredictions converts a matrix of model predictions, one column per processed output
// field, back to the units of the original dataset.
func RevertPredictions(ctx context.Context, opts Options) error {
	rc, err := newRunContext(RevertPredictionsMode, opts, io.RevertedPredictionsSuffix, true)
	if err != nil {
		return err
	}
	m, err := loadMetadata(ctx, rc, false)
	if err != nil {
		return err
	}

	rows, err := io.LoadMatrix(rc.DataFile)
	if err != nil {
		return stageError("load predictions", err)
	}
	predictions, err := model.NewDense("prediction", rows)
	if err != nil {
		return stageError("load predictions", err)
	}

	outputs := m.params.ProcessedOutputFieldNames()
	reverted, err := model.RevertPredictions(predictions, outputs, m.factors)
	if err != nil {
		return stageError("revert predictions", err)
	}

	if err := io.WriteTable(rc.ProductFile, model.PredictionHeader(outputs), io.FormatMatrix(reverted, nil)); err != nil {
		return stageError("write predictions", err)
	}
	rc.Logger.Info().Str("product", rc.ProductFile).Int("rows", len(rows)).Msg("Reverted predictions")
	return nil
}

// RevertSensitivity converts a matrix of partial derivatives of scaled outputs with respect to
// scaled inputs, one row per processed input and one column per processed output, to the
// units of the original dataset.
func RevertSensitivity(ctx context.Context, opts Options) error {
	rc, err := newRunContext(RevertSensitivityMode, opts, io.RevertedSensitivitySuffix, true)
	if err != nil {
		return err
	}
	m, err := loadMetadata(ctx, rc, false)
	if err != nil {
		return err
	}

	rows, err := io.LoadMatrix(rc.DataFile)
	if err != nil {
		return stageError("load sensitivity", err)
	}
	raw, err := model.NewDense("sensitivity", rows)
	if err != nil {
		return stageError("load sensitivity", err)
	}

	outputs := m.params.ProcessedOutputFieldNames()
	reverted, inputs, err := model.RevertSensitivity(raw, m.params.ProcessedInputFieldNames(), outputs, m.factors)
	if err != nil {
		return stageError("revert sensitivity", err)
	}

	if err := io.WriteTable(rc.ProductFile, model.SensitivityHeader(outputs), io.FormatMatrix(reverted, inputs)); err != nil {
		return stageError("write sensitivity", err)
	}
	rc.Logger.Info().Str("product", rc.ProductFile).Int("inputs", len(inputs)).Msg("Reverted sensitivity")
	return nil
}
