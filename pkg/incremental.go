package pkg

import (
	"context"

	"golang.org/x/sync/errgroup"

	"dataprep/pkg/io"
	"dataprep/pkg/model"
	"dataprep/pkg/store"
)

// metadata groups the artifacts an initial run stores for a dataset
type metadata struct {
	params  *model.ProcessingParameters
	factors model.ScalingFactors
	values  model.DistinctValues
}

// loadMetadata reads the artifacts of the run's dataset concurrently. withValues is false for
// runs that only need the scaling factors.
func loadMetadata(ctx context.Context, rc RunContext, withValues bool) (metadata, error) {
	var m metadata
	var params model.ProcessingParameters
	var factors model.ScalingFactors
	var values model.DistinctValues

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rc.Store.Load(rc.DatasetName, store.ProcessingParameters, &params)
	})
	g.Go(func() error {
		return rc.Store.Load(rc.DatasetName, store.ScalingFactors, &factors)
	})
	if withValues {
		g.Go(func() error {
			return rc.Store.Load(rc.DatasetName, store.DistinctValues, &values)
		})
	}
	if err := g.Wait(); err != nil {
		return m, stageError("load metadata", err)
	}

	m.params = &params
	m.factors = model.NewScalingFactors(factors.Fields, factors.Factors)
	m.values = model.NewDistinctValues(values.Fields, values.Values)
	return m, nil
}

// Incremental encodes a new dataset with the metadata stored by the initial run of the same
// dataset. The metadata is not modified.
func Incremental(ctx context.Context, opts Options) error {
	rc, err := newRunContext(IncrementalMode, opts, io.ProcessedSuffix, true)
	if err != nil {
		return err
	}

	m, err := loadMetadata(ctx, rc, true)
	if err != nil {
		return err
	}

	rc.Logger.Info().Str("file", rc.DataFile).Msg("Loading data")
	data, err := io.LoadData(rc.DataFile)
	if err != nil {
		return stageError("load data", err)
	}

	data = data.WithHeader(m.params.Source.CleanHeader(data.Header))
	if err := rc.validate(m.params.CheckSchema(data.Header)); err != nil {
		return stageError("check schema", err)
	}

	if err := encodeAndWrite(ctx, rc, m.params, m.factors, m.values, data); err != nil {
		return err
	}
	rc.Logger.Info().Int("observations", data.Size()).Msg("Incremental run complete")
	return nil
}
