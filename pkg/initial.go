package pkg

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"dataprep/pkg/io"
	"dataprep/pkg/model"
	"dataprep/pkg/store"
)

// Initial computes the scaling factors, vocabularies and processing parameters of a dataset,
// writes its encoded form and description, and stores the metadata for later runs.
func Initial(ctx context.Context, opts InitialOptions) error {
	source, err := model.ParseDataSource(opts.Source)
	if err != nil {
		return stageError("configure", err)
	}
	rc, err := newRunContext(InitialMode, opts.Options, io.ProcessedSuffix, false)
	if err != nil {
		return err
	}
	rc.Logger.Info().Str("file", rc.DataFile).Msg("Loading data")

	data, err := io.LoadData(rc.DataFile)
	if err != nil {
		return stageError("load data", err)
	}

	sourceFields, roles, err := model.ResolveSchema(data.Header, model.SchemaHints{
		Categoric: opts.Categoric,
		Output:    opts.Outputs,
		Source:    source,
	})
	if err := rc.validate(err); err != nil {
		return stageError("resolve schema", err)
	}
	data = data.WithHeader(sourceFields)
	rc.Logger.Debug().
		Strs("input", roles.Input).
		Strs("output", roles.Output).
		Strs("numeric", roles.Numeric).
		Strs("categoric", roles.Categoric).
		Msg("Resolved field roles")

	var factors model.ScalingFactors
	var values model.DistinctValues
	index := data.Index()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		factors, err = model.ComputeScalingFactors(gctx, roles.Numeric, index, data.Records)
		return err
	})
	g.Go(func() error {
		var err error
		values, err = model.ComputeDistinctValues(gctx, roles.Categoric, index, data.Records)
		return err
	})
	if err := g.Wait(); err != nil {
		return stageError("analyze data", err)
	}

	params := model.NewProcessingParameters(rc.DatasetName, source, sourceFields, roles, values)
	if err := encodeAndWrite(ctx, rc, params, factors, values, data); err != nil {
		return err
	}

	if err := saveMetadata(rc, params, factors, values); err != nil {
		return stageError("store metadata", err)
	}
	rc.Logger.Info().
		Int("observations", data.Size()).
		Int("scaled", factors.Size()).
		Int("encoded", values.Size()).
		Str("metadata", rc.Store.Folder).
		Msg("Initial run complete")
	return nil
}

func saveMetadata(rc RunContext, params *model.ProcessingParameters, factors model.ScalingFactors, values model.DistinctValues) error {
	if err := rc.Store.Save(rc.DatasetName, store.ScalingFactors, factors.Sorted()); err != nil {
		return err
	}
	if err := rc.Store.Save(rc.DatasetName, store.DistinctValues, values); err != nil {
		return err
	}
	return rc.Store.Save(rc.DatasetName, store.ProcessingParameters, params)
}

// encodeAndWrite encodes data and writes the processed and description product files.
func encodeAndWrite(ctx context.Context, rc RunContext, params *model.ProcessingParameters, factors model.ScalingFactors, values model.DistinctValues, data *io.DataSet) error {
	encoder := model.NewEncoder(params, factors, values, data.Header)
	rows, err := encoder.EncodeAll(ctx, data.Records, rc.ChunkSize)
	if err != nil {
		return stageError("encode data", err)
	}

	if err := io.WriteTable(rc.ProductFile, encoder.Header(), io.FormatRows(rows)); err != nil {
		return stageError("write processed data", err)
	}

	descriptionFile := io.ProductFile("", rc.DataFile, io.DescriptionSuffix)
	description := []string{
		strconv.Itoa(len(rows)),
		strconv.Itoa(len(params.ProcessedInputFieldNames())),
		strconv.Itoa(len(params.ProcessedOutputFieldNames())),
	}
	if err := io.WriteTable(descriptionFile, descriptionHeader, [][]string{description}); err != nil {
		return stageError("write dataset description", err)
	}
	rc.Logger.Info().
		Str("processed", rc.ProductFile).
		Str("description", descriptionFile).
		Int("rows", len(rows)).
		Int("columns", encoder.Width()).
		Msg("Wrote encoded data")
	return nil
}

var descriptionHeader = []string{"observations", "input_columns", "output_columns"}
