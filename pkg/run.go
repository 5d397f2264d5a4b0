package pkg

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"dataprep/pkg/io"
	"dataprep/pkg/model"
	"dataprep/pkg/store"
)

// Run modes
const (
	InitialMode           = "initial"
	IncrementalMode       = "incremental"
	RevertPredictionsMode = "revertpredictions"
	RevertSensitivityMode = "revertsensitivity"
)

const defaultEncodingChunkSize = 1024

// Options are shared by every run mode
type Options struct {
	// DataFile is the dataset, or for reversal runs the matrix of model outputs
	DataFile string

	// MetadataFolder defaults to the folder of DataFile
	MetadataFolder string

	// DatasetName defaults to the base name of DataFile for initial runs and is inferred
	// from the metadata folder otherwise
	DatasetName string

	// ProductFile overrides the path of the main product file
	ProductFile string

	// Strict makes missing declared fields and schema drift fatal
	Strict bool

	// ChunkSize is the number of rows encoded per worker
	ChunkSize int
}

// InitialOptions configure a run that computes and stores the metadata of a dataset
type InitialOptions struct {
	Options
	Categoric []string
	Outputs   []string
	Source    string
}

// StageError reports the stage of a run that failed
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// RunContext describes one run and is passed by value to every stage. Its fields are
// resolved once by newRunContext and not reassigned afterwards.
type RunContext struct {
	Mode        string
	RunID       string
	DataFile    string
	DatasetName string
	ProductFile string
	Strict      bool
	ChunkSize   int
	Store       *store.Store
	Logger      zerolog.Logger
}

// newRunContext resolves the defaults of opts. When inferName is set and no dataset name was
// given, the name is taken from the single processing parameters file of the metadata folder.
func newRunContext(mode string, opts Options, productSuffix string, inferName bool) (RunContext, error) {
	if opts.DataFile == "" {
		return RunContext{}, stageError("configure", errors.New("no input file specified"))
	}
	rc := RunContext{
		Mode:        mode,
		RunID:       uuid.NewString(),
		DataFile:    opts.DataFile,
		DatasetName: opts.DatasetName,
		ProductFile: io.ProductFile(opts.ProductFile, opts.DataFile, productSuffix),
		Strict:      opts.Strict,
		ChunkSize:   opts.ChunkSize,
		Store:       store.New(io.MetadataFolder(opts.MetadataFolder, opts.DataFile)),
	}
	if rc.ChunkSize <= 0 {
		rc.ChunkSize = defaultEncodingChunkSize
	}

	if rc.DatasetName == "" {
		if inferName {
			name, err := rc.Store.FindDatasetName()
			if err != nil {
				return RunContext{}, stageError("dataset name", err)
			}
			rc.DatasetName = name
		} else {
			rc.DatasetName = io.BaseName(opts.DataFile)
		}
	}

	rc.Logger = log.With().
		Str("run", rc.RunID).
		Str("mode", mode).
		Str("dataset", rc.DatasetName).
		Logger()
	return rc, nil
}

// validate applies the validation policy to the result of a schema check: missing declared
// fields and schema drift are logged, and only returned when the run is strict.
func (rc RunContext) validate(err error) error {
	if err == nil {
		return nil
	}

	var missing *model.MissingFieldError
	var drift *model.SchemaDriftError
	switch {
	case errors.As(err, &missing):
		rc.Logger.Warn().
			Strs("categoric", missing.Categoric).
			Strs("output", missing.Output).
			Msg("Declared fields missing from data header")
	case errors.As(err, &drift):
		rc.Logger.Warn().
			Strs("extra", drift.Extra).
			Strs("missing", drift.Missing).
			Msg("Data header differs from canonical source fields")
	default:
		return err
	}

	if rc.Strict {
		return err
	}
	return nil
}
