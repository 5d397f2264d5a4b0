package store

import (
	"fmt"
	"strings"
)

// NotFoundError is returned by Load when an artifact file does not exist.
type NotFoundError struct {
	File string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("metadata file %s not found", e.File)
}

// DecryptionError is returned when an artifact cannot be authenticated with the store
// passphrase, either because it was written with another passphrase or it was altered.
type DecryptionError struct {
	File string
	Err  error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("unable to decrypt metadata file %s: %s", e.File, e.Err)
}

func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// FormatError is returned for files that are not metadata artifacts
type FormatError struct {
	File   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid metadata file %s: %s", e.File, e.Reason)
}

// AmbiguousDatasetNameError is returned when a dataset name cannot be inferred from a
// metadata folder because zero or several processing parameter files are present.
type AmbiguousDatasetNameError struct {
	Folder  string
	Matches []string
}

func (e *AmbiguousDatasetNameError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("no processing parameters found in %s, specify the metadata folder or dataset name", e.Folder)
	}
	return fmt.Sprintf("several datasets found in %s (%s), specify the dataset name", e.Folder, strings.Join(e.Matches, ", "))
}
