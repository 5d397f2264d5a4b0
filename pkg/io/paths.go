package io

import (
	"path/filepath"
	"strings"
)

// Suffixes of the product files written next to an input file
const (
	ProcessedSuffix           = "processed"
	DescriptionSuffix         = "dataset_description"
	RevertedPredictionsSuffix = "reverted_predictions"
	RevertedSensitivitySuffix = "reverted_sensitivity"
)

func dirOf(fileName string) string {
	return filepath.Dir(fileName)
}

// BaseName returns the file name of path without directory and extension
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MetadataFolder returns folder, or the folder containing inputFile when folder is empty.
func MetadataFolder(folder, inputFile string) string {
	if folder != "" {
		return folder
	}
	return dirOf(inputFile)
}

// ProductFile returns override when set, otherwise <input folder>/<input base>_<suffix>.csv
func ProductFile(override, inputFile, suffix string) string {
	if override != "" {
		return override
	}
	return filepath.Join(dirOf(inputFile), BaseName(inputFile)+"_"+suffix+".csv")
}
