package io

import (
	"dataprep/pkg/model"
)

// DataSet holds a parsed CSV file: the header row and every data record.
type DataSet struct {
	Header  []string
	Records [][]string
}

// Index returns the mapping from header field name to column
func (d *DataSet) Index() model.FieldIndex {
	return model.NewFieldIndex(d.Header)
}

func (d *DataSet) Size() int {
	return len(d.Records)
}

// WithHeader returns a data set sharing the records of d under a different header, used once
// data source quirks have been stripped from the header.
func (d *DataSet) WithHeader(header []string) *DataSet {
	return &DataSet{Header: header, Records: d.Records}
}
