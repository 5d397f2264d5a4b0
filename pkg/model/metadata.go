package model

import "sort"

// FieldIndex maps a field name to its column index
type FieldIndex struct {
	NameToIndex map[string]int
}

// NewFieldIndex builds the index of an ordered list of field names. When a name occurs more
// than once the first occurrence wins.
func NewFieldIndex(names []string) FieldIndex {
	f := FieldIndex{
		NameToIndex: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, ok := f.NameToIndex[name]; ok {
			continue
		}
		f.NameToIndex[name] = i
	}
	return f
}

func (f FieldIndex) Size() int {
	return len(f.NameToIndex)
}

// Lookup returns the column index for name
func (f FieldIndex) Lookup(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok
}

type void struct{}

var Void = void{}

// Set is an unordered collection of field names
type Set map[string]void

func NewSet(values ...string) Set {
	set := Set{}
	for _, val := range values {
		set[val] = Void
	}
	return set
}

func (s Set) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

// Difference returns the sorted elements of values that are not in s.
func (s Set) Difference(values []string) []string {
	var result []string
	for _, v := range values {
		if !s.Contains(v) {
			result = append(result, v)
		}
	}
	sort.Strings(result)
	return result
}

// sortedCopy returns a sorted copy of names, leaving the argument untouched.
func sortedCopy(names []string) []string {
	result := make([]string, len(names))
	copy(result, names)
	sort.Strings(result)
	return result
}

// dedupe removes repeated names while keeping the first occurrence order
func dedupe(names []string) []string {
	seen := NewSet()
	result := make([]string, 0, len(names))
	for _, name := range names {
		if seen.Contains(name) {
			continue
		}
		seen[name] = Void
		result = append(result, name)
	}
	return result
}
