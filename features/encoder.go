package features

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrUnseenCategory is returned when a value was not present when the encoder was fit.
var ErrUnseenCategory = errors.New("unseen category")

// Encoder maps the distinct values of one categorical column to integer codes.
// Codes follow the sorted order of the values seen at fit time.
type Encoder struct {
	Column  string   `json:"column" yaml:"column"`
	Classes []string `json:"classes" yaml:"classes"`
}

// FitEncoder builds the code table for values.
func FitEncoder(column string, values []string) *Encoder {
	classes := slices.Clone(values)
	slices.Sort(classes)
	return &Encoder{Column: column, Classes: slices.Compact(classes)}
}

// Code returns the code of v.
func (e *Encoder) Code(v string) (int, error) {
	i := sort.SearchStrings(e.Classes, v)
	if i < len(e.Classes) && e.Classes[i] == v {
		return i, nil
	}
	return 0, fmt.Errorf("%s=%q: %w", e.Column, v, ErrUnseenCategory)
}
