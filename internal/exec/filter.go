// Package exec holds the execution-mode and dataset-id activation filters
// shared by preprocessing ops and traces.
package exec

import (
	"fmt"
	"strings"
)

// Standard execution modes of the surrounding pipeline.
const (
	ModeTrain = "train"
	ModeEval  = "eval"
	ModeTest  = "test"
	ModeInfer = "infer"
)

// Filter decides whether a component runs for a given mode or dataset id.
//
// A filter is built from specs: plain values allow only those values, values
// prefixed with "!" allow everything except those values, and an empty spec
// list allows everything. Mixing plain and negated specs is contradictory
// and rejected.
type Filter struct {
	allow map[string]bool
	deny  map[string]bool
}

// NewFilter builds a Filter from specs such as "eval", "test" or "!infer".
func NewFilter(specs ...string) (Filter, error) {
	f := Filter{}
	for _, spec := range specs {
		if negated, ok := strings.CutPrefix(spec, "!"); ok {
			if f.deny == nil {
				f.deny = make(map[string]bool)
			}
			f.deny[negated] = true
		} else {
			if f.allow == nil {
				f.allow = make(map[string]bool)
			}
			f.allow[spec] = true
		}
	}
	if f.allow != nil && f.deny != nil {
		return Filter{}, fmt.Errorf("filter specs %v mix allowed and negated values", specs)
	}
	return f, nil
}

// MustFilter is NewFilter that panics on a contradictory spec list.
// Intended for literal specs in component constructors.
func MustFilter(specs ...string) Filter {
	f, err := NewFilter(specs...)
	if err != nil {
		panic(err)
	}
	return f
}

// Accepts reports whether the value passes the filter.
func (f Filter) Accepts(v string) bool {
	if f.deny != nil {
		return !f.deny[v]
	}
	if f.allow != nil {
		return f.allow[v]
	}
	return true
}

// Everything reports whether the filter accepts all values.
func (f Filter) Everything() bool {
	return f.allow == nil && f.deny == nil
}
