// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package results

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jinterlante1206/benchmatrix/pkg/catalog"
)

// ErrUnpairedFlag reports a command-line string whose tokens cannot be
// grouped into (flag, value) pairs. The matcher requires strict pairing; a
// trailing boolean switch would otherwise be silently mispaired with the
// next flag.
var ErrUnpairedFlag = errors.New("argument string has an unpaired trailing flag")

// flagPair is one (flag, value) pair from a benchmark command line.
type flagPair struct {
	Flag  string
	Value string
}

// flagSet is the set of flag-value pairs of one command line.
type flagSet map[flagPair]struct{}

// parseFlagSet splits a command-line string on whitespace and pairs
// consecutive tokens. An odd token count is an error, never a mispairing.
func parseFlagSet(argsLine string) (flagSet, error) {
	tokens := strings.Fields(argsLine)
	if len(tokens)%2 != 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnpairedFlag, argsLine)
	}
	set := make(flagSet, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		set[flagPair{Flag: tokens[i], Value: tokens[i+1]}] = struct{}{}
	}
	return set, nil
}

// subsetOf reports whether every pair in s is also in other.
func (s flagSet) subsetOf(other flagSet) bool {
	for pair := range s {
		if _, ok := other[pair]; !ok {
			return false
		}
	}
	return true
}

// Strategy selects how a query's flag-set is compared against a record's.
type Strategy int

const (
	// MatchSubset accepts a record whose invocation used at least the
	// query's flags. One broad benchmark run can then satisfy many narrower
	// queries without re-running, at a small risk of over-matching.
	MatchSubset Strategy = iota

	// MatchExact accepts only records invoked with exactly the query's
	// flags.
	MatchExact
)

// ParseStrategy maps a user-facing strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "subset":
		return MatchSubset, nil
	case "exact":
		return MatchExact, nil
	default:
		return 0, fmt.Errorf("unknown match strategy %q (want subset or exact)", name)
	}
}

// String returns the user-facing strategy name.
func (s Strategy) String() string {
	switch s {
	case MatchSubset:
		return "subset"
	case MatchExact:
		return "exact"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// matches applies the strategy to a query and record flag-set.
func (s Strategy) matches(query, record flagSet) bool {
	switch s {
	case MatchExact:
		return len(query) == len(record) && query.subsetOf(record)
	default:
		return query.subsetOf(record)
	}
}

// Query identifies the slice of the result pool one series is built from.
type Query struct {
	ArgSpec  string
	Key      string
	Value    string
	Stat     string
	Strategy Strategy
}

// MatchStat answers a query against a gathered record pool.
//
// The query's argument-spec name is resolved through the catalog and its
// command line is parsed into a flag-set. A record matches when its key and
// value equal the query's and its own flag-set satisfies the strategy.
// Every match contributes its table name to Xs and its statistic value to
// Ys; matches are sorted by table name so the series is deterministic
// regardless of gather order.
//
// A matched record that lacks the queried statistic is an error, not a
// silent omission. If name or units differ across matches, the last match
// in table order wins.
func MatchStat(records []Record, cat *catalog.Catalog, q Query) (*Series, error) {
	cmdline, err := cat.ArgSpec(q.ArgSpec)
	if err != nil {
		return nil, err
	}
	querySet, err := parseFlagSet(cmdline)
	if err != nil {
		return nil, fmt.Errorf("argument spec %q: %w", q.ArgSpec, err)
	}

	var matched []Record
	for _, rec := range records {
		if rec.Key != q.Key || rec.Value != q.Value {
			continue
		}
		recordSet, err := parseFlagSet(rec.Args)
		if err != nil {
			return nil, fmt.Errorf("result file %s: %w", rec.SourceFile, err)
		}
		if q.Strategy.matches(querySet, recordSet) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Table < matched[j].Table
	})

	series := &Series{
		XAxis: "Table Type",
		Xs:    make([]string, 0, len(matched)),
		Ys:    make([]float64, 0, len(matched)),
	}
	for _, rec := range matched {
		stat, ok := rec.Output[q.Stat]
		if !ok {
			return nil, fmt.Errorf("result file %s has no statistic %q",
				rec.SourceFile, q.Stat)
		}
		series.Xs = append(series.Xs, rec.Table)
		series.Ys = append(series.Ys, stat.Value)
		series.YAxis = fmt.Sprintf("%s (%s)", stat.Name, stat.Units)
	}
	return series, nil
}
