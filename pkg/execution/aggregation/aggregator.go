// Package aggregation computes grouped and ungrouped aggregates (MIN, MAX,
// SUM, AVG, COUNT) over a tuple stream. An Aggregator accumulates one group
// at a time as tuples are merged in, then hands back a materialized iterator
// over the finished groups.
package aggregation

import (
	"storemy/pkg/iterator"
	"storemy/pkg/tuple"
	"storemy/pkg/types"
)

// AggregateOp identifies which aggregate function an Aggregator computes.
type AggregateOp int

const (
	Min AggregateOp = iota
	Max
	Sum
	Avg
	Count
)

func (op AggregateOp) String() string {
	switch op {
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	case Sum:
		return "SUM"
	case Avg:
		return "AVG"
	case Count:
		return "COUNT"
	default:
		return "UNKNOWN"
	}
}

// NoGrouping marks an Aggregator as computing a single, ungrouped result.
const NoGrouping = -1

// Aggregator accumulates tuples into per-group results. Merge is called once
// per source tuple; once the source is exhausted, Iterator streams one
// result tuple per group (or a single tuple when there is no grouping).
type Aggregator interface {
	Merge(tup *tuple.Tuple) error
	Iterator() iterator.DbIterator
	GetTupleDesc() *tuple.TupleDescription
}

// groupAggregator is the superset AggregatorIterator needs to walk an
// Aggregator's finished groups in a type-correct way: the group field is
// carried as the original types.Field rather than its string key, so the
// output tuple's group column keeps the grouping field's real type.
type groupAggregator interface {
	Aggregator
	RLock()
	RUnlock()
	GetGroups() []string
	GetGroupField(groupKey string) (types.Field, bool)
	GetAggregateValue(groupKey string) (types.Field, error)
	GetGroupingField() int
}
