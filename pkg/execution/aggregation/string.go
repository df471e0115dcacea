package aggregation

import (
	"fmt"
	"sync"

	"storemy/pkg/iterator"
	"storemy/pkg/tuple"
	"storemy/pkg/types"
)

// StringAggregator computes a running COUNT over a string field, grouped by
// an optional field of any type. COUNT is the only operation that makes
// sense over an unordered string domain, so it is the only one supported.
type StringAggregator struct {
	gbField      int
	gbFieldType  types.Type
	aField       int
	groupToCount map[string]int32
	groupToField map[string]types.Field
	tupleDesc    *tuple.TupleDescription
	mutex        sync.RWMutex
}

// NewStringAggregator creates a string aggregator. op must be Count.
func NewStringAggregator(gbField int, gbFieldType types.Type, aField int, op AggregateOp) (*StringAggregator, error) {
	if op != Count {
		return nil, fmt.Errorf("string aggregator does not support operation: %s", op.String())
	}

	agg := &StringAggregator{
		gbField:      gbField,
		gbFieldType:  gbFieldType,
		aField:       aField,
		groupToCount: make(map[string]int32),
		groupToField: make(map[string]types.Field),
	}

	td, err := agg.createTupleDesc()
	if err != nil {
		return nil, fmt.Errorf("error creating StringAggregator: %v", err)
	}
	agg.tupleDesc = td
	return agg, nil
}

func (sa *StringAggregator) createTupleDesc() (*tuple.TupleDescription, error) {
	if sa.gbField == NoGrouping {
		return tuple.NewTupleDesc(
			[]types.Type{types.IntType},
			[]string{"COUNT"},
		)
	}
	return tuple.NewTupleDesc(
		[]types.Type{sa.gbFieldType, types.IntType},
		[]string{"group", "COUNT"},
	)
}

func (sa *StringAggregator) GetTupleDesc() *tuple.TupleDescription {
	return sa.tupleDesc
}

func (sa *StringAggregator) Merge(tup *tuple.Tuple) error {
	sa.mutex.Lock()
	defer sa.mutex.Unlock()

	groupKey := "NO_GROUPING"
	if sa.gbField != NoGrouping {
		groupField, err := tup.GetField(sa.gbField)
		if err != nil {
			return fmt.Errorf("failed to get grouping field: %v", err)
		}
		groupKey = groupField.String()
		if _, exists := sa.groupToField[groupKey]; !exists {
			sa.groupToField[groupKey] = groupField
		}
	}

	aggField, err := tup.GetField(sa.aField)
	if err != nil {
		return fmt.Errorf("failed to get aggregate field: %v", err)
	}
	if _, ok := aggField.(*types.StringField); !ok {
		return fmt.Errorf("aggregate field is not a string")
	}

	sa.groupToCount[groupKey]++
	return nil
}

// GetGroups returns every group key seen so far.
func (sa *StringAggregator) GetGroups() []string {
	groups := make([]string, 0, len(sa.groupToCount))
	for groupKey := range sa.groupToCount {
		groups = append(groups, groupKey)
	}
	return groups
}

// GetGroupField returns the original grouping field value recorded for
// groupKey, preserving its real type in the output tuple.
func (sa *StringAggregator) GetGroupField(groupKey string) (types.Field, bool) {
	f, ok := sa.groupToField[groupKey]
	return f, ok
}

func (sa *StringAggregator) GetAggregateValue(groupKey string) (types.Field, error) {
	count, exists := sa.groupToCount[groupKey]
	if !exists {
		return nil, fmt.Errorf("group %q not found", groupKey)
	}
	return types.NewIntField(count), nil
}

func (sa *StringAggregator) GetGroupingField() int {
	return sa.gbField
}

func (sa *StringAggregator) RLock() {
	sa.mutex.RLock()
}

func (sa *StringAggregator) RUnlock() {
	sa.mutex.RUnlock()
}

func (sa *StringAggregator) Iterator() iterator.DbIterator {
	return NewAggregatorIterator(sa)
}

var _ Aggregator = (*StringAggregator)(nil)
var _ groupAggregator = (*StringAggregator)(nil)
