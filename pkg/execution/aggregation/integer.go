package aggregation

import (
	"fmt"
	"math"
	"sync"

	"storemy/pkg/iterator"
	"storemy/pkg/tuple"
	"storemy/pkg/types"
)

// IntegerAggregator computes MIN, MAX, SUM, AVG, or COUNT over an integer
// field, grouped by an optional field of any type.
type IntegerAggregator struct {
	groupByField   int
	groupFieldType types.Type
	aggrField      int
	op             AggregateOp
	groupToAgg     map[string]int32
	groupToCount   map[string]int32
	groupToField   map[string]types.Field
	tupleDesc      *tuple.TupleDescription
	mutex          sync.RWMutex
}

// NewIntAggregator creates an integer aggregator. gbField is NoGrouping for
// an ungrouped result.
func NewIntAggregator(gbField int, gbFieldType types.Type, aField int, op AggregateOp) (*IntegerAggregator, error) {
	agg := &IntegerAggregator{
		groupByField:   gbField,
		groupFieldType: gbFieldType,
		aggrField:      aField,
		op:             op,
		groupToAgg:     make(map[string]int32),
		groupToCount:   make(map[string]int32),
		groupToField:   make(map[string]types.Field),
	}

	td, err := agg.createTupleDesc()
	if err != nil {
		return nil, fmt.Errorf("error creating IntegerAggregator: %v", err)
	}
	agg.tupleDesc = td
	return agg, nil
}

func (ia *IntegerAggregator) createTupleDesc() (*tuple.TupleDescription, error) {
	if ia.groupByField == NoGrouping {
		return tuple.NewTupleDesc(
			[]types.Type{types.IntType},
			[]string{ia.op.String()},
		)
	}

	return tuple.NewTupleDesc(
		[]types.Type{ia.groupFieldType, types.IntType},
		[]string{"group", ia.op.String()},
	)
}

func (ia *IntegerAggregator) GetTupleDesc() *tuple.TupleDescription {
	return ia.tupleDesc
}

func (ia *IntegerAggregator) Merge(tup *tuple.Tuple) error {
	ia.mutex.Lock()
	defer ia.mutex.Unlock()

	groupKey := "NO_GROUPING"
	if ia.groupByField != NoGrouping {
		groupField, err := tup.GetField(ia.groupByField)
		if err != nil {
			return fmt.Errorf("failed to get grouping field: %v", err)
		}
		groupKey = groupField.String()
		if _, exists := ia.groupToField[groupKey]; !exists {
			ia.groupToField[groupKey] = groupField
		}
	}

	aggField, err := tup.GetField(ia.aggrField)
	if err != nil {
		return fmt.Errorf("failed to get aggregate field: %v", err)
	}

	intField, ok := aggField.(*types.IntField)
	if !ok {
		return fmt.Errorf("aggregate field is not an integer")
	}

	ia.initializeGroupIfNeeded(groupKey)
	return ia.updateAggregate(groupKey, intField.Value)
}

func (ia *IntegerAggregator) getInitValue() int32 {
	switch ia.op {
	case Min:
		return math.MaxInt32
	case Max:
		return math.MinInt32
	default:
		return 0
	}
}

func (ia *IntegerAggregator) updateAggregate(groupKey string, aggValue int32) error {
	currentAgg := ia.groupToAgg[groupKey]

	switch ia.op {
	case Min:
		if aggValue < currentAgg {
			ia.groupToAgg[groupKey] = aggValue
		}
	case Max:
		if aggValue > currentAgg {
			ia.groupToAgg[groupKey] = aggValue
		}
	case Sum:
		ia.groupToAgg[groupKey] = currentAgg + aggValue
	case Avg:
		ia.groupToAgg[groupKey] = currentAgg + aggValue
		ia.groupToCount[groupKey]++
	case Count:
		ia.groupToAgg[groupKey]++
	default:
		return fmt.Errorf("unsupported operation: %v", ia.op)
	}

	return nil
}

// initializeGroupIfNeeded seeds a new group's running value with the
// identity element for this operation.
func (ia *IntegerAggregator) initializeGroupIfNeeded(groupKey string) {
	if _, exists := ia.groupToAgg[groupKey]; exists {
		return
	}
	ia.groupToAgg[groupKey] = ia.getInitValue()
	if ia.op == Avg {
		ia.groupToCount[groupKey] = 0
	}
}

// GetGroups returns every group key seen so far.
func (ia *IntegerAggregator) GetGroups() []string {
	groups := make([]string, 0, len(ia.groupToAgg))
	for groupKey := range ia.groupToAgg {
		groups = append(groups, groupKey)
	}
	return groups
}

// GetGroupField returns the original grouping field value recorded for
// groupKey, so the output tuple's group column keeps its real type instead
// of the string key used for bookkeeping.
func (ia *IntegerAggregator) GetGroupField(groupKey string) (types.Field, bool) {
	f, ok := ia.groupToField[groupKey]
	return f, ok
}

// GetAggregateValue finalizes and returns the result for groupKey. AVG
// divides the running sum by the running count using integer division,
// matching the field's int32 storage.
func (ia *IntegerAggregator) GetAggregateValue(groupKey string) (types.Field, error) {
	value, exists := ia.groupToAgg[groupKey]
	if !exists {
		return nil, fmt.Errorf("group %q not found", groupKey)
	}

	if ia.op == Avg {
		count := ia.groupToCount[groupKey]
		if count == 0 {
			return types.NewIntField(0), nil
		}
		return types.NewIntField(value / count), nil
	}

	return types.NewIntField(value), nil
}

func (ia *IntegerAggregator) GetGroupingField() int {
	return ia.groupByField
}

func (ia *IntegerAggregator) RLock() {
	ia.mutex.RLock()
}

func (ia *IntegerAggregator) RUnlock() {
	ia.mutex.RUnlock()
}

// Iterator drains the accumulated groups into a materialized result stream.
func (ia *IntegerAggregator) Iterator() iterator.DbIterator {
	return NewAggregatorIterator(ia)
}

var _ Aggregator = (*IntegerAggregator)(nil)
var _ groupAggregator = (*IntegerAggregator)(nil)
