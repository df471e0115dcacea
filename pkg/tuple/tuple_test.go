package tuple

import (
	"storemy/pkg/primitives"
	"storemy/pkg/types"
	"testing"
)

func TestNewTuple(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})

	tuple := NewTuple(td)

	if tuple == nil {
		t.Fatal("NewTuple returned nil")
	}

	if tuple.TupleDesc != td {
		t.Errorf("Expected TupleDesc to be %v, got %v", td, tuple.TupleDesc)
	}

	if len(tuple.fields) != 2 {
		t.Errorf("Expected 2 fields, got %d", len(tuple.fields))
	}

	for i, field := range tuple.fields {
		if field != nil {
			t.Errorf("Expected field %d to be nil, got %v", i, field)
		}
	}

	if tuple.RecordID != nil {
		t.Errorf("Expected RecordID to be nil, got %v", tuple.RecordID)
	}
}

func TestTuple_SetField(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
	tuple := NewTuple(td)

	intField := types.NewIntField(42)
	stringField := types.NewStringField("test", 128)

	tests := []struct {
		name          string
		index         int
		field         types.Field
		expectedError bool
	}{
		{
			name:          "Valid int field at index 0",
			index:         0,
			field:         intField,
			expectedError: false,
		},
		{
			name:          "Valid string field at index 1",
			index:         1,
			field:         stringField,
			expectedError: false,
		},
		{
			name:          "Invalid negative index",
			index:         -1,
			field:         intField,
			expectedError: true,
		},
		{
			name:          "Invalid index out of bounds",
			index:         2,
			field:         intField,
			expectedError: true,
		},
		{
			name:          "Type mismatch - string field at int index",
			index:         0,
			field:         stringField,
			expectedError: true,
		},
		{
			name:          "Type mismatch - int field at string index",
			index:         1,
			field:         intField,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tuple.SetField(tt.index, tt.field)

			if tt.expectedError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			retrievedField, _ := tuple.GetField(tt.index)
			if retrievedField != tt.field {
				t.Errorf("Expected field %v at index %d, got %v", tt.field, tt.index, retrievedField)
			}
		})
	}
}

func TestTuple_GetField(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
	tuple := NewTuple(td)

	intField := types.NewIntField(42)
	stringField := types.NewStringField("test", 128)

	tuple.SetField(0, intField)
	tuple.SetField(1, stringField)

	tests := []struct {
		name          string
		index         int
		expectedField types.Field
		expectedError bool
	}{
		{
			name:          "Valid index 0",
			index:         0,
			expectedField: intField,
			expectedError: false,
		},
		{
			name:          "Valid index 1",
			index:         1,
			expectedField: stringField,
			expectedError: false,
		},
		{
			name:          "Invalid negative index",
			index:         -1,
			expectedError: true,
		},
		{
			name:          "Invalid index out of bounds",
			index:         2,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, err := tuple.GetField(tt.index)

			if tt.expectedError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if field != tt.expectedField {
				t.Errorf("Expected field %v, got %v", tt.expectedField, field)
			}
		})
	}
}

func TestTuple_GetFieldUninitialized(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType}, []string{"id"})
	tuple := NewTuple(td)

	field, err := tuple.GetField(0)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if field != nil {
		t.Errorf("Expected nil field, got %v", field)
	}
}

func TestTuple_String(t *testing.T) {
	tests := []struct {
		name           string
		setupFunc      func() *Tuple
		expectedString string
	}{
		{
			name: "Tuple with int and string fields",
			setupFunc: func() *Tuple {
				td := mustCreateTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
				tuple := NewTuple(td)
				tuple.SetField(0, types.NewIntField(42))
				tuple.SetField(1, types.NewStringField("test", 128))
				return tuple
			},
			expectedString: "42\ttest\n",
		},
		{
			name: "Tuple with nil fields",
			setupFunc: func() *Tuple {
				td := mustCreateTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
				return NewTuple(td)
			},
			expectedString: "null\tnull\n",
		},
		{
			name: "Tuple with mixed nil and initialized fields",
			setupFunc: func() *Tuple {
				td := mustCreateTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
				tuple := NewTuple(td)
				tuple.SetField(0, types.NewIntField(123))
				return tuple
			},
			expectedString: "123\tnull\n",
		},
		{
			name: "Single field tuple",
			setupFunc: func() *Tuple {
				td := mustCreateTupleDesc([]types.Type{types.IntType}, []string{"id"})
				tuple := NewTuple(td)
				tuple.SetField(0, types.NewIntField(999))
				return tuple
			},
			expectedString: "999\n",
		},
		{
			name: "Empty string field",
			setupFunc: func() *Tuple {
				td := mustCreateTupleDesc([]types.Type{types.StringType}, []string{"name"})
				tuple := NewTuple(td)
				tuple.SetField(0, types.NewStringField("", 128))
				return tuple
			},
			expectedString: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuple := tt.setupFunc()
			result := tuple.String()

			if result != tt.expectedString {
				t.Errorf("Expected string %q, got %q", tt.expectedString, result)
			}
		})
	}
}

func TestTuple_RecordID(t *testing.T) {
	td := mustCreateTupleDesc([]types.Type{types.IntType}, []string{"id"})
	tuple := NewTuple(td)

	if tuple.RecordID != nil {
		t.Errorf("Expected RecordID to be nil for new tuple, got %v", tuple.RecordID)
	}

	pid := &mockPageID{tableID: 1, pageNo: 2}
	recordID := NewRecordID(pid, 5)
	tuple.RecordID = recordID

	if tuple.RecordID != recordID {
		t.Errorf("Expected RecordID to be %v, got %v", recordID, tuple.RecordID)
	}
}

type mockPageID struct {
	tableID primitives.TableID
	pageNo  primitives.PageNumber
}

func (m *mockPageID) TableID() primitives.TableID {
	return m.tableID
}

func (m *mockPageID) PageNo() primitives.PageNumber {
	return m.pageNo
}

func (m *mockPageID) Serialize() []byte {
	return []byte{byte(m.tableID), byte(m.pageNo)}
}

func (m *mockPageID) Equals(other primitives.PageID) bool {
	if other == nil {
		return false
	}
	return m.tableID == other.TableID() && m.pageNo == other.PageNo()
}

func (m *mockPageID) String() string {
	return "mockPageID(1,2)"
}

func (m *mockPageID) HashCode() primitives.HashCode {
	return primitives.HashCode(uint64(m.tableID)*31 + uint64(m.pageNo))
}
