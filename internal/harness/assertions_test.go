package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrace() []TraceEvent {
	r := NewResult()
	r.AddInvocationTrace("Bills.create", map[string]any{"table": "4"}, 1)
	r.AddCompletionTrace(CaseSuccess, nil, 2)
	r.AddInvocationTrace("Bills.addItem", map[string]any{"bill": "BILL-1", "name": "Tea", "price": 50}, 3)
	r.AddCompletionTrace(CaseSuccess, nil, 4)
	r.AddInvocationTrace("Bills.addItem", map[string]any{"bill": "BILL-1", "name": "Cake", "price": 90}, 5)
	r.AddCompletionTrace(CaseSuccess, nil, 6)
	r.AddInvocationTrace("Bills.complete", map[string]any{"bill": "BILL-1"}, 7)
	r.AddCompletionTrace(CaseSuccess, nil, 8)
	return r.Trace
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Action: "Bills.addItem"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{
		Action: "Bills.addItem",
		Args:   map[string]any{"name": "Cake", "price": int64(90)},
	}))

	err := assertTraceContains(trace, Assertion{
		Action: "Bills.addItem",
		Args:   map[string]any{"name": "Soup"},
	})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertTraceContains, ae.Type)
	assert.Contains(t, err.Error(), "Full trace:")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Actions: []string{"Bills.create", "Bills.complete"}}))

	err := assertTraceOrder(trace, Assertion{Actions: []string{"Bills.complete", "Bills.create"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should be before")

	err = assertTraceOrder(trace, Assertion{Actions: []string{"Bills.cancel"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing action: Bills.cancel")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Action: "Bills.addItem", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Action: "Bills.cancel", Count: 0}))
	assert.Error(t, assertTraceCount(trace, Assertion{Action: "Bills.addItem", Count: 1}))
}

func sampleState() map[string][]Row {
	return map[string][]Row{
		TableBills: {
			{"id": "BILL-1", "tableNo": "4", "status": "PENDING", "totalAmount": int64(140),
				"items": []any{map[string]any{"name": "Tea", "price": int64(50), "quantity": int64(1)}}},
			{"id": "BILL-2", "tableNo": "4", "status": "COMPLETED", "totalAmount": int64(90)},
		},
		TableTables: {{"id": "4", "position": int64(0)}},
	}
}

func TestAssertFinalState(t *testing.T) {
	state := sampleState()

	assert.NoError(t, assertFinalState(state, Assertion{
		Table:  TableBills,
		Where:  map[string]any{"id": "BILL-1"},
		Expect: map[string]any{"status": "PENDING", "totalAmount": 140},
	}))
	assert.NoError(t, assertFinalState(state, Assertion{
		Table:  TableBills,
		Where:  map[string]any{"id": "BILL-1"},
		Expect: map[string]any{"items": []any{map[string]any{"name": "Tea", "price": 50, "quantity": 1}}},
	}))
	assert.NoError(t, assertFinalState(state, Assertion{
		Table:  TableTables,
		Where:  map[string]any{"id": 4},
		Expect: map[string]any{"position": 0},
	}), "unquoted YAML numbers match string ids")

	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{"not found", Assertion{Table: TableBills, Where: map[string]any{"id": "BILL-9"}, Expect: map[string]any{"status": "PENDING"}}, "row not found"},
		{"ambiguous", Assertion{Table: TableBills, Where: map[string]any{"tableNo": "4"}, Expect: map[string]any{"status": "PENDING"}}, "ambiguous"},
		{"missing field", Assertion{Table: TableBills, Where: map[string]any{"id": "BILL-2"}, Expect: map[string]any{"completedAt": "x"}}, `field "completedAt" to exist`},
		{"wrong value", Assertion{Table: TableBills, Where: map[string]any{"id": "BILL-2"}, Expect: map[string]any{"totalAmount": 91}}, `field "totalAmount" = 91`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertFinalState(state, tt.assertion)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAssertRowCount(t *testing.T) {
	state := sampleState()

	assert.NoError(t, assertRowCount(state, Assertion{Table: TableBills, Count: 2}))
	assert.NoError(t, assertRowCount(state, Assertion{Table: TableBills, Where: map[string]any{"status": "COMPLETED"}, Count: 1}))
	assert.NoError(t, assertRowCount(state, Assertion{Table: TableProducts, Count: 0}))
	assert.Error(t, assertRowCount(state, Assertion{Table: TableTables, Count: 3}))
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual(int64(3), 3))
	assert.True(t, valuesEqual(3.0, int64(3)))
	assert.True(t, valuesEqual("7", 7))
	assert.True(t, valuesEqual(nil, nil))
	assert.True(t, valuesEqual(true, true))
	assert.True(t, valuesEqual([]any{int64(1), "a"}, []any{1, "a"}))

	assert.False(t, valuesEqual(nil, 0))
	assert.False(t, valuesEqual("7", "8"))
	assert.False(t, valuesEqual([]any{int64(1)}, []any{1, 2}))
	assert.False(t, valuesEqual(map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}))
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	result.Trace = sampleTrace()
	result.State = sampleState()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Action: "Bills.complete", Count: 1},
		{Type: AssertRowCount, Table: TableBills, Count: 5},
		{Type: "bogus"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "row_count")
	assert.Contains(t, errs[1], `unknown assertion type "bogus"`)
}
