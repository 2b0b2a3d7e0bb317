package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cafebill/internal/model"
)

func TestObserveOperation_Outcomes(t *testing.T) {
	m := New()

	m.ObserveOperation("add item", nil)
	m.ObserveOperation("add item", nil)
	m.ObserveOperation("add item", fmt.Errorf("add item: %w",
		model.Errorf(model.ErrBillNotPending, "bill %q is COMPLETED", "BILL-1")))
	m.ObserveOperation("create", errors.New("disk full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("add_item", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("add_item", "BillNotPending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create", "error")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.operations))
}

func TestSetBills(t *testing.T) {
	m := New()
	m.SetBills([]model.Bill{
		{ID: "A", Status: model.StatusPending, TotalAmount: 80},
		{ID: "B", Status: model.StatusCompleted, TotalAmount: 120},
		{ID: "C", Status: model.StatusCompleted, TotalAmount: 30},
	})

	expected := `
# HELP cafebill_bills Stored bills by status.
# TYPE cafebill_bills gauge
cafebill_bills{status="COMPLETED"} 2
cafebill_bills{status="PENDING"} 1
# HELP cafebill_completed_revenue Sum of totalAmount over COMPLETED bills, in integer currency units.
# TYPE cafebill_completed_revenue gauge
cafebill_completed_revenue 150
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"cafebill_bills", "cafebill_completed_revenue"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveOperation("complete", nil)
	m.SetBills(nil)

	path := filepath.Join(t.TempDir(), "cafebill.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cafebill_bill_operations_total{operation="complete",outcome="ok"} 1`)
	assert.Contains(t, string(data), `cafebill_bills{status="PENDING"} 0`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("create", nil)
		m.SetBills([]model.Bill{{ID: "A", Status: model.StatusPending}})
	})
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}
