package cli

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cafebill/internal/model"
)

func TestWriteBillsCSV(t *testing.T) {
	created := time.Date(2024, 5, 1, 14, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	all := []model.Bill{
		{
			ID:      "BILL-1",
			TableNo: "Patio, left",
			Items: []model.LineItem{
				{Name: `Chai "masala"`, UnitPrice: 40, Quantity: 2},
				{Name: "Samosa", UnitPrice: 30, Quantity: 1},
			},
			TotalAmount: 110,
			Status:      model.StatusPending,
			CreatedAt:   created,
		},
		{ID: "BILL-2", TableNo: "3", Items: []model.LineItem{}, Status: model.StatusCompleted},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBillsCSV(&buf, all))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{
		"BILL-1", "Patio, left", "PENDING", "2024-05-01T09:00:00Z", "110",
		`Chai "masala" x 2 x 40; Samosa x 1 x 30`,
	}, rows[1])
	assert.Equal(t, []string{"BILL-2", "3", "COMPLETED", "", "0", ""}, rows[2])
}

func TestWriteBillsCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBillsCSV(&buf, nil))
	assert.Equal(t, "Bill ID,Table,Status,Created At,Total,Items (name x qty x price)\n", buf.String())
}
