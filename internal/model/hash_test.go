package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return Snapshot{
		Bills: []Bill{{
			ID:          "BILL-1",
			TableNo:     "2",
			Items:       []LineItem{{Name: "Latte", UnitPrice: 130, Quantity: 1}},
			TotalAmount: 130,
			Status:      StatusPending,
			CreatedAt:   created,
		}},
		Menu:   sampleMenu(),
		Tables: []string{"1", "2"},
	}
}

func TestFingerprintIgnoresBackupDate(t *testing.T) {
	a := sampleSnapshot()
	b := sampleSnapshot()
	stamp := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	b.BackupDate = &stamp

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64, "SHA-256 hex is 64 characters")
	assert.NotNil(t, b.BackupDate, "input is not modified")
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a := sampleSnapshot()
	b := sampleSnapshot()
	b.Tables = append(b.Tables, "3")

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fb)
}

func TestFingerprintNilEqualsEmpty(t *testing.T) {
	fa, err := Fingerprint(Snapshot{})
	require.NoError(t, err)
	fb, err := Fingerprint(Snapshot{Bills: []Bill{}, Tables: []string{}})
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestBillDigest(t *testing.T) {
	b := sampleSnapshot().Bills[0]
	d1, err := BillDigest(b)
	require.NoError(t, err)

	b.Items[0].Quantity = 2
	d2, err := BillDigest(b)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)
}
