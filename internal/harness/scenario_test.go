package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario(t *testing.T) {
	data := []byte(`
name: parse
description: Parses all sections
start: 2024-06-01T12:00:00Z
step: 30s
setup:
  - action: Tables.add
    args: { table: Patio }
flow:
  - invoke: Bills.create
    args:
      table: 4
      items: [{ name: Tea, price: 50 }]
    expect:
      case: Success
      result: { tableNo: "4" }
assertions:
  - type: row_count
    table: bills
    count: 1
`)
	s, err := ParseScenario(data)
	require.NoError(t, err)

	assert.Equal(t, "parse", s.Name)
	require.NotNil(t, s.Start)
	assert.True(t, s.Start.Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30*time.Second, s.Step)
	require.Len(t, s.Setup, 1)
	assert.Equal(t, "Tables.add", s.Setup[0].Action)
	require.Len(t, s.Flow, 1)
	assert.Equal(t, CaseSuccess, s.Flow[0].Expect.Case)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "2024-06-01T12:00:00Z", result.State[TableBills][0]["createdAt"])
}

func TestParseScenario_Invalid(t *testing.T) {
	base := "name: x\ndescription: y\n"
	flow := "flow:\n  - invoke: Tables.get\n"
	asserts := "assertions:\n  - type: trace_count\n    action: Tables.get\n    count: 1\n"

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown field", base + flow + asserts + "assertion: []\n", "field assertion not found"},
		{"missing name", "description: y\n" + flow + asserts, "name is required"},
		{"missing description", "name: x\n" + flow + asserts, "description is required"},
		{"missing flow", base + asserts, "flow list is required"},
		{"missing assertions", base + flow, "assertions list is required"},
		{"unknown action", base + "flow:\n  - invoke: Bills.explode\n" + asserts, `unknown action "Bills.explode"`},
		{"unknown setup action", base + "setup:\n  - action: Nope\n" + flow + asserts, `setup[0]: unknown action`},
		{"expect without case", base + "flow:\n  - invoke: Tables.get\n    expect: { result: { a: 1 } }\n" + asserts, "case is required"},
		{"bad assertion type", base + flow + "assertions:\n  - type: vibes\n", "unknown assertion type"},
		{"final_state bad table", base + flow + "assertions:\n  - type: final_state\n    table: orders\n    expect: { a: 1 }\n", "table must be one of"},
		{"final_state no expect", base + flow + "assertions:\n  - type: final_state\n    table: bills\n", "expect is required"},
		{"trace_order empty", base + flow + "assertions:\n  - type: trace_order\n", "actions list is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDir_Filter(t *testing.T) {
	dir := t.TempDir()
	body := "description: d\nflow:\n  - invoke: Tables.get\nassertions:\n  - type: trace_count\n    action: Tables.get\n    count: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("name: b\n"+body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("name: a\n"+body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	all, err := LoadDir(dir, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "b", all[1].Name)

	filtered, err := LoadDir(dir, "b*")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].Name)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
