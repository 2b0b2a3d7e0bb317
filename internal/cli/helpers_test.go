package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cafebill/internal/config"
	"github.com/roach88/cafebill/internal/logging"
	"github.com/roach88/cafebill/internal/model"
	"github.com/roach88/cafebill/internal/testutil"
)

var testStart = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// isolateConfig moves the test into an empty directory and clears the
// environment the config loader reads.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{config.EnvConfig, config.EnvDatabase, config.EnvLogLevel, config.EnvIDScheme} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// cliEnv runs commands against one database with a deterministic clock
// and sequential bill ids shared across invocations.
type cliEnv struct {
	t     *testing.T
	db    string
	clock *testutil.StepClock
	ids   *testutil.SequentialIDs
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	return &cliEnv{
		t:     t,
		db:    filepath.Join(t.TempDir(), "cafe.db"),
		clock: testutil.NewStepClock(testStart, time.Minute),
		ids:   testutil.NewSequentialIDs("BILL"),
	}
}

// runRaw executes one command line and returns everything written.
func (e *cliEnv) runRaw(args ...string) (string, error) {
	e.t.Helper()
	opts := &RootOptions{
		Logger: logging.Discard(),
		Clock:  e.clock,
		IDs:    e.ids,
	}
	cmd := NewRootCommandWithOptions(opts)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--db", e.db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// run executes a command that must succeed and returns its output.
func (e *cliEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runRaw(args...)
	require.NoError(e.t, err, "output: %s", out)
	return out
}

// jsonResponse is CLIResponse with the payload left raw for decoding.
type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// runJSON executes a command with --format json and decodes the response.
func (e *cliEnv) runJSON(args ...string) (jsonResponse, error) {
	e.t.Helper()
	out, err := e.runRaw(append([]string{"--format", "json"}, args...)...)
	var resp jsonResponse
	require.NoError(e.t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp, err
}

// bill runs a command that returns a bill and decodes it.
func (e *cliEnv) bill(args ...string) model.Bill {
	e.t.Helper()
	resp, err := e.runJSON(args...)
	require.NoError(e.t, err)
	require.Equal(e.t, "ok", resp.Status)
	var b model.Bill
	require.NoError(e.t, json.Unmarshal(resp.Data, &b))
	return b
}

// failure runs a command that must be rejected and returns the CLI code.
func (e *cliEnv) failure(wantExit int, args ...string) *CLIError {
	e.t.Helper()
	resp, err := e.runJSON(args...)
	require.Error(e.t, err)
	require.Equal(e.t, wantExit, GetExitCode(err))
	require.True(e.t, IsReported(err))
	require.Equal(e.t, "error", resp.Status)
	require.NotNil(e.t, resp.Error)
	return resp.Error
}
