package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/cafebill/internal/bills"
	"github.com/roach88/cafebill/internal/catalog"
	"github.com/roach88/cafebill/internal/engine"
	"github.com/roach88/cafebill/internal/logging"
	"github.com/roach88/cafebill/internal/model"
	"github.com/roach88/cafebill/internal/store"
	"github.com/roach88/cafebill/internal/testutil"
)

// CaseSuccess is the output case of an action that returned no error.
const CaseSuccess = "Success"

// Harness executes one scenario against a fresh store.
type Harness struct {
	store   *store.Store
	repo    *bills.Repository
	catalog *catalog.Store
	engine  *engine.Engine
	clock   *testutil.StepClock
	seq     int64
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory SQLite database with a step
// clock and sequential bill ids (BILL-1, BILL-2, ...), so traces are
// identical across runs.
//
// Execution flow:
//  1. Open the store and wire the catalog, repository and engine
//  2. Execute setup steps, failing the run on the first error
//  3. Execute flow steps, checking each expect clause
//  4. Capture the final state and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	start := DefaultStart
	if scenario.Start != nil {
		start = scenario.Start.UTC()
	}
	step := scenario.Step
	if step == 0 {
		step = time.Minute
	}
	clock := testutil.NewStepClock(start, step)
	st.SetClock(clock.Peek)

	logger := logging.Discard()
	repo := bills.NewRepository(st)
	h := &Harness{
		store:   st,
		repo:    repo,
		catalog: catalog.New(st, logger),
		engine: engine.New(repo,
			engine.WithClock(clock),
			engine.WithIDGenerator(testutil.NewSequentialIDs("BILL")),
			engine.WithLogger(logger)),
		clock:  clock,
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()

	if err := h.executeSetup(ctx, scenario.Setup, result); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	state, err := h.captureState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture state: %w", err)
	}
	result.State = state

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) nextSeq() int64 {
	h.seq++
	return h.seq
}

// executeSetup runs the setup steps. Any error aborts the scenario.
func (h *Harness) executeSetup(ctx context.Context, setup []ActionStep, result *Result) error {
	for i, step := range setup {
		result.AddInvocationTrace(step.Action, step.Args, h.nextSeq())

		out, err := h.invoke(ctx, step.Action, step.Args)
		if err != nil {
			return fmt.Errorf("setup step %d (%s): %w", i, step.Action, err)
		}
		result.AddCompletionTrace(CaseSuccess, out, h.nextSeq())

		h.logger.Info("setup step completed", "step", i, "action", step.Action)
	}
	return nil
}

// executeFlow runs the flow steps and checks each expect clause against
// what the engine actually returned.
//
// A domain error is an output case, not a harness failure: it is traced
// under its error code and compared with the expected case. Any other
// error aborts the run.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		result.AddInvocationTrace(step.Invoke, step.Args, h.nextSeq())

		outputCase := CaseSuccess
		out, err := h.invoke(ctx, step.Invoke, step.Args)
		if err != nil {
			var de *model.Error
			if !errors.As(err, &de) {
				return fmt.Errorf("flow step %d (%s): %w", i, step.Invoke, err)
			}
			outputCase = string(de.Code)
			out = map[string]any{"kind": string(de.Kind)}
		}
		result.AddCompletionTrace(outputCase, out, h.nextSeq())

		expected := CaseSuccess
		if step.Expect != nil {
			expected = step.Expect.Case
		}
		if outputCase != expected {
			msg := fmt.Sprintf("flow[%d] %s: expected case %s, got %s", i, step.Invoke, expected, outputCase)
			if err != nil {
				msg += fmt.Sprintf(" (%v)", err)
			}
			result.AddError(msg)
			continue
		}

		if step.Expect != nil && len(step.Expect.Result) > 0 {
			for key, want := range step.Expect.Result {
				got, ok := lookup(out, key)
				if !ok {
					result.AddError(fmt.Sprintf("flow[%d] %s: result field %q missing", i, step.Invoke, key))
					continue
				}
				if !valuesEqual(got, want) {
					result.AddError(fmt.Sprintf("flow[%d] %s: result field %q = %v, want %v",
						i, step.Invoke, key, got, want))
				}
			}
		}

		h.logger.Info("flow step completed", "step", i, "action", step.Invoke, "output_case", outputCase)
	}
	return nil
}

// invoke runs an action and normalizes its result to plain maps and
// slices with int64 numbers, as they would appear in JSON.
func (h *Harness) invoke(ctx context.Context, action string, args map[string]any) (any, error) {
	fn, ok := actions[action]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", action)
	}
	if args == nil {
		args = map[string]any{}
	}
	out, err := fn(ctx, h, args)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	return normalize(out)
}

// captureState flattens the persisted records into state tables.
func (h *Harness) captureState(ctx context.Context) (map[string][]Row, error) {
	all, err := h.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	menu, err := h.catalog.GetMenu(ctx)
	if err != nil {
		return nil, err
	}
	var tables []string
	if _, err := store.GetJSON(ctx, h.store, store.KeyTables, &tables); err != nil {
		return nil, err
	}

	state := map[string][]Row{
		TableBills:      {},
		TableTables:     {},
		TableCategories: {},
		TableProducts:   {},
	}
	for _, b := range all {
		v, err := normalize(b)
		if err != nil {
			return nil, err
		}
		row := Row(v.(map[string]any))
		row["itemCount"] = int64(len(b.Items))
		state[TableBills] = append(state[TableBills], row)
	}
	for i, t := range tables {
		state[TableTables] = append(state[TableTables], Row{"id": t, "position": int64(i)})
	}
	for _, c := range menu.Categories() {
		state[TableCategories] = append(state[TableCategories], Row{
			"key":      c.Key,
			"products": int64(len(c.Products)),
		})
		for i, p := range c.Products {
			state[TableProducts] = append(state[TableProducts], Row{
				"category": c.Key,
				"position": int64(i),
				"name":     p.Name,
				"price":    p.Price,
			})
		}
	}
	return state, nil
}

// normalize round-trips v through JSON, turning numbers into int64.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return intNumbers(out), nil
}

func intNumbers(v any) any {
	switch val := v.(type) {
	case float64:
		if n, ok := toInt64(val); ok {
			return n
		}
		return val
	case []any:
		for i := range val {
			val[i] = intNumbers(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = intNumbers(val[k])
		}
		return val
	default:
		return v
	}
}

// lookup reads a top-level field from a normalized result.
func lookup(out any, key string) (any, bool) {
	m, ok := out.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}
