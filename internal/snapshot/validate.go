package snapshot

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/cafebill/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// maxReportedErrors caps how many schema violations are listed in one error.
const maxReportedErrors = 5

// requiredFields must be present and non-null at the top level.
var requiredFields = []string{"bills", "menu", "tables"}

// cue.Context is not safe for concurrent use.
var cueMu sync.Mutex

// ValidateJSON checks a JSON payload against the snapshot schema.
func ValidateJSON(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return model.InvalidSnapshotf(err, "payload is not a JSON object")
	}
	for _, field := range requiredFields {
		raw, ok := top[field]
		if !ok {
			return model.Errorf(model.ErrInvalidSnapshot, "missing field %q", field).
				WithDetail("field", field)
		}
		if strings.TrimSpace(string(raw)) == "null" {
			return model.Errorf(model.ErrInvalidSnapshot, "field %q is null", field).
				WithDetail("field", field)
		}
	}

	cueMu.Lock()
	defer cueMu.Unlock()

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile snapshot schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Snapshot"))

	value := ctx.CompileBytes(data, cue.Filename("snapshot.json"))
	if err := value.Err(); err != nil {
		return schemaError(err)
	}

	if err := def.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return schemaError(err)
	}
	return nil
}

// schemaError flattens CUE errors into one InvalidSnapshot error listing
// the first few violations with their paths.
func schemaError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return model.InvalidSnapshotf(err, "schema validation failed")
	}

	msgs := make([]string, 0, maxReportedErrors)
	for i, e := range errs {
		if i == maxReportedErrors {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(errs)-i))
			break
		}
		msgs = append(msgs, e.Error())
	}

	out := model.Errorf(model.ErrInvalidSnapshot, "schema validation failed: %s", strings.Join(msgs, "; "))
	if path := errs[0].Path(); len(path) > 0 {
		out.WithDetail("path", strings.Join(path, "."))
	}
	return out
}

// checkInvariants enforces the collection rules the schema cannot express.
func checkInvariants(s model.Snapshot) error {
	ids := make(map[string]bool, len(s.Bills))
	for i, b := range s.Bills {
		if ids[b.ID] {
			return model.Errorf(model.ErrInvalidSnapshot, "bills[%d]: duplicate id %q", i, b.ID).
				WithDetail("bill_id", b.ID)
		}
		ids[b.ID] = true

		if !b.Status.Valid() {
			return model.Errorf(model.ErrInvalidSnapshot, "bills[%d]: unknown status %q", i, b.Status).
				WithDetail("bill_id", b.ID)
		}

		names := make(map[string]bool, len(b.Items))
		for j, item := range b.Items {
			if item.UnitPrice < 1 || item.Quantity < 1 {
				return model.Errorf(model.ErrInvalidSnapshot,
					"bills[%d].items[%d]: price and quantity must be at least 1", i, j).
					WithDetail("bill_id", b.ID)
			}
			if names[item.Name] {
				return model.Errorf(model.ErrInvalidSnapshot,
					"bills[%d].items[%d]: duplicate line %q", i, j, item.Name).
					WithDetail("bill_id", b.ID)
			}
			names[item.Name] = true
		}

		want, ok := model.CheckedSum(b.Items)
		if !ok {
			return model.Errorf(model.ErrInvalidSnapshot, "bills[%d]: total overflows", i).
				WithDetail("bill_id", b.ID)
		}
		if b.TotalAmount != want {
			return model.Errorf(model.ErrInvalidSnapshot,
				"bills[%d]: totalAmount %d does not match items (%d)", i, b.TotalAmount, want).
				WithDetail("bill_id", b.ID)
		}
	}

	for _, c := range s.Menu.Categories() {
		for j, p := range c.Products {
			if model.NormalizeName(p.Name) == "" || p.Price < 1 {
				return model.Errorf(model.ErrInvalidSnapshot,
					"menu.%s[%d]: product needs a name and a price of at least 1", c.Key, j).
					WithDetail("category", c.Key)
			}
		}
	}

	tables := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		if tables[t] {
			return model.Errorf(model.ErrInvalidSnapshot, "duplicate table %q", t).
				WithDetail("table", t)
		}
		tables[t] = true
	}
	return nil
}
