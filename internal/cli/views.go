package cli

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/roach88/cafebill/internal/model"
)

// Views pair a JSON payload with its text rendering. Embedding keeps the
// JSON encoding of the wrapped value.

const timeLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

type billView struct {
	model.Bill
}

func (v billView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  table %s  %s  total %d\n", v.ID, v.TableNo, v.Status, v.TotalAmount)
	if len(v.Items) == 0 {
		b.WriteString("  (no items)\n")
	}
	for i, item := range v.Items {
		fmt.Fprintf(&b, "  %d. %s  %d x %d = %d\n", i+1, item.Name, item.Quantity, item.UnitPrice, item.Subtotal())
	}
	fmt.Fprintf(&b, "created %s", formatTime(v.CreatedAt))
	if v.CompletedAt != nil {
		fmt.Fprintf(&b, "  completed %s", formatTime(*v.CompletedAt))
	}
	return b.String()
}

type billListView struct {
	Bills []model.Bill `json:"bills"`
}

func (v billListView) String() string {
	if len(v.Bills) == 0 {
		return "No bills."
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTABLE\tSTATUS\tITEMS\tTOTAL\tCREATED")
	for _, b := range v.Bills {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			b.ID, b.TableNo, b.Status, len(b.Items), b.TotalAmount, formatTime(b.CreatedAt))
	}
	w.Flush()
	return strings.TrimSuffix(buf.String(), "\n")
}

type menuView struct {
	model.Menu
}

func (v menuView) String() string {
	if v.Len() == 0 {
		return "Menu is empty."
	}
	var b strings.Builder
	for i, c := range v.Categories() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s [%s]\n", model.CategoryTitle(c.Key), c.Key)
		if len(c.Products) == 0 {
			b.WriteString("  (empty)\n")
		}
		for j, p := range c.Products {
			fmt.Fprintf(&b, "  %d. %s  %d\n", j+1, p.Name, p.Price)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type tablesView struct {
	Tables []string `json:"tables"`
}

func (v tablesView) String() string {
	if len(v.Tables) == 0 {
		return "No tables."
	}
	return strings.Join(v.Tables, " ")
}

// messageView is a one-line confirmation with optional JSON fields.
type messageView struct {
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (v messageView) String() string {
	return v.Message
}

func message(format string, args ...any) messageView {
	return messageView{Message: fmt.Sprintf(format, args...)}
}
