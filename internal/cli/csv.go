package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/cafebill/internal/model"
)

// CSVHeader is the first row of a bills CSV export.
var CSVHeader = []string{"Bill ID", "Table", "Status", "Created At", "Total", "Items (name x qty x price)"}

// WriteBillsCSV writes one row per bill. Items are rendered as
// "name x qty x price" joined with "; ".
func WriteBillsCSV(w io.Writer, all []model.Bill) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, b := range all {
		items := make([]string, len(b.Items))
		for i, item := range b.Items {
			items[i] = fmt.Sprintf("%s x %d x %d", item.Name, item.Quantity, item.UnitPrice)
		}
		created := ""
		if !b.CreatedAt.IsZero() {
			created = b.CreatedAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			b.ID,
			b.TableNo,
			string(b.Status),
			created,
			strconv.FormatInt(b.TotalAmount, 10),
			strings.Join(items, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
