// Package detail holds the row drill-down state for tabular analysis results.
package detail

import (
	"fmt"

	"analysis-backend/internal/resultview"
)

// ClosedMessage accompanies the close notification sent to the host.
const ClosedMessage = "Detail view closed"

var titleKeys = []string{"account_number", "account", "name", "title"}

// Selection tracks at most one selected row and whether the detail view is shown.
// The zero value is an empty selection.
type Selection struct {
	row     *resultview.Row
	visible bool
}

// Select replaces the selection and shows the view. Selecting the row that is
// already selected changes nothing and reports false.
func (s *Selection) Select(row resultview.Row) bool {
	if s.row != nil && s.row.ID == row.ID {
		return false
	}
	r := row
	s.row = &r
	s.visible = true
	return true
}

// Close hides the view and clears the selection, whatever the prior state.
func (s *Selection) Close() {
	s.row = nil
	s.visible = false
}

// Selected returns the selected row, if any.
func (s *Selection) Selected() (resultview.Row, bool) {
	if s.row == nil {
		return resultview.Row{}, false
	}
	return *s.row, true
}

// Visible reports whether the detail view is shown.
func (s *Selection) Visible() bool {
	return s.visible
}

// Field is one displayed field of the detail view.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Fields lists the row's fields for display. The synthetic id and row index
// are never part of Row.Keys, so they are not shown.
func Fields(row *resultview.Row) []Field {
	if row == nil {
		return nil
	}
	out := make([]Field, 0, len(row.Keys))
	for _, key := range row.Keys {
		v := row.Values[key]
		value := resultview.NotAvailable
		if !resultview.Missing(v) {
			value = resultview.Text(v)
		}
		out = append(out, Field{
			Key:   key,
			Label: resultview.LabelFor(key),
			Value: value,
		})
	}
	return out
}

// Title picks a heading for the row.
func Title(row *resultview.Row) string {
	if row == nil {
		return "Record Details"
	}
	for _, key := range titleKeys {
		if v, ok := row.Get(key); ok && !resultview.Missing(v) {
			return "Details for " + resultview.Text(v)
		}
	}
	if row.RowIndex == 0 {
		return "Record #Unknown"
	}
	return fmt.Sprintf("Record #%d", row.RowIndex)
}
