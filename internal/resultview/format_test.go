package resultview

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatSingleObject(t *testing.T) {
	got := Format(`{"account_number":"A1","amount_due":"12.5"}`)
	if got == nil {
		t.Fatal("expected single result, got nil")
	}

	want := &Result{
		Kind: KindSingle,
		Fields: []Field{
			{ID: "account_number", Label: "Account Number", Value: "A1"},
			{ID: "amount_due", Label: "Amount Due", Value: "12.5"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Format mismatch (-want +got):\n%s", diff)
	}

	wantDisplay := []DisplayField{
		{ID: "account_number", Label: "Account Number", Type: FieldAccount, Value: "A1"},
		{ID: "amount_due", Label: "Amount Due", Type: FieldAmount, Value: "$12.50"},
	}
	if diff := cmp.Diff(wantDisplay, got.Present()); diff != "" {
		t.Fatalf("Present mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatFencedObjectKeepsKeyOrder(t *testing.T) {
	raw := "```json\n{\"zeta\": 1, \"alpha\": {\"nested\": true}, \"mid_key\": null}\n```"
	got := Format(raw)
	if got == nil || got.Kind != KindSingle {
		t.Fatalf("expected single result, got %#v", got)
	}

	var ids []string
	for _, f := range got.Fields {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid_key"}, ids); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if got.Fields[0].Value != json.Number("1") {
		t.Fatalf("expected json.Number 1, got %#v", got.Fields[0].Value)
	}
	if got.Fields[2].Label != "Mid Key" {
		t.Fatalf("expected label Mid Key, got %q", got.Fields[2].Label)
	}
}

func TestFormatArrayOfObjects(t *testing.T) {
	raw := `[
  {"account_number": "100-1", "due_date": "2024-01-05", "kwh": 10},
  {"account_number": "100-2", "consumption_amount": 42}
]`
	got := Format(raw)
	if got == nil || got.Kind != KindTabular {
		t.Fatalf("expected tabular result, got %#v", got)
	}

	wantRows := []Row{
		{
			ID:       "item-0",
			RowIndex: 1,
			Keys:     []string{"account_number", "due_date", "kwh"},
			Values: map[string]any{
				"account_number": "100-1",
				"due_date":       "2024-01-05",
				"kwh":            json.Number("10"),
			},
		},
		{
			ID:       "item-1",
			RowIndex: 2,
			Keys:     []string{"account_number", "consumption_amount"},
			Values: map[string]any{
				"account_number":     "100-2",
				"consumption_amount": json.Number("42"),
			},
		},
	}
	if diff := cmp.Diff(wantRows, got.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	// consumption_amount is absent from the first row, so it has no column.
	wantCols := []Column{
		{FieldName: "account_number", Label: "Account Number", Type: ColumnText, WrapText: true},
		{FieldName: "due_date", Label: "Due Date", Type: ColumnDate},
	}
	if diff := cmp.Diff(wantCols, got.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if got.ItemCount() != 2 {
		t.Fatalf("expected 2 items, got %d", got.ItemCount())
	}
}

func TestFormatArrayWithRowActions(t *testing.T) {
	f := Formatter{RowActions: []RowAction{ViewDetails}}
	got := f.Format(`[{"account_number":"1","due_date":"2024-02-01","consumption_amount":"5"}]`)
	if got == nil {
		t.Fatal("expected tabular result, got nil")
	}

	var types []ColumnType
	for _, c := range got.Columns {
		types = append(types, c.Type)
	}
	want := []ColumnType{ColumnText, ColumnDate, ColumnNumber, ColumnAction}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("column types mismatch (-want +got):\n%s", diff)
	}
	last := got.Columns[len(got.Columns)-1]
	if diff := cmp.Diff([]RowAction{ViewDetails}, last.RowActions); diff != "" {
		t.Fatalf("row actions mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatArrayOfPrimitives(t *testing.T) {
	got := Format(`[1, "two", false]`)
	if got == nil || got.Kind != KindTabular {
		t.Fatalf("expected tabular result, got %#v", got)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got.Rows))
	}
	for i, row := range got.Rows {
		if row.RowIndex != i+1 {
			t.Fatalf("row %d: expected rowIndex %d, got %d", i, i+1, row.RowIndex)
		}
		if diff := cmp.Diff([]string{"value"}, row.Keys); diff != "" {
			t.Fatalf("row %d keys mismatch (-want +got):\n%s", i, diff)
		}
	}
	if got.Rows[1].Values["value"] != "two" {
		t.Fatalf("expected value two, got %#v", got.Rows[1].Values["value"])
	}
	if len(got.Columns) != 0 {
		t.Fatalf("expected no columns, got %#v", got.Columns)
	}
}

func TestFormatSyntheticKeysWin(t *testing.T) {
	got := Format(`[{"Id":"custom","rowIndex":99,"name":"x"}]`)
	if got == nil {
		t.Fatal("expected tabular result, got nil")
	}
	row := got.Rows[0]
	if row.ID != "item-0" || row.RowIndex != 1 {
		t.Fatalf("expected synthetic id/index, got %q/%d", row.ID, row.RowIndex)
	}
	if diff := cmp.Diff([]string{"name"}, row.Keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatLeadingByteOrderMark(t *testing.T) {
	for _, raw := range []string{
		"\ufeff{\"account_number\":\"A1\"}",
		"\ufeff ```json\n[{\"account_number\":\"A1\"}]\n```\n",
	} {
		got := Format(raw)
		if got == nil {
			t.Fatalf("expected %q to format, got nil", raw)
		}
	}
	if got := Clean("\ufeff  {}\ufeff"); got != "{}" {
		t.Fatalf("Clean left %q", got)
	}
}

func TestFormatAbsent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty array", raw: `[]`},
		{name: "string", raw: `"hello"`},
		{name: "number", raw: `42`},
		{name: "bool", raw: `true`},
		{name: "null", raw: `null`},
		{name: "malformed", raw: `{not json`},
		{name: "trailing data", raw: `{"a":1} {"b":2}`},
		{name: "empty", raw: ``},
		{name: "prose", raw: `The bill is due on March 3.`},
		{name: "fenced empty array", raw: "```json\n[]\n```"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.raw); got != nil {
				t.Fatalf("Format(%q) = %#v, want nil", tt.raw, got)
			}
		})
	}
}

func TestRowMarshalJSON(t *testing.T) {
	got := Format(`[{"b":1,"a":"x"}]`)
	if got == nil {
		t.Fatal("expected tabular result, got nil")
	}
	b, err := json.Marshal(got.Rows[0])
	if err != nil {
		t.Fatalf("marshal row: %v", err)
	}
	want := `{"Id":"item-0","rowIndex":1,"b":1,"a":"x"}`
	if string(b) != want {
		t.Fatalf("expected %s, got %s", want, b)
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "account_number", want: "Account Number"},
		{key: "kwh", want: "Kwh"},
		{key: "due_date2", want: "Due Date2"},
		{key: "billingPeriod", want: "BillingPeriod"},
		{key: "already Spaced", want: "Already Spaced"},
		{key: "", want: ""},
	}
	for _, tt := range tests {
		if got := LabelFor(tt.key); got != tt.want {
			t.Fatalf("LabelFor(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
