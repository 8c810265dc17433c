package resultview

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ColumnSpec maps an expected payload key to a column type.
type ColumnSpec struct {
	Key  string
	Type ColumnType
}

// EnergyColumns is the allow-list used for utility bill payloads.
var EnergyColumns = []ColumnSpec{
	{Key: "account_number", Type: ColumnText},
	{Key: "due_date", Type: ColumnDate},
	{Key: "consumption_amount", Type: ColumnNumber},
}

// Formatter turns raw analysis text into a Result.
type Formatter struct {
	// Columns is the allow-list for tabular results. Nil means EnergyColumns.
	Columns []ColumnSpec
	// RowActions, when set, adds a trailing action column to tabular results.
	RowActions []RowAction
}

var jsonFence = regexp.MustCompile("```json\\n?|\\n?```")

// Clean strips Markdown JSON code fences, surrounding whitespace and any
// byte order mark.
func Clean(raw string) string {
	return strings.TrimFunc(jsonFence.ReplaceAllString(raw, ""), func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
}

// Format parses raw with the default formatter.
func Format(raw string) *Result {
	return Formatter{}.Format(raw)
}

// Format returns nil when raw is not JSON or is JSON of an unsupported shape.
func (f Formatter) Format(raw string) *Result {
	parsed, err := Decode([]byte(Clean(raw)))
	if err != nil {
		return nil
	}

	switch v := parsed.(type) {
	case *Object:
		return singleResult(v)
	case []any:
		if len(v) == 0 {
			return nil
		}
		rows := RowsFrom(v)
		return &Result{
			Kind:    KindTabular,
			Rows:    rows,
			Columns: f.columns(rows[0]),
		}
	default:
		return nil
	}
}

func singleResult(obj *Object) *Result {
	fields := make([]Field, 0, obj.Len())
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		fields = append(fields, Field{
			ID:    key,
			Label: LabelFor(key),
			Value: v,
		})
	}
	return &Result{Kind: KindSingle, Fields: fields}
}

// RowsFrom converts decoded array elements into rows with synthetic ids
// and 1-based row indexes.
func RowsFrom(items []any) []Row {
	rows := make([]Row, 0, len(items))
	for i, item := range items {
		row := Row{
			ID:       fmt.Sprintf("item-%d", i),
			RowIndex: i + 1,
			Values:   make(map[string]any),
		}
		if obj, ok := item.(*Object); ok {
			for _, key := range obj.Keys() {
				if key == syntheticIDKey || key == rowIndexKey {
					continue
				}
				v, _ := obj.Get(key)
				row.Keys = append(row.Keys, key)
				row.Values[key] = v
			}
		} else {
			row.Keys = []string{primitiveKey}
			row.Values[primitiveKey] = item
		}
		rows = append(rows, row)
	}
	return rows
}

func (f Formatter) columns(first Row) []Column {
	specs := f.Columns
	if specs == nil {
		specs = EnergyColumns
	}

	var cols []Column
	for _, spec := range specs {
		if _, ok := first.Get(spec.Key); !ok {
			continue
		}
		cols = append(cols, Column{
			FieldName: spec.Key,
			Label:     LabelFor(spec.Key),
			Type:      spec.Type,
			WrapText:  spec.Type == ColumnText,
		})
	}
	if len(f.RowActions) > 0 {
		cols = append(cols, Column{
			Type:       ColumnAction,
			RowActions: append([]RowAction(nil), f.RowActions...),
		})
	}
	return cols
}

// Present returns the typed, rendered fields of a single-object result.
func (r *Result) Present() []DisplayField {
	if r == nil || r.Kind != KindSingle {
		return nil
	}
	out := make([]DisplayField, 0, len(r.Fields))
	for _, f := range r.Fields {
		typ := Classify(f.ID, f.Label)
		if isAmountDue(f.ID) {
			typ = FieldAmount
		}
		out = append(out, DisplayField{
			ID:    f.ID,
			Label: f.Label,
			Type:  typ,
			Value: Render(f.ID, f.Label, f.Value),
		})
	}
	return out
}

// ItemCount is the number of rows of a tabular result.
func (r *Result) ItemCount() int {
	if r == nil || r.Kind != KindTabular {
		return 0
	}
	return len(r.Rows)
}

// RowByID finds a tabular row by its synthetic id.
func (r *Result) RowByID(id string) (Row, bool) {
	if r == nil {
		return Row{}, false
	}
	for _, row := range r.Rows {
		if row.ID == id {
			return row, true
		}
	}
	return Row{}, false
}
