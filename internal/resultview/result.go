package resultview

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Kind tags the shape of a formatted result.
type Kind string

const (
	KindSingle  Kind = "single"
	KindTabular Kind = "array"
)

// Result is the display model derived from a raw analysis payload.
// A nil *Result means the payload is not displayable as structured data.
type Result struct {
	Kind    Kind     `json:"type"`
	Fields  []Field  `json:"fields,omitempty"`
	Rows    []Row    `json:"rows,omitempty"`
	Columns []Column `json:"columns,omitempty"`
}

// Field is one top-level key of a single-object payload.
type Field struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Row is one element of an array payload.
type Row struct {
	ID       string
	RowIndex int
	Keys     []string
	Values   map[string]any
}

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// MarshalJSON renders the row flat, with the synthetic Id and rowIndex first.
func (r Row) MarshalJSON() ([]byte, error) {
	obj := &Object{}
	obj.Set(syntheticIDKey, r.ID)
	obj.Set(rowIndexKey, r.RowIndex)
	for _, k := range r.Keys {
		obj.Set(k, r.Values[k])
	}
	return obj.MarshalJSON()
}

// ColumnType is the semantic type of a table column.
type ColumnType string

const (
	ColumnText   ColumnType = "text"
	ColumnDate   ColumnType = "date"
	ColumnNumber ColumnType = "number"
	ColumnAction ColumnType = "action"
)

// Column describes one column of a tabular result.
type Column struct {
	FieldName  string      `json:"fieldName,omitempty"`
	Label      string      `json:"label,omitempty"`
	Type       ColumnType  `json:"type"`
	WrapText   bool        `json:"wrapText,omitempty"`
	RowActions []RowAction `json:"rowActions,omitempty"`
}

// RowAction is a per-row affordance rendered in the trailing action column.
type RowAction struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// ViewDetails is the row action that opens the detail drill-down.
var ViewDetails = RowAction{Label: "View Details", Name: "view_details"}

const (
	syntheticIDKey = "Id"
	rowIndexKey    = "rowIndex"
	primitiveKey   = "value"
)

var wordStart = regexp.MustCompile(`\b\w`)

// LabelFor turns a payload key into a human label: underscores become spaces
// and the first letter of every word is uppercased.
func LabelFor(key string) string {
	spaced := strings.ReplaceAll(key, "_", " ")
	return wordStart.ReplaceAllStringFunc(spaced, strings.ToUpper)
}

// Object is a JSON object that remembers key insertion order.
type Object struct {
	keys   []string
	values map[string]any
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len reports the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Set stores a value. A repeated key keeps its first position and takes the new value.
func (o *Object) Set(key string, v any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// MarshalJSON writes the object preserving key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
