package resultview

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// NotAvailable is shown for missing or unformattable values.
const NotAvailable = "N/A"

// FieldType classifies a field for presentation.
type FieldType string

const (
	FieldAccount FieldType = "account"
	FieldDate    FieldType = "date"
	FieldAmount  FieldType = "amount"
	FieldDefault FieldType = "default"
)

// DisplayField is a rendered field of the typed presentation path.
type DisplayField struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
	Value string    `json:"value"`
}

var fieldTokens = []struct {
	typ    FieldType
	tokens []string
}{
	{FieldAccount, []string{"account"}},
	{FieldDate, []string{"date", "due"}},
	{FieldAmount, []string{"amount", "total", "cost", "price", "kilowatt", "kwh"}},
}

// Classify matches key and label against known tokens, first match wins.
func Classify(key, label string) FieldType {
	haystack := strings.ToLower(key + " " + label)
	for _, ft := range fieldTokens {
		for _, tok := range ft.tokens {
			if strings.Contains(haystack, tok) {
				return ft.typ
			}
		}
	}
	return FieldDefault
}

// Render formats a value for display. An amount-due key always renders as
// currency, even though "due" would classify it as a date.
func Render(key, label string, v any) string {
	if Missing(v) {
		return NotAvailable
	}

	if isAmountDue(key) {
		return formatCurrency(v)
	}

	switch Classify(key, label) {
	case FieldAmount:
		return formatNumber(v)
	case FieldDate:
		return formatDate(v)
	default:
		return Text(v)
	}
}

// Text returns the plain text form of a decoded JSON value.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case *Object, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

func isAmountDue(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "amount") && strings.Contains(lower, "due")
}

// Missing reports whether v renders as NotAvailable: nil or a string that is
// empty after trimming whitespace.
func Missing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

// Number reads a numeric payload value. Strings may carry a leading $ and
// thousands separators.
func Number(v any) (float64, bool) {
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		clean := strings.TrimSpace(t)
		clean = strings.TrimPrefix(clean, "$")
		clean = strings.ReplaceAll(clean, ",", "")
		f, err = strconv.ParseFloat(clean, 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatCurrency(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return NotAvailable
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	whole, frac, _ := strings.Cut(strconv.FormatFloat(f, 'f', 2, 64), ".")
	return sign + "$" + groupDigits(whole) + "." + frac
}

// formatNumber groups thousands and keeps at most three fraction digits.
func formatNumber(v any) string {
	f, ok := toFloat(v)
	if !ok {
		return NotAvailable
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	text := strconv.FormatFloat(f, 'f', 3, 64)
	text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	whole, frac, hasFrac := strings.Cut(text, ".")
	out := groupDigits(whole)
	if hasFrac {
		out += "." + frac
	}
	if out == "0" {
		return out
	}
	return sign + out
}

// groupDigits inserts thousands separators into an unsigned decimal integer
// of any length.
func groupDigits(whole string) string {
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return whole
	}
	return humanize.BigComma(n)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02-Jan-2006",
}

// ParseDate tries the date layouts seen in analysis payloads.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatDate(v any) string {
	raw := Text(v)
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 2006")
}
