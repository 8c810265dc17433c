package records

import (
	"encoding/json"
	"strings"
	"unicode"

	"analysis-backend/internal/resultview"
)

const (
	keyAccountNumber     = "account_number"
	keyDueDate           = "due_date"
	keyConsumptionAmount = "consumption_amount"
	keyAmountDue         = "amount_due"
)

var knownKeys = map[string]bool{
	keyAccountNumber:     true,
	keyDueDate:           true,
	keyConsumptionAmount: true,
	keyAmountDue:         true,
}

// Build parses an analysis payload into Energy Use rows. A single object
// yields at most one row; an array yields one per element. Elements without
// any recognised field are skipped. Rows carry no ids or owner yet.
func Build(raw string) ([]EnergyUse, error) {
	parsed, err := resultview.Decode([]byte(resultview.Clean(raw)))
	if err != nil {
		return nil, ErrNoJSON
	}

	var items []any
	switch v := parsed.(type) {
	case *resultview.Object:
		items = []any{v}
	case []any:
		items = v
	default:
		return nil, ErrNoJSON
	}

	out := make([]EnergyUse, 0, len(items))
	for i, item := range items {
		obj, ok := item.(*resultview.Object)
		if !ok {
			continue
		}
		rec, ok := fromObject(obj)
		if !ok {
			continue
		}
		rec.RowIndex = i + 1
		out = append(out, rec)
	}
	return out, nil
}

func fromObject(obj *resultview.Object) (EnergyUse, bool) {
	var rec EnergyUse
	found := false
	for _, key := range obj.Keys() {
		norm := normalizeKey(key)
		if !knownKeys[norm] {
			continue
		}
		v, _ := obj.Get(key)
		text := strings.TrimSpace(resultview.Text(v))
		if v == nil || text == "" {
			continue
		}
		switch norm {
		case keyAccountNumber:
			rec.AccountNumber = text
			found = true
		case keyDueDate:
			if t, ok := resultview.ParseDate(text); ok {
				rec.DueDate = &t
				found = true
			}
		case keyConsumptionAmount:
			if f, ok := resultview.Number(v); ok {
				rec.ConsumptionAmount = &f
				found = true
			}
		case keyAmountDue:
			if f, ok := resultview.Number(v); ok {
				rec.AmountDue = &f
				found = true
			}
		}
	}
	if !found {
		return EnergyUse{}, false
	}
	src, err := json.Marshal(obj)
	if err == nil {
		rec.Source = src
	}
	return rec, true
}

// normalizeKey maps "Account Number", "accountNumber" and "account-number"
// to account_number.
func normalizeKey(key string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range strings.TrimSpace(key) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.Trim(b.String(), "_")
}
