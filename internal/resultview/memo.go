package resultview

// Memo caches the Result for the last raw input. It is not safe for
// concurrent use; callers serialize access.
type Memo struct {
	format func(string) *Result
	raw    string
	result *Result
	valid  bool
}

// NewMemo returns a Memo that formats with f.
func NewMemo(f Formatter) *Memo {
	return &Memo{format: f.Format}
}

// Get returns the cached Result when raw equals the previous input and
// formats anew otherwise.
func (m *Memo) Get(raw string) *Result {
	if m.valid && raw == m.raw {
		return m.result
	}
	m.raw = raw
	m.result = m.format(raw)
	m.valid = true
	return m.result
}

// Reset drops the cached value.
func (m *Memo) Reset() {
	m.raw = ""
	m.result = nil
	m.valid = false
}
