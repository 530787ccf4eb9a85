package pricing

// LabelEncoder is a fixed bidirectional string<->int mapping for one
// categorical column, built once from the persisted vocabulary. Codes
// are the positions in Classes, matching the training-time assignment.
type LabelEncoder struct {
	Classes []string
	index   map[string]int
}

func NewLabelEncoder(classes []string) *LabelEncoder {
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	return &LabelEncoder{Classes: classes, index: idx}
}

// TryEncode maps value to its trained integer code. The second return
// is false for values outside the vocabulary.
func (e *LabelEncoder) TryEncode(value string) (int, bool) {
	code, ok := e.index[value]
	return code, ok
}

// Decode maps a code back to its label, for diagnostics.
func (e *LabelEncoder) Decode(code int) (string, bool) {
	if code < 0 || code >= len(e.Classes) {
		return "", false
	}
	return e.Classes[code], true
}
