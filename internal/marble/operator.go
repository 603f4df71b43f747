package marble

import "strings"

// Operator is a separator row with a description. Start is always 0.
type Operator struct {
	Start Position `json:"start" msgpack:"start"`
	End   Position `json:"end" msgpack:"end"`
	Text  string   `json:"text" msgpack:"text"`
}

// NewOperator builds an operator from its raw bracket content: the row
// spans one cell more than the description, and the text is trimmed.
func NewOperator(description string) *Operator {
	return &Operator{
		Start: 0,
		End:   Position(1 + len(description)),
		Text:  strings.TrimSpace(description),
	}
}
