package token

// Kind represents the category of a notation token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the input.
	EOF
	// Newline terminates a layer.
	Newline // \n

	// Space is a run of ' ' characters.
	Space
	// Dash is a timespan.
	Dash // -
	// Word is a run of [a-zA-Z0-9+]; it carries kind markers and items.
	Word
	// Gt marks a continued observable.
	Gt // >
	// Pipe marks a completed observable.
	Pipe // |
	// Star marks an errored observable.
	Star // *
	// LBracket opens an operator.
	LBracket // [
	// RBracket closes an operator.
	RBracket // ]
	// Description is the free text of an operator.
	Description
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Newline:     "Newline",
	Space:       "Space",
	Dash:        "Dash",
	Word:        "Word",
	Gt:          "Gt",
	Pipe:        "Pipe",
	Star:        "Star",
	LBracket:    "LBracket",
	RBracket:    "RBracket",
	Description: "Description",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
