package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo           Code = 1000
	LexUnknownChar    Code = 1001
	LexBadDescription Code = 1002

	// Синтаксические
	SynInfo                   Code = 2000
	SynUnexpectedToken        Code = 2001
	SynExpectCompletion       Code = 2002
	SynTrailingAfterEnd       Code = 2003
	SynSpaceInLifetime        Code = 2004
	SynUnclosedBracket        Code = 2005
	SynEmptyDescription       Code = 2006
	SynOperatorNotAtStart     Code = 2007
	SynUnexpectedCloseBracket Code = 2008

	// Структурные (AST -> модель)
	StrInfo            Code = 3000
	StrMalformedLayer  Code = 3001
	StrMissingPayload  Code = 3002
	StrBadItem         Code = 3003
	StrBadCompletion   Code = 3004
	StrPositionOverrun Code = 3005

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001

	// Конфигурация и внешние входы
	PrjInfo          Code = 5000
	PrjConfigInvalid Code = 5001
	PrjLinksInvalid  Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	LexInfo:                   "Lexical information",
	LexUnknownChar:            "Unknown character",
	LexBadDescription:         "Character not allowed in operator description",
	SynInfo:                   "Syntax information",
	SynUnexpectedToken:        "Unexpected token",
	SynExpectCompletion:       "Expected completion marker",
	SynTrailingAfterEnd:       "Unexpected text after end of layer",
	SynSpaceInLifetime:        "Space inside observable lifetime",
	SynUnclosedBracket:        "Unclosed operator bracket",
	SynEmptyDescription:       "Empty operator description",
	SynOperatorNotAtStart:     "Operator must start the line",
	SynUnexpectedCloseBracket: "Unexpected closing bracket",
	StrInfo:                   "Structural information",
	StrMalformedLayer:         "Malformed layer",
	StrMissingPayload:         "Layer payload missing",
	StrBadItem:                "Malformed lifetime entry",
	StrBadCompletion:          "Malformed completion",
	StrPositionOverrun:        "Position out of range",
	IOInfo:                    "I/O information",
	IOLoadFileError:           "Failed to load file",
	PrjInfo:                   "Project information",
	PrjConfigInvalid:          "Invalid configuration",
	PrjLinksInvalid:           "Invalid emission links",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("STR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
