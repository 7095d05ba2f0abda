package grammar

import "fmt"

type SymbolType int

const (
	SymbolTypeNil SymbolType = iota
	SymbolTypeNonTerminal
	SymbolTypeTerminal
	SymbolTypeExternal
)

func (t SymbolType) String() string {
	switch t {
	case SymbolTypeNil:
		return "nil"
	case SymbolTypeNonTerminal:
		return "non-terminal"
	case SymbolTypeTerminal:
		return "terminal"
	case SymbolTypeExternal:
		return "external"
	}
	return "unknown"
}

// Symbol identifies a terminal, non-terminal, or external token by its
// position within the corresponding section of a grammar. Two symbols are
// the same symbol iff their kind and index are equal. The zero value is the
// nil symbol, which refers to nothing.
type Symbol struct {
	Kind  SymbolType
	Index int
}

func NonTerminal(index int) Symbol {
	return Symbol{Kind: SymbolTypeNonTerminal, Index: index}
}

func Terminal(index int) Symbol {
	return Symbol{Kind: SymbolTypeTerminal, Index: index}
}

func External(index int) Symbol {
	return Symbol{Kind: SymbolTypeExternal, Index: index}
}

func (s Symbol) IsNil() bool {
	return s.Kind == SymbolTypeNil
}

func (s Symbol) IsNonTerminal() bool {
	return s.Kind == SymbolTypeNonTerminal
}

func (s Symbol) IsTerminal() bool {
	return s.Kind == SymbolTypeTerminal
}

func (s Symbol) IsExternal() bool {
	return s.Kind == SymbolTypeExternal
}

func (s Symbol) String() string {
	var prefix string
	switch s.Kind {
	case SymbolTypeNil:
		return "-"
	case SymbolTypeNonTerminal:
		prefix = "n"
	case SymbolTypeTerminal:
		prefix = "t"
	case SymbolTypeExternal:
		prefix = "x"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, s.Index)
}
