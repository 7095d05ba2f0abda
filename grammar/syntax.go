package grammar

import (
	"fmt"
	"strings"
)

// ProductionStep is one position in a production's right-hand side, carrying
// the annotations conflict resolution will need later. The zero Alias and
// AssociativityNil mean unannotated. Steps are plain comparable values so
// they can serve as map keys and sort deterministically.
type ProductionStep struct {
	Symbol        Symbol
	Precedence    int
	Associativity Associativity
	Alias         Alias
}

func NewProductionStep(sym Symbol) ProductionStep {
	return ProductionStep{Symbol: sym}
}

// WithPrec returns a copy of the step with the precedence and associativity
// replaced. The symbol and alias are preserved.
func (s ProductionStep) WithPrec(precedence int, assoc Associativity) ProductionStep {
	return ProductionStep{
		Symbol:        s.Symbol,
		Precedence:    precedence,
		Associativity: assoc,
		Alias:         s.Alias,
	}
}

// WithAlias returns a copy of the step with the alias replaced. The
// precedence and associativity are preserved.
func (s ProductionStep) WithAlias(value string, isNamed bool) ProductionStep {
	return ProductionStep{
		Symbol:        s.Symbol,
		Precedence:    s.Precedence,
		Associativity: s.Associativity,
		Alias:         Alias{Value: value, IsNamed: isNamed},
	}
}

// Less orders steps by symbol, then precedence, then associativity, then
// alias, giving deterministic iteration when steps key sorted collections.
func (s ProductionStep) Less(t ProductionStep) bool {
	if s.Symbol != t.Symbol {
		if s.Symbol.Kind != t.Symbol.Kind {
			return s.Symbol.Kind < t.Symbol.Kind
		}
		return s.Symbol.Index < t.Symbol.Index
	}
	if s.Precedence != t.Precedence {
		return s.Precedence < t.Precedence
	}
	if s.Associativity != t.Associativity {
		return s.Associativity < t.Associativity
	}
	if s.Alias.Value != t.Alias.Value {
		return s.Alias.Value < t.Alias.Value
	}
	return !s.Alias.IsNamed && t.Alias.IsNamed
}

// Production is an ordered step sequence. The zero value is the epsilon
// production.
type Production struct {
	Steps             []ProductionStep
	DynamicPrecedence int
}

// FirstSymbol returns the symbol of the first step, or the nil symbol for
// the epsilon production.
func (p *Production) FirstSymbol() Symbol {
	if len(p.Steps) == 0 {
		return Symbol{}
	}
	return p.Steps[0].Symbol
}

// LastPrecedence reads the final step's precedence. Reduce-time conflict
// resolution cares about the precedence context established at the end of a
// production, not its start.
func (p *Production) LastPrecedence() int {
	if len(p.Steps) == 0 {
		return 0
	}
	return p.Steps[len(p.Steps)-1].Precedence
}

func (p *Production) LastAssociativity() Associativity {
	if len(p.Steps) == 0 {
		return AssociativityNil
	}
	return p.Steps[len(p.Steps)-1].Associativity
}

// signature is a structural fingerprint used to deduplicate productions in
// the inlining arena. Identity is never derived from it.
func (p *Production) signature() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:", p.DynamicPrecedence)
	for _, s := range p.Steps {
		fmt.Fprintf(&b, "%v/%v/%q/%q/%v;", s.Symbol, s.Precedence, string(s.Associativity), s.Alias.Value, s.Alias.IsNamed)
	}
	return b.String()
}

// SyntaxVariable is one non-terminal of the extracted context-free grammar.
type SyntaxVariable struct {
	Name        string
	Kind        VariableType
	Productions []*Production
}

func (v *SyntaxVariable) IsAuxiliary() bool {
	return v.Kind == VariableTypeAuxiliary
}

// ExternalToken is a token recognized by an external scanner. When an
// internal lexical variable shares its name, CorrespondingInternalToken
// holds that variable's terminal symbol so precedence and conflict handling
// can treat the two as one token; otherwise it is the nil symbol.
type ExternalToken struct {
	Name                       string
	Kind                       VariableType
	CorrespondingInternalToken Symbol
}

// SyntaxGrammar is the context-free half of an extracted grammar. Every
// name-based reference from the InputGrammar has been resolved to a Symbol.
type SyntaxGrammar struct {
	Variables         []*SyntaxVariable
	ExtraTokens       []Symbol
	ExpectedConflicts [][]Symbol
	ExternalTokens    []ExternalToken
	VariablesToInline []Symbol

	// WordToken is the nil symbol when the grammar declares no word token.
	WordToken Symbol
}
