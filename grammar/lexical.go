package grammar

import (
	"fmt"

	mlspec "github.com/nihei9/maleeni/spec"
)

// LexicalVariable is one extracted token rule. StartState is the first NFA
// state id belonging to the variable's transition graph; the states owned by
// variable i are exactly [StartState_i, StartState_i+1), with the last
// variable owning every remaining state.
type LexicalVariable struct {
	Name       string
	Kind       VariableType
	IsString   bool
	StartState uint32
}

// LexicalGrammar is the tokenizer half of an extracted grammar. It owns its
// NFA exclusively; Variables are stored in ascending StartState order.
type LexicalGrammar struct {
	Nfa       *Nfa
	Variables []LexicalVariable

	lexSpec *mlspec.LexSpec
}

// VariableIndexForNfaState returns the index of the first variable whose
// StartState is at or after stateID.
//
// This is a boundary lookup: it answers correctly only when stateID is
// itself some variable's StartState. An interior state id lands in the
// following variable, so callers must not use this for general
// state-to-variable classification. Querying past the last variable's
// StartState is a programming error and panics.
func (g *LexicalGrammar) VariableIndexForNfaState(stateID uint32) int {
	for i, v := range g.Variables {
		if v.StartState >= stateID {
			return i
		}
	}
	panic(fmt.Sprintf("no lexical variable starts at or after NFA state %v", stateID))
}

// LexSpec returns the extracted token rules as a maleeni lexical
// specification, ready for compilation into a runnable lexer.
func (g *LexicalGrammar) LexSpec() *mlspec.LexSpec {
	return g.lexSpec
}
