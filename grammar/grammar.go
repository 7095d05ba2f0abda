package grammar

// VariableType controls whether, and under what name, a variable's node
// appears in the produced syntax tree.
//
// Hidden nodes are elided. Auxiliary nodes are generator-introduced helpers
// (repetition expansions and the like) and are elided unless referenced.
// Anonymous nodes surface only as literal text. Named nodes form the
// user-visible tree shape.
type VariableType int

const (
	VariableTypeHidden VariableType = iota
	VariableTypeAuxiliary
	VariableTypeAnonymous
	VariableTypeNamed
)

func (t VariableType) String() string {
	switch t {
	case VariableTypeHidden:
		return "hidden"
	case VariableTypeAuxiliary:
		return "auxiliary"
	case VariableTypeAnonymous:
		return "anonymous"
	case VariableTypeNamed:
		return "named"
	}
	return "unknown"
}

// Variable is a single grammar rule before it has been classified as lexical
// or syntactic. Names are unique within an InputGrammar.
type Variable struct {
	Name string
	Kind VariableType
	Rule Rule
}

func NamedVariable(name string, rule Rule) Variable {
	return Variable{Name: name, Kind: VariableTypeNamed, Rule: rule}
}

func HiddenVariable(name string, rule Rule) Variable {
	return Variable{Name: name, Kind: VariableTypeHidden, Rule: rule}
}

func AuxiliaryVariable(name string, rule Rule) Variable {
	return Variable{Name: name, Kind: VariableTypeAuxiliary, Rule: rule}
}

func AnonymousVariable(name string, rule Rule) Variable {
	return Variable{Name: name, Kind: VariableTypeAnonymous, Rule: rule}
}

// InputGrammar is the grammar as authored: the sole entry point into the
// compilation pipeline. All cross-references are still by name. It is
// immutable once produced.
type InputGrammar struct {
	Name              string
	Variables         []Variable
	ExtraTokens       []Rule
	ExpectedConflicts [][]string
	ExternalTokens    []Rule
	VariablesToInline []string

	// WordToken names the variable treated as the word/keyword token.
	// Empty means none.
	WordToken string
}
