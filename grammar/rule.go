package grammar

// Associativity controls how a run of operators at the same precedence level
// groups during conflict resolution.
type Associativity string

const (
	AssociativityNil   = Associativity("")
	AssociativityLeft  = Associativity("left")
	AssociativityRight = Associativity("right")
)

// Alias renames the tree node produced by a production step independent of
// the underlying symbol's own name. The zero value means no alias.
type Alias struct {
	Value   string
	IsNamed bool
}

func (a Alias) IsEmpty() bool {
	return a == Alias{}
}

// Rule is an uncompiled grammar expression. The concrete types below form a
// closed set; consumers dispatch with an exhaustive type switch.
type Rule interface {
	ruleNode()
}

type BlankRule struct{}

type StringRule struct {
	Value string
}

type PatternRule struct {
	Value string
}

// NamedSymbolRule refers to another variable by name. Name references only
// appear before symbol interning; extraction replaces them with SymbolRules.
type NamedSymbolRule struct {
	Name string
}

type SymbolRule struct {
	Sym Symbol
}

type SeqRule struct {
	Members []Rule
}

type ChoiceRule struct {
	Members []Rule
}

type RepeatRule struct {
	Content Rule
}

// MetadataRule annotates its content without changing the language it
// matches.
type MetadataRule struct {
	Params  MetadataParams
	Content Rule
}

type MetadataParams struct {
	Precedence        int
	HasPrecedence     bool
	DynamicPrecedence int
	Associativity     Associativity
	IsToken           bool
	Alias             Alias
}

func (BlankRule) ruleNode()       {}
func (StringRule) ruleNode()      {}
func (PatternRule) ruleNode()     {}
func (NamedSymbolRule) ruleNode() {}
func (SymbolRule) ruleNode()      {}
func (SeqRule) ruleNode()         {}
func (ChoiceRule) ruleNode()      {}
func (RepeatRule) ruleNode()      {}
func (MetadataRule) ruleNode()    {}

func Blank() Rule {
	return BlankRule{}
}

func Str(value string) Rule {
	return StringRule{Value: value}
}

func Pat(value string) Rule {
	return PatternRule{Value: value}
}

func Sym(name string) Rule {
	return NamedSymbolRule{Name: name}
}

func SymRef(sym Symbol) Rule {
	return SymbolRule{Sym: sym}
}

func Seq(members ...Rule) Rule {
	return SeqRule{Members: members}
}

func Choice(members ...Rule) Rule {
	return ChoiceRule{Members: members}
}

func Repeat(content Rule) Rule {
	return RepeatRule{Content: content}
}

func Prec(precedence int, content Rule) Rule {
	return MetadataRule{
		Params: MetadataParams{
			Precedence:    precedence,
			HasPrecedence: true,
		},
		Content: content,
	}
}

func PrecLeft(precedence int, content Rule) Rule {
	return MetadataRule{
		Params: MetadataParams{
			Precedence:    precedence,
			HasPrecedence: true,
			Associativity: AssociativityLeft,
		},
		Content: content,
	}
}

func PrecRight(precedence int, content Rule) Rule {
	return MetadataRule{
		Params: MetadataParams{
			Precedence:    precedence,
			HasPrecedence: true,
			Associativity: AssociativityRight,
		},
		Content: content,
	}
}

func PrecDynamic(precedence int, content Rule) Rule {
	return MetadataRule{
		Params: MetadataParams{
			DynamicPrecedence: precedence,
		},
		Content: content,
	}
}

func Token(content Rule) Rule {
	return MetadataRule{
		Params: MetadataParams{
			IsToken: true,
		},
		Content: content,
	}
}

func Aliased(content Rule, value string, isNamed bool) Rule {
	return MetadataRule{
		Params: MetadataParams{
			Alias: Alias{Value: value, IsNamed: isNamed},
		},
		Content: content,
	}
}
