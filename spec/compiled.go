package spec

import mlspec "github.com/nihei9/maleeni/spec"

// CompiledGrammar is the JSON artifact the compile command emits: the
// extracted tokenizer and context-free grammars plus the inlining table, in
// a form the table builder can load back without name resolution.
type CompiledGrammar struct {
	Name      string                  `json:"name"`
	Lexical   *LexicalSpecification   `json:"lexical_specification"`
	Syntactic *SyntacticSpecification `json:"syntactic_specification"`
	Inlines   *InlineSpecification    `json:"inlines"`
}

type LexicalSpecification struct {
	Lexer     string                  `json:"lexer"`
	Maleeni   *Maleeni                `json:"maleeni"`
	Variables []*LexicalVariableEntry `json:"variables"`
}

type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
}

type LexicalVariableEntry struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	IsString   bool   `json:"is_string"`
	StartState uint32 `json:"start_state"`
}

type SyntacticSpecification struct {
	Variables         []*SyntaxVariableEntry `json:"variables"`
	ExtraTokens       []*SymbolEntry         `json:"extra_tokens,omitempty"`
	ExpectedConflicts [][]*SymbolEntry       `json:"expected_conflicts,omitempty"`
	ExternalTokens    []*ExternalTokenEntry  `json:"external_tokens,omitempty"`
	VariablesToInline []*SymbolEntry         `json:"variables_to_inline,omitempty"`
	WordToken         *SymbolEntry           `json:"word_token,omitempty"`
}

type SymbolEntry struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
}

type SyntaxVariableEntry struct {
	Name        string             `json:"name"`
	Kind        string             `json:"kind"`
	Productions []*ProductionEntry `json:"productions"`
}

type ProductionEntry struct {
	Steps             []*ProductionStepEntry `json:"steps"`
	DynamicPrecedence int                    `json:"dynamic_precedence"`
}

type ProductionStepEntry struct {
	Symbol        *SymbolEntry `json:"symbol"`
	Precedence    int          `json:"precedence"`
	Associativity string       `json:"associativity,omitempty"`
	Alias         *AliasEntry  `json:"alias,omitempty"`
}

type AliasEntry struct {
	Value   string `json:"value"`
	IsNamed bool   `json:"is_named"`
}

type ExternalTokenEntry struct {
	Name                       string       `json:"name"`
	Kind                       string       `json:"kind"`
	CorrespondingInternalToken *SymbolEntry `json:"corresponding_internal_token,omitempty"`
}

// InlineSpecification serializes the inlined-production map. Productions is
// the arena; each entry addresses the outer production by variable and
// production position and lists its replacements as arena indices.
type InlineSpecification struct {
	Productions []*ProductionEntry `json:"productions"`
	Entries     []*InlineEntry     `json:"entries"`
}

type InlineEntry struct {
	Variable     int    `json:"variable"`
	Production   int    `json:"production"`
	Step         uint32 `json:"step"`
	Replacements []int  `json:"replacements"`
}
