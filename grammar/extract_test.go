package grammar

import (
	"strings"
	"testing"

	verr "github.com/arbor-lang/arbc/error"
)

func testLexicalVariableIndex(t *testing.T, g *LexicalGrammar, name string) int {
	t.Helper()
	for i, v := range g.Variables {
		if v.Name == name {
			return i
		}
	}
	t.Fatalf("lexical variable was not found: %v", name)
	return -1
}

func testSyntaxVariable(t *testing.T, g *SyntaxGrammar, name string) (int, *SyntaxVariable) {
	t.Helper()
	for i, v := range g.Variables {
		if v.Name == name {
			return i, v
		}
	}
	t.Fatalf("syntax variable was not found: %v", name)
	return -1, nil
}

func TestExtractGrammarsResolvesReferences(t *testing.T) {
	input := &InputGrammar{
		Name: "test",
		Variables: []Variable{
			NamedVariable("a", Str("x")),
			NamedVariable("b", Seq(Sym("a"), Pat("[0-9]+"))),
			NamedVariable("c", Choice(Sym("b"), Blank())),
		},
	}

	lexical, syntax, err := ExtractGrammars(input)
	if err != nil {
		t.Fatal(err)
	}

	aIndex := testLexicalVariableIndex(t, lexical, "a")
	_, b := testSyntaxVariable(t, syntax, "b")
	if len(b.Productions) != 1 {
		t.Fatalf("unexpected production count for b; want: 1, got: %v", len(b.Productions))
	}
	steps := b.Productions[0].Steps
	if len(steps) != 2 {
		t.Fatalf("unexpected step count for b; want: 2, got: %v", len(steps))
	}
	if steps[0].Symbol != Terminal(aIndex) {
		t.Fatalf("the reference to a must resolve to its lexical index; want: %v, got: %v", Terminal(aIndex), steps[0].Symbol)
	}
	if !steps[1].Symbol.IsTerminal() {
		t.Fatalf("the inline pattern must become a terminal; got: %v", steps[1].Symbol)
	}
	if kind := lexical.Variables[steps[1].Symbol.Index].Kind; kind != VariableTypeAnonymous {
		t.Fatalf("an inline pattern token must be anonymous; got: %v", kind)
	}

	bIndex, _ := testSyntaxVariable(t, syntax, "b")
	_, c := testSyntaxVariable(t, syntax, "c")
	if len(c.Productions) != 2 {
		t.Fatalf("unexpected production count for c; want: 2, got: %v", len(c.Productions))
	}
	if c.Productions[0].FirstSymbol() != NonTerminal(bIndex) {
		t.Fatalf("the reference to b must resolve to its syntactic index; want: %v, got: %v", NonTerminal(bIndex), c.Productions[0].FirstSymbol())
	}
	if got := c.Productions[1].FirstSymbol(); !got.IsNil() {
		t.Fatalf("the blank alternative must be the epsilon production; got: %v", got)
	}
}

func TestExtractGrammarsDeduplicatesAnonymousTokens(t *testing.T) {
	input := &InputGrammar{
		Name: "test",
		Variables: []Variable{
			NamedVariable("sum", Seq(Sym("sum"), Str("+"), Sym("num"))),
			NamedVariable("num", Choice(Seq(Str("+"), Sym("digits")), Sym("digits"))),
			NamedVariable("digits", Pat("[0-9]+")),
		},
	}

	lexical, syntax, err := ExtractGrammars(input)
	if err != nil {
		t.Fatal(err)
	}

	plusCount := 0
	for _, v := range lexical.Variables {
		if v.Name == "+" {
			plusCount++
		}
	}
	if plusCount != 1 {
		t.Fatalf("the literal must be extracted once; want: 1, got: %v", plusCount)
	}

	_, sum := testSyntaxVariable(t, syntax, "sum")
	_, num := testSyntaxVariable(t, syntax, "num")
	if sum.Productions[0].Steps[1].Symbol != num.Productions[0].Steps[0].Symbol {
		t.Fatalf("both uses of the literal must share one terminal; got: %v and %v",
			sum.Productions[0].Steps[1].Symbol, num.Productions[0].Steps[0].Symbol)
	}
}

func TestExtractGrammarsExpandsRepeats(t *testing.T) {
	input := &InputGrammar{
		Name: "test",
		Variables: []Variable{
			NamedVariable("list", Seq(Sym("item"), Repeat(Sym("item")))),
			NamedVariable("item", Str("i")),
		},
	}

	_, syntax, err := ExtractGrammars(input)
	if err != nil {
		t.Fatal(err)
	}

	auxIndex, aux := testSyntaxVariable(t, syntax, "list_repeat1")
	if !aux.IsAuxiliary() {
		t.Fatalf("a repetition helper must be auxiliary; got: %v", aux.Kind)
	}
	if len(aux.Productions) != 2 {
		t.Fatalf("unexpected helper production count; want: 2, got: %v", len(aux.Productions))
	}
	if aux.Productions[0].FirstSymbol() != NonTerminal(auxIndex) {
		t.Fatalf("the helper must be left-recursive; got: %v", aux.Productions[0].FirstSymbol())
	}

	_, list := testSyntaxVariable(t, syntax, "list")
	if len(list.Productions) != 2 {
		t.Fatalf("unexpected production count for list; want: 2, got: %v", len(list.Productions))
	}
	var withHelper *Production
	for _, p := range list.Productions {
		if len(p.Steps) == 2 {
			withHelper = p
		}
	}
	if withHelper == nil || withHelper.Steps[1].Symbol != NonTerminal(auxIndex) {
		t.Fatalf("list must reference the helper in one alternative; got: %#v", list.Productions)
	}
}

func TestExtractGrammarsKeepsNestedPrecedence(t *testing.T) {
	input := &InputGrammar{
		Name: "test",
		Variables: []Variable{
			NamedVariable("expr", Prec(1, Seq(
				PrecLeft(3, Seq(Sym("x"), Sym("y"))),
				Sym("z"),
			))),
			NamedVariable("x", Str("a")),
			NamedVariable("y", Str("b")),
			NamedVariable("z", Str("c")),
		},
	}

	_, syntax, err := ExtractGrammars(input)
	if err != nil {
		t.Fatal(err)
	}

	_, expr := testSyntaxVariable(t, syntax, "expr")
	if len(expr.Productions) != 1 {
		t.Fatalf("unexpected production count; want: 1, got: %v", len(expr.Productions))
	}
	steps := expr.Productions[0].Steps
	if len(steps) != 3 {
		t.Fatalf("unexpected step count; want: 3, got: %v", len(steps))
	}
	for _, i := range []int{0, 1} {
		if steps[i].Precedence != 3 || steps[i].Associativity != AssociativityLeft {
			t.Fatalf("the inner annotation must win on step %v; want: 3/left, got: %v/%v",
				i, steps[i].Precedence, steps[i].Associativity)
		}
	}
	if steps[2].Precedence != 1 || steps[2].Associativity != AssociativityNil {
		t.Fatalf("the outer annotation must cover the remaining step; want: 1/none, got: %v/%v",
			steps[2].Precedence, steps[2].Associativity)
	}
}

func TestExtractGrammarsKeepsInnermostAlias(t *testing.T) {
	input := &InputGrammar{
		Name: "test",
		Variables: []Variable{
			NamedVariable("item", Aliased(Aliased(Sym("z"), "inner", true), "outer", true)),
			NamedVariable("z", Str("c")),
		},
	}

	_, syntax, err := ExtractGrammars(input)
	if err != nil {
		t.Fatal(err)
	}

	_, item := testSyntaxVariable(t, syntax, "item")
	alias := item.Productions[0].Steps[0].Alias
	if (alias != Alias{Value: "inner", IsNamed: true}) {
		t.Fatalf("the inner alias must win; want: inner, got: %v", alias.Value)
	}
}

func TestExtractGrammarsBuildsContiguousNfa(t *testing.T) {
	input := &InputGrammar{
		Name: "test",
		Variables: []Variable{
			NamedVariable("number", Pat("[0-9]+")),
			NamedVariable("identifier", Pat("[a-z][a-z0-9]*")),
			NamedVariable("arrow", Str("->")),
			NamedVariable("expr", Choice(Sym("number"), Sym("identifier"))),
		},
	}

	lexical, _, err := ExtractGrammars(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(lexical.Variables) != 3 {
		t.Fatalf("unexpected lexical variable count; want: 3, got: %v", len(lexical.Variables))
	}
	for i, v := range lexical.Variables {
		if i > 0 && v.StartState <= lexical.Variables[i-1].StartState {
			t.Fatalf("start states must ascend; got: %v then %v", lexical.Variables[i-1].StartState, v.StartState)
		}
		if got := lexical.VariableIndexForNfaState(v.StartState); got != i {
			t.Fatalf("unexpected owner of state %v; want: %v, got: %v", v.StartState, i, got)
		}
	}
	last := lexical.Variables[len(lexical.Variables)-1]
	if uint32(len(lexical.Nfa.States)) <= last.StartState {
		t.Fatalf("the last variable must own at least one state; states: %v, last start: %v",
			len(lexical.Nfa.States), last.StartState)
	}
	if !lexical.Variables[2].IsString {
		t.Fatalf("a literal token must be marked as a string")
	}
	if lexical.Variables[0].IsString {
		t.Fatalf("a pattern token must not be marked as a string")
	}

	lexSpec := lexical.LexSpec()
	if len(lexSpec.Entries) != 3 {
		t.Fatalf("unexpected lex spec entry count; want: 3, got: %v", len(lexSpec.Entries))
	}
	if string(lexSpec.Entries[0].Kind) != "number" {
		t.Fatalf("unexpected lex kind; want: number, got: %v", lexSpec.Entries[0].Kind)
	}
}

func TestExtractGrammarsResolvesMetadata(t *testing.T) {
	input := &InputGrammar{
		Name: "test",
		Variables: []Variable{
			NamedVariable("a", Seq(Sym("b"), Sym("c"))),
			NamedVariable("b", Seq(Sym("word"), Blank())),
			NamedVariable("c", Seq(Sym("word"), Sym("word"))),
			NamedVariable("word", Pat("[a-z]+")),
			NamedVariable("comment", Pat("#[^\n]*")),
		},
		ExtraTokens:       []Rule{Sym("comment"), Pat("\\s")},
		ExpectedConflicts: [][]string{{"b", "c"}},
		ExternalTokens:    []Rule{Sym("word"), Sym("_indent")},
		VariablesToInline: []string{"c"},
		WordToken:         "word",
	}

	lexical, syntax, err := ExtractGrammars(input)
	if err != nil {
		t.Fatal(err)
	}

	wordIndex := testLexicalVariableIndex(t, lexical, "word")
	commentIndex := testLexicalVariableIndex(t, lexical, "comment")

	if len(syntax.ExtraTokens) != 2 {
		t.Fatalf("unexpected extra token count; want: 2, got: %v", len(syntax.ExtraTokens))
	}
	if syntax.ExtraTokens[0] != Terminal(commentIndex) {
		t.Fatalf("unexpected extra token; want: %v, got: %v", Terminal(commentIndex), syntax.ExtraTokens[0])
	}
	if !syntax.ExtraTokens[1].IsTerminal() {
		t.Fatalf("an inline extra token must become a terminal; got: %v", syntax.ExtraTokens[1])
	}

	bIndex, _ := testSyntaxVariable(t, syntax, "b")
	cIndex, _ := testSyntaxVariable(t, syntax, "c")
	if len(syntax.ExpectedConflicts) != 1 {
		t.Fatalf("unexpected conflict count; want: 1, got: %v", len(syntax.ExpectedConflicts))
	}
	want := []Symbol{NonTerminal(bIndex), NonTerminal(cIndex)}
	for i, sym := range syntax.ExpectedConflicts[0] {
		if sym != want[i] {
			t.Fatalf("unexpected conflict symbol; want: %v, got: %v", want[i], sym)
		}
	}

	if len(syntax.ExternalTokens) != 2 {
		t.Fatalf("unexpected external token count; want: 2, got: %v", len(syntax.ExternalTokens))
	}
	if syntax.ExternalTokens[0].CorrespondingInternalToken != Terminal(wordIndex) {
		t.Fatalf("the external word token must alias the internal one; got: %v",
			syntax.ExternalTokens[0].CorrespondingInternalToken)
	}
	if syntax.ExternalTokens[1].Kind != VariableTypeHidden {
		t.Fatalf("an underscore external must be hidden; got: %v", syntax.ExternalTokens[1].Kind)
	}
	if !syntax.ExternalTokens[1].CorrespondingInternalToken.IsNil() {
		t.Fatalf("an external without an internal twin must have a nil symbol; got: %v",
			syntax.ExternalTokens[1].CorrespondingInternalToken)
	}

	if len(syntax.VariablesToInline) != 1 || syntax.VariablesToInline[0] != NonTerminal(cIndex) {
		t.Fatalf("unexpected inline symbols; got: %#v", syntax.VariablesToInline)
	}
	if syntax.WordToken != Terminal(wordIndex) {
		t.Fatalf("unexpected word token; want: %v, got: %v", Terminal(wordIndex), syntax.WordToken)
	}
}

func TestExtractGrammarsConfigurationErrors(t *testing.T) {
	tests := []struct {
		caption string
		input   *InputGrammar
		detail  string
	}{
		{
			caption: "undefined reference",
			input: &InputGrammar{
				Name: "test",
				Variables: []Variable{
					NamedVariable("a", Seq(Sym("nope"), Str("x"))),
				},
			},
			detail: "nope",
		},
		{
			caption: "duplicate variable name",
			input: &InputGrammar{
				Name: "test",
				Variables: []Variable{
					NamedVariable("a", Str("x")),
					NamedVariable("a", Str("y")),
				},
			},
			detail: "a",
		},
		{
			caption: "variable shadowing a repetition helper",
			input: &InputGrammar{
				Name: "test",
				Variables: []Variable{
					NamedVariable("list", Seq(Sym("item"), Repeat(Sym("item")))),
					NamedVariable("list_repeat1", Str("x")),
					NamedVariable("item", Str("i")),
				},
			},
			detail: "list_repeat1",
		},
		{
			caption: "undefined conflict name",
			input: &InputGrammar{
				Name: "test",
				Variables: []Variable{
					NamedVariable("a", Seq(Sym("a"), Str("x"))),
				},
				ExpectedConflicts: [][]string{{"ghost"}},
			},
			detail: "ghost",
		},
		{
			caption: "inlining a token",
			input: &InputGrammar{
				Name: "test",
				Variables: []Variable{
					NamedVariable("a", Seq(Sym("tok"), Sym("a"))),
					NamedVariable("tok", Str("x")),
				},
				VariablesToInline: []string{"tok"},
			},
			detail: "tok",
		},
		{
			caption: "word naming a non-terminal",
			input: &InputGrammar{
				Name: "test",
				Variables: []Variable{
					NamedVariable("a", Seq(Sym("a"), Str("x"))),
				},
				WordToken: "a",
			},
			detail: "a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, _, err := ExtractGrammars(tt.input)
			if err == nil {
				t.Fatalf("an error must occur")
			}
			specErrs, ok := err.(verr.SpecErrors)
			if !ok {
				t.Fatalf("unexpected error type: %T", err)
			}
			found := false
			for _, e := range specErrs {
				if e.Detail == tt.detail {
					found = true
				}
			}
			if !found {
				t.Fatalf("the offending name must be reported; want: %v, got: %v", tt.detail, err)
			}
			if !strings.Contains(err.Error(), "error:") {
				t.Fatalf("unexpected error format: %v", err)
			}
		})
	}
}
