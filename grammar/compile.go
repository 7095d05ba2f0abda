package grammar

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arbor-lang/arbc/spec"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

// Compile runs the whole pipeline over an InputGrammar: extraction,
// inlining, and compilation of the lexical half into a runnable maleeni
// lexer. The result is the portable artifact the table builder loads.
func Compile(input *InputGrammar) (*spec.CompiledGrammar, error) {
	lexical, syntax, err := ExtractGrammars(input)
	if err != nil {
		return nil, err
	}

	inlines, err := ProcessInlines(syntax)
	if err != nil {
		return nil, err
	}

	clexspec, err, cErrs := mlcompiler.Compile(lexical.LexSpec(), mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf(b.String())
		}
		return nil, err
	}

	kindToTerm := make([]int, len(clexspec.KindNames))
	kindIndex := map[string]int{}
	for i, e := range lexical.LexSpec().Entries {
		kindIndex[string(e.Kind)] = i
	}
	for i, k := range clexspec.KindNames {
		if k == mlspec.LexKindNameNil {
			continue
		}
		term, ok := kindIndex[k.String()]
		if !ok {
			return nil, fmt.Errorf("lex kind '%v' was not found among the lexical variables", k)
		}
		kindToTerm[i] = term
	}

	return &spec.CompiledGrammar{
		Name: input.Name,
		Lexical: &spec.LexicalSpecification{
			Lexer: "maleeni",
			Maleeni: &spec.Maleeni{
				Spec:           clexspec,
				KindToTerminal: kindToTerm,
			},
			Variables: lexicalVariableEntries(lexical),
		},
		Syntactic: syntacticSpecification(syntax),
		Inlines:   inlineSpecification(syntax, inlines),
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
}

func lexicalVariableEntries(g *LexicalGrammar) []*spec.LexicalVariableEntry {
	entries := make([]*spec.LexicalVariableEntry, 0, len(g.Variables))
	for _, v := range g.Variables {
		entries = append(entries, &spec.LexicalVariableEntry{
			Name:       v.Name,
			Kind:       v.Kind.String(),
			IsString:   v.IsString,
			StartState: v.StartState,
		})
	}
	return entries
}

func syntacticSpecification(g *SyntaxGrammar) *spec.SyntacticSpecification {
	s := &spec.SyntacticSpecification{}
	for _, v := range g.Variables {
		prods := make([]*spec.ProductionEntry, 0, len(v.Productions))
		for _, p := range v.Productions {
			prods = append(prods, productionEntry(p))
		}
		s.Variables = append(s.Variables, &spec.SyntaxVariableEntry{
			Name:        v.Name,
			Kind:        v.Kind.String(),
			Productions: prods,
		})
	}
	for _, sym := range g.ExtraTokens {
		s.ExtraTokens = append(s.ExtraTokens, symbolEntry(sym))
	}
	for _, conflict := range g.ExpectedConflicts {
		entry := make([]*spec.SymbolEntry, 0, len(conflict))
		for _, sym := range conflict {
			entry = append(entry, symbolEntry(sym))
		}
		s.ExpectedConflicts = append(s.ExpectedConflicts, entry)
	}
	for _, t := range g.ExternalTokens {
		e := &spec.ExternalTokenEntry{
			Name: t.Name,
			Kind: t.Kind.String(),
		}
		if !t.CorrespondingInternalToken.IsNil() {
			e.CorrespondingInternalToken = symbolEntry(t.CorrespondingInternalToken)
		}
		s.ExternalTokens = append(s.ExternalTokens, e)
	}
	for _, sym := range g.VariablesToInline {
		s.VariablesToInline = append(s.VariablesToInline, symbolEntry(sym))
	}
	if !g.WordToken.IsNil() {
		s.WordToken = symbolEntry(g.WordToken)
	}
	return s
}

func inlineSpecification(g *SyntaxGrammar, m *InlinedProductionMap) *spec.InlineSpecification {
	s := &spec.InlineSpecification{
		Entries: []*spec.InlineEntry{},
	}
	for _, p := range m.Productions {
		s.Productions = append(s.Productions, productionEntry(p))
	}

	position := map[*Production][2]int{}
	for vi, v := range g.Variables {
		for pi, p := range v.Productions {
			position[p] = [2]int{vi, pi}
		}
	}
	for key, indices := range m.productionMap {
		pos, ok := position[key.production]
		if !ok {
			// Entries keyed by arena productions are reachable by chaining
			// lookups through the arena itself; the artifact only needs the
			// grammar-rooted ones.
			continue
		}
		s.Entries = append(s.Entries, &spec.InlineEntry{
			Variable:     pos[0],
			Production:   pos[1],
			Step:         key.stepIndex,
			Replacements: indices,
		})
	}
	sort.Slice(s.Entries, func(i, j int) bool {
		a, b := s.Entries[i], s.Entries[j]
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		if a.Production != b.Production {
			return a.Production < b.Production
		}
		return a.Step < b.Step
	})
	return s
}

func productionEntry(p *Production) *spec.ProductionEntry {
	steps := make([]*spec.ProductionStepEntry, 0, len(p.Steps))
	for _, s := range p.Steps {
		e := &spec.ProductionStepEntry{
			Symbol:        symbolEntry(s.Symbol),
			Precedence:    s.Precedence,
			Associativity: string(s.Associativity),
		}
		if !s.Alias.IsEmpty() {
			e.Alias = &spec.AliasEntry{
				Value:   s.Alias.Value,
				IsNamed: s.Alias.IsNamed,
			}
		}
		steps = append(steps, e)
	}
	return &spec.ProductionEntry{
		Steps:             steps,
		DynamicPrecedence: p.DynamicPrecedence,
	}
}

func symbolEntry(sym Symbol) *spec.SymbolEntry {
	return &spec.SymbolEntry{
		Kind:  sym.Kind.String(),
		Index: sym.Index,
	}
}
