package grammar

import (
	"fmt"

	verr "github.com/arbor-lang/arbc/error"
)

// ExtractGrammars partitions an InputGrammar into its tokenizer and
// context-free halves. Variables whose rules reach no other variable become
// lexical variables compiled into the NFA; the rest become syntax variables
// whose productions reference resolved symbols. Grammar-wide metadata is
// translated from names to symbols; an unresolved name is a fatal
// configuration error.
func ExtractGrammars(input *InputGrammar) (*LexicalGrammar, *SyntaxGrammar, error) {
	if len(input.Variables) == 0 {
		return nil, nil, verr.SpecErrors{
			{Cause: semErrNoVariable},
		}
	}
	seen := map[string]struct{}{}
	var errs verr.SpecErrors
	for _, v := range input.Variables {
		if _, ok := seen[v.Name]; ok {
			errs = append(errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: v.Name,
			})
		}
		seen[v.Name] = struct{}{}
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}

	tokens := newTokenSet()
	var syntactic []Variable
	for _, v := range input.Variables {
		if isTokenContent(v.Rule) {
			tokens.addNamed(v)
		} else {
			syntactic = append(syntactic, v)
		}
	}

	syntactic = expandRepeats(syntactic)
	for _, v := range syntactic {
		if v.Kind != VariableTypeAuxiliary {
			continue
		}
		// A user variable may already occupy a generated helper's name.
		if _, ok := seen[v.Name]; ok {
			errs = append(errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: v.Name,
			})
		}
		seen[v.Name] = struct{}{}
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}

	r := &resolver{
		tokens:   tokens,
		nonTerms: map[string]int{},
		terms:    map[string]int{},
	}
	for i, v := range syntactic {
		r.nonTerms[v.Name] = i
	}
	for i, t := range tokens.tokens {
		r.terms[t.Name] = i
	}

	externalTokens, externalIndex, exErrs := resolveExternals(input.ExternalTokens, r)
	r.externals = externalIndex
	errs = append(errs, exErrs...)

	for i, v := range syntactic {
		resolved, resErrs := r.resolveRule(v.Rule)
		if len(resErrs) > 0 {
			errs = append(errs, resErrs...)
			continue
		}
		syntactic[i].Rule = resolved
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}

	variables := make([]*SyntaxVariable, 0, len(syntactic))
	for _, v := range syntactic {
		sv, err := flattenVariable(v)
		if err != nil {
			return nil, nil, err
		}
		variables = append(variables, sv)
	}

	syntax := &SyntaxGrammar{
		Variables:      variables,
		ExternalTokens: externalTokens,
	}

	for _, rule := range input.ExtraTokens {
		sym, err := r.resolveExtraToken(rule)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		syntax.ExtraTokens = append(syntax.ExtraTokens, sym)
	}

	for _, names := range input.ExpectedConflicts {
		conflict := make([]Symbol, 0, len(names))
		for _, name := range names {
			sym, ok := r.resolveName(name)
			if !ok {
				errs = append(errs, &verr.SpecError{
					Cause:  semErrUndefinedSym,
					Detail: name,
				})
				continue
			}
			conflict = append(conflict, sym)
		}
		syntax.ExpectedConflicts = append(syntax.ExpectedConflicts, conflict)
	}

	for _, name := range input.VariablesToInline {
		sym, ok := r.resolveName(name)
		if !ok {
			errs = append(errs, &verr.SpecError{
				Cause:  semErrUndefinedSym,
				Detail: name,
			})
			continue
		}
		if !sym.IsNonTerminal() {
			errs = append(errs, &verr.SpecError{
				Cause:  semErrInlineNonVariable,
				Detail: name,
			})
			continue
		}
		syntax.VariablesToInline = append(syntax.VariablesToInline, sym)
	}

	if input.WordToken != "" {
		sym, ok := r.resolveName(input.WordToken)
		switch {
		case !ok:
			errs = append(errs, &verr.SpecError{
				Cause:  semErrUndefinedSym,
				Detail: input.WordToken,
			})
		case !sym.IsTerminal():
			errs = append(errs, &verr.SpecError{
				Cause:  semErrWordNotToken,
				Detail: input.WordToken,
			})
		default:
			syntax.WordToken = sym
		}
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}

	nfa, lexVars, err := expandTokens(tokens.tokens)
	if err != nil {
		return nil, nil, err
	}
	lexSpec, _, err := genLexSpec(tokens.tokens)
	if err != nil {
		return nil, nil, err
	}

	lexical := &LexicalGrammar{
		Nfa:       nfa,
		Variables: lexVars,
		lexSpec:   lexSpec,
	}
	return lexical, syntax, nil
}

// expandRepeats rewrites every repetition in a syntactic rule into a
// left-recursive auxiliary variable, appending the helpers after the
// variables that introduced them. Repetitions inside token content are left
// alone; the tokenizer handles those directly.
func expandRepeats(variables []Variable) []Variable {
	result := make([]Variable, 0, len(variables))
	for _, v := range variables {
		e := &repeatExpander{base: v.Name}
		v.Rule = e.expand(v.Rule)
		result = append(result, v)
		result = append(result, e.aux...)
	}
	return result
}

type repeatExpander struct {
	base  string
	count int
	aux   []Variable
}

func (e *repeatExpander) expand(rule Rule) Rule {
	switch r := rule.(type) {
	case SeqRule:
		members := make([]Rule, len(r.Members))
		for i, m := range r.Members {
			members[i] = e.expand(m)
		}
		return SeqRule{Members: members}
	case ChoiceRule:
		members := make([]Rule, len(r.Members))
		for i, m := range r.Members {
			members[i] = e.expand(m)
		}
		return ChoiceRule{Members: members}
	case MetadataRule:
		if r.Params.IsToken {
			return r
		}
		return MetadataRule{Params: r.Params, Content: e.expand(r.Content)}
	case RepeatRule:
		content := e.expand(r.Content)
		e.count++
		name := fmt.Sprintf("%v_repeat%v", e.base, e.count)
		e.aux = append(e.aux, AuxiliaryVariable(name, Choice(
			Seq(Sym(name), content),
			content,
		)))
		// The helper matches one or more; an absent repetition is a blank
		// alternative at the reference site.
		return Choice(Sym(name), Blank())
	}
	return rule
}

type resolver struct {
	tokens    *tokenSet
	nonTerms  map[string]int
	terms     map[string]int
	externals map[string]int
}

// resolveName maps a variable name to its symbol. Syntactic variables win
// over lexical ones, which win over external-only declarations.
func (r *resolver) resolveName(name string) (Symbol, bool) {
	if i, ok := r.nonTerms[name]; ok {
		return NonTerminal(i), true
	}
	if i, ok := r.terms[name]; ok {
		return Terminal(i), true
	}
	if i, ok := r.externals[name]; ok {
		return External(i), true
	}
	return Symbol{}, false
}

// resolveRule rewrites a syntactic rule tree: name references become
// resolved symbols and embedded token content becomes anonymous lexical
// variables.
func (r *resolver) resolveRule(rule Rule) (Rule, verr.SpecErrors) {
	switch n := rule.(type) {
	case NamedSymbolRule:
		sym, ok := r.resolveName(n.Name)
		if !ok {
			return nil, verr.SpecErrors{
				{Cause: semErrUndefinedSym, Detail: n.Name},
			}
		}
		return SymbolRule{Sym: sym}, nil
	case StringRule, PatternRule:
		return SymbolRule{Sym: Terminal(r.tokens.internAnonymous(rule))}, nil
	case MetadataRule:
		if n.Params.IsToken {
			return SymbolRule{Sym: Terminal(r.tokens.internAnonymous(rule))}, nil
		}
		content, errs := r.resolveRule(n.Content)
		if len(errs) > 0 {
			return nil, errs
		}
		return MetadataRule{Params: n.Params, Content: content}, nil
	case SeqRule:
		members, errs := r.resolveMembers(n.Members)
		if len(errs) > 0 {
			return nil, errs
		}
		return SeqRule{Members: members}, nil
	case ChoiceRule:
		members, errs := r.resolveMembers(n.Members)
		if len(errs) > 0 {
			return nil, errs
		}
		return ChoiceRule{Members: members}, nil
	}
	return rule, nil
}

func (r *resolver) resolveMembers(members []Rule) ([]Rule, verr.SpecErrors) {
	var errs verr.SpecErrors
	resolved := make([]Rule, len(members))
	for i, m := range members {
		rm, resErrs := r.resolveRule(m)
		if len(resErrs) > 0 {
			errs = append(errs, resErrs...)
			continue
		}
		resolved[i] = rm
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return resolved, nil
}

// resolveExtraToken handles one entry of the extra-token list: either a
// reference to a declared token or inline token content.
func (r *resolver) resolveExtraToken(rule Rule) (Symbol, *verr.SpecError) {
	if n, ok := rule.(NamedSymbolRule); ok {
		sym, ok := r.resolveName(n.Name)
		if !ok {
			return Symbol{}, &verr.SpecError{
				Cause:  semErrUndefinedSym,
				Detail: n.Name,
			}
		}
		return sym, nil
	}
	if !isTokenContent(rule) {
		return Symbol{}, &verr.SpecError{
			Cause:  semErrTokenHasReference,
			Detail: tokenName(rule),
		}
	}
	return Terminal(r.tokens.internAnonymous(rule)), nil
}

// resolveExternals builds the external token list. An external that shares
// its name with an internal lexical variable records that variable's
// terminal symbol as its corresponding internal token.
func resolveExternals(rules []Rule, r *resolver) ([]ExternalToken, map[string]int, verr.SpecErrors) {
	var errs verr.SpecErrors
	tokens := make([]ExternalToken, 0, len(rules))
	index := map[string]int{}
	for _, rule := range rules {
		n, ok := rule.(NamedSymbolRule)
		if !ok {
			errs = append(errs, &verr.SpecError{
				Cause:  semErrExternalNotName,
				Detail: tokenName(rule),
			})
			continue
		}
		kind := VariableTypeNamed
		if len(n.Name) > 0 && n.Name[0] == '_' {
			kind = VariableTypeHidden
		}
		var internal Symbol
		if i, ok := r.terms[n.Name]; ok {
			internal = Terminal(i)
		}
		index[n.Name] = len(tokens)
		tokens = append(tokens, ExternalToken{
			Name:                       n.Name,
			Kind:                       kind,
			CorrespondingInternalToken: internal,
		})
	}
	return tokens, index, errs
}
