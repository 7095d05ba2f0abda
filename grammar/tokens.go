package grammar

import (
	"fmt"
	"regexp/syntax"
	"strings"
	"unicode"

	verr "github.com/arbor-lang/arbc/error"
	mlspec "github.com/nihei9/maleeni/spec"
)

// isTokenContent reports whether a rule can be recognized by the tokenizer
// alone, that is, whether it reaches no other variable.
func isTokenContent(rule Rule) bool {
	switch r := rule.(type) {
	case BlankRule, StringRule, PatternRule:
		return true
	case SeqRule:
		for _, m := range r.Members {
			if !isTokenContent(m) {
				return false
			}
		}
		return true
	case ChoiceRule:
		for _, m := range r.Members {
			if !isTokenContent(m) {
				return false
			}
		}
		return true
	case RepeatRule:
		return isTokenContent(r.Content)
	case MetadataRule:
		return isTokenContent(r.Content)
	}
	return false
}

// isStringContent reports whether a token consists of a single literal, in
// which case the tokenizer may treat it as keyword-like text.
func isStringContent(rule Rule) bool {
	switch r := rule.(type) {
	case StringRule:
		return true
	case MetadataRule:
		return isStringContent(r.Content)
	}
	return false
}

// ruleKey canonicalizes a rule tree so structurally identical anonymous
// tokens collapse into one lexical variable.
func ruleKey(rule Rule) string {
	var b strings.Builder
	writeRuleKey(&b, rule)
	return b.String()
}

func writeRuleKey(b *strings.Builder, rule Rule) {
	switch r := rule.(type) {
	case BlankRule:
		b.WriteString("b;")
	case StringRule:
		fmt.Fprintf(b, "s%q;", r.Value)
	case PatternRule:
		fmt.Fprintf(b, "p%q;", r.Value)
	case NamedSymbolRule:
		fmt.Fprintf(b, "n%q;", r.Name)
	case SymbolRule:
		fmt.Fprintf(b, "y%v;", r.Sym)
	case SeqRule:
		b.WriteString("q(")
		for _, m := range r.Members {
			writeRuleKey(b, m)
		}
		b.WriteString(")")
	case ChoiceRule:
		b.WriteString("c(")
		for _, m := range r.Members {
			writeRuleKey(b, m)
		}
		b.WriteString(")")
	case RepeatRule:
		b.WriteString("r(")
		writeRuleKey(b, r.Content)
		b.WriteString(")")
	case MetadataRule:
		fmt.Fprintf(b, "m%v(", r.Params)
		writeRuleKey(b, r.Content)
		b.WriteString(")")
	}
}

// tokenName derives a display name for an anonymous token from its content.
func tokenName(rule Rule) string {
	switch r := rule.(type) {
	case StringRule:
		return r.Value
	case PatternRule:
		return r.Value
	case MetadataRule:
		return tokenName(r.Content)
	}
	return ruleKey(rule)
}

// tokenSet accumulates lexical variables in discovery order, deduplicating
// anonymous tokens by content.
type tokenSet struct {
	tokens []Variable
	index  map[string]int
}

func newTokenSet() *tokenSet {
	return &tokenSet{
		index: map[string]int{},
	}
}

// addNamed registers a variable whose whole rule is token content. Named
// tokens are never merged, even when their content collides.
func (s *tokenSet) addNamed(v Variable) int {
	s.tokens = append(s.tokens, v)
	return len(s.tokens) - 1
}

func (s *tokenSet) internAnonymous(rule Rule) int {
	key := ruleKey(rule)
	if i, ok := s.index[key]; ok {
		return i
	}
	s.tokens = append(s.tokens, AnonymousVariable(tokenName(rule), rule))
	i := len(s.tokens) - 1
	s.index[key] = i
	return i
}

// tokenPrecedence reads the precedence annotation wrapping a token rule, if
// any. It lands on the token's accept states.
func tokenPrecedence(rule Rule) int {
	if m, ok := rule.(MetadataRule); ok {
		if m.Params.HasPrecedence {
			return m.Params.Precedence
		}
		return tokenPrecedence(m.Content)
	}
	return 0
}

// expandTokens compiles every token rule into the shared NFA. Each
// variable's states form a contiguous block starting at its StartState;
// blocks are laid out in variable order, so start states ascend.
func expandTokens(tokens []Variable) (*Nfa, []LexicalVariable, error) {
	nfa := NewNfa()
	vars := make([]LexicalVariable, 0, len(tokens))
	for i, t := range tokens {
		c := &tokenCompiler{}
		acceptID := c.add(NfaState{
			Kind:          NfaStateAccept,
			VariableIndex: i,
			Precedence:    tokenPrecedence(t.Rule),
		})
		entry, err := c.compileRule(t.Rule, acceptID)
		if err != nil {
			return nil, nil, &verr.SpecError{
				Cause:  err,
				Detail: t.Name,
			}
		}
		if entry != uint32(len(c.states)-1) {
			// The block is emitted in reverse so the entry point must be
			// the newest local state.
			entry = c.add(NfaState{Kind: NfaStateSplit, Next: entry, Alt: entry})
		}

		blockStart := uint32(len(nfa.States))
		n := uint32(len(c.states))
		remap := func(id uint32) uint32 {
			return blockStart + (n - 1 - id)
		}
		for j := len(c.states) - 1; j >= 0; j-- {
			s := c.states[j]
			if s.Kind != NfaStateAccept {
				s.Next = remap(s.Next)
			}
			if s.Kind == NfaStateSplit {
				s.Alt = remap(s.Alt)
			}
			nfa.AddState(s)
		}

		vars = append(vars, LexicalVariable{
			Name:       t.Name,
			Kind:       t.Kind,
			IsString:   isStringContent(t.Rule),
			StartState: blockStart,
		})
	}
	return nfa, vars, nil
}

// tokenCompiler builds one token's states with block-local ids. The block is
// built accept-first, then reversed on emission so the entry state lands at
// the block start.
type tokenCompiler struct {
	states []NfaState
}

func (c *tokenCompiler) add(s NfaState) uint32 {
	c.states = append(c.states, s)
	return uint32(len(c.states) - 1)
}

func (c *tokenCompiler) compileRule(rule Rule, next uint32) (uint32, error) {
	switch r := rule.(type) {
	case BlankRule:
		return next, nil
	case StringRule:
		runes := []rune(r.Value)
		for i := len(runes) - 1; i >= 0; i-- {
			next = c.add(NfaState{
				Kind:  NfaStateAdvance,
				Chars: SingleCharacter(runes[i]),
				Next:  next,
			})
		}
		return next, nil
	case PatternRule:
		re, err := syntax.Parse(r.Value, syntax.Perl)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", semErrInvalidPattern, err)
		}
		return c.compileRegexp(re, next)
	case SeqRule:
		var err error
		for i := len(r.Members) - 1; i >= 0; i-- {
			next, err = c.compileRule(r.Members[i], next)
			if err != nil {
				return 0, err
			}
		}
		return next, nil
	case ChoiceRule:
		return c.compileChoice(r.Members, next)
	case RepeatRule:
		// Zero or more.
		splitID := c.add(NfaState{Kind: NfaStateSplit})
		entry, err := c.compileRule(r.Content, splitID)
		if err != nil {
			return 0, err
		}
		c.states[splitID] = NfaState{Kind: NfaStateSplit, Next: entry, Alt: next}
		return splitID, nil
	case MetadataRule:
		return c.compileRule(r.Content, next)
	case NamedSymbolRule, SymbolRule:
		return 0, semErrTokenHasReference
	}
	panic(fmt.Sprintf("token compiler applied to an unknown rule type: %T", rule))
}

func (c *tokenCompiler) compileChoice(members []Rule, next uint32) (uint32, error) {
	entries := make([]uint32, len(members))
	for i, m := range members {
		e, err := c.compileRule(m, next)
		if err != nil {
			return 0, err
		}
		entries[i] = e
	}
	if len(entries) == 0 {
		return next, nil
	}
	acc := entries[len(entries)-1]
	for i := len(entries) - 2; i >= 0; i-- {
		acc = c.add(NfaState{Kind: NfaStateSplit, Next: entries[i], Alt: acc})
	}
	return acc, nil
}

func (c *tokenCompiler) compileRegexp(re *syntax.Regexp, next uint32) (uint32, error) {
	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpNoMatch:
		return next, nil
	case syntax.OpLiteral:
		fold := re.Flags&syntax.FoldCase != 0
		for i := len(re.Rune) - 1; i >= 0; i-- {
			next = c.add(NfaState{
				Kind:  NfaStateAdvance,
				Chars: charSetForRune(re.Rune[i], fold),
				Next:  next,
			})
		}
		return next, nil
	case syntax.OpCharClass:
		set := CharacterSet{}
		for i := 0; i+1 < len(re.Rune); i += 2 {
			set = set.AddRange(re.Rune[i], re.Rune[i+1])
		}
		return c.add(NfaState{
			Kind:  NfaStateAdvance,
			Chars: set,
			Next:  next,
		}), nil
	case syntax.OpAnyChar:
		return c.add(NfaState{
			Kind:  NfaStateAdvance,
			Chars: AnyCharacter(),
			Next:  next,
		}), nil
	case syntax.OpAnyCharNotNL:
		set := NewCharacterSet(
			CharacterRange{Start: 0, End: '\n' - 1},
			CharacterRange{Start: '\n' + 1, End: 0x10ffff},
		)
		return c.add(NfaState{
			Kind:  NfaStateAdvance,
			Chars: set,
			Next:  next,
		}), nil
	case syntax.OpCapture:
		return c.compileRegexp(re.Sub[0], next)
	case syntax.OpConcat:
		var err error
		for i := len(re.Sub) - 1; i >= 0; i-- {
			next, err = c.compileRegexp(re.Sub[i], next)
			if err != nil {
				return 0, err
			}
		}
		return next, nil
	case syntax.OpAlternate:
		entries := make([]uint32, len(re.Sub))
		for i, sub := range re.Sub {
			e, err := c.compileRegexp(sub, next)
			if err != nil {
				return 0, err
			}
			entries[i] = e
		}
		acc := entries[len(entries)-1]
		for i := len(entries) - 2; i >= 0; i-- {
			acc = c.add(NfaState{Kind: NfaStateSplit, Next: entries[i], Alt: acc})
		}
		return acc, nil
	case syntax.OpStar:
		splitID := c.add(NfaState{Kind: NfaStateSplit})
		entry, err := c.compileRegexp(re.Sub[0], splitID)
		if err != nil {
			return 0, err
		}
		c.states[splitID] = NfaState{Kind: NfaStateSplit, Next: entry, Alt: next}
		return splitID, nil
	case syntax.OpPlus:
		splitID := c.add(NfaState{Kind: NfaStateSplit})
		entry, err := c.compileRegexp(re.Sub[0], splitID)
		if err != nil {
			return 0, err
		}
		c.states[splitID] = NfaState{Kind: NfaStateSplit, Next: entry, Alt: next}
		return entry, nil
	case syntax.OpQuest:
		entry, err := c.compileRegexp(re.Sub[0], next)
		if err != nil {
			return 0, err
		}
		return c.add(NfaState{Kind: NfaStateSplit, Next: entry, Alt: next}), nil
	}
	return 0, fmt.Errorf("%w: %v", semErrUnsupportedPattern, re.Op)
}

func charSetForRune(r rune, fold bool) CharacterSet {
	set := SingleCharacter(r)
	if !fold {
		return set
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		set = set.AddRange(f, f)
	}
	return set
}

// genLexSpec renders the token list as a maleeni lexical specification.
// Named tokens keep their names as lex kinds; anonymous tokens get generated
// kinds in the x_N style. The returned slice maps each token index to its
// kind name.
func genLexSpec(tokens []Variable) (*mlspec.LexSpec, []string, error) {
	entries := make([]*mlspec.LexEntry, 0, len(tokens))
	kindNames := make([]string, len(tokens))
	anonCount := 0
	for i, t := range tokens {
		kind := t.Name
		if t.Kind == VariableTypeAnonymous {
			anonCount++
			kind = fmt.Sprintf("x_%v", anonCount)
		}
		kindNames[i] = kind

		pattern, err := patternText(t.Rule)
		if err != nil {
			return nil, nil, &verr.SpecError{
				Cause:  err,
				Detail: t.Name,
			}
		}
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(kind),
			Pattern: mlspec.LexPattern(pattern),
		})
	}
	return &mlspec.LexSpec{
		Entries: entries,
	}, kindNames, nil
}

func patternText(rule Rule) (string, error) {
	switch r := rule.(type) {
	case BlankRule:
		return "", nil
	case StringRule:
		return mlspec.EscapePattern(r.Value), nil
	case PatternRule:
		return r.Value, nil
	case SeqRule:
		var b strings.Builder
		for _, m := range r.Members {
			t, err := patternText(m)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "(%v)", t)
		}
		return b.String(), nil
	case ChoiceRule:
		texts := make([]string, len(r.Members))
		for i, m := range r.Members {
			t, err := patternText(m)
			if err != nil {
				return "", err
			}
			texts[i] = t
		}
		return fmt.Sprintf("(%v)", strings.Join(texts, "|")), nil
	case RepeatRule:
		t, err := patternText(r.Content)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%v)*", t), nil
	case MetadataRule:
		return patternText(r.Content)
	}
	return "", semErrTokenHasReference
}
