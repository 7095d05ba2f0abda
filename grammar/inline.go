package grammar

import (
	verr "github.com/arbor-lang/arbc/error"
)

// ProcessInlines builds the substitution table for every variable the
// grammar marks for inlining. Each production step referencing an inlined
// non-terminal gets one entry whose replacements substitute that variable's
// own productions in place of the step. Replacements live in the map's
// arena; replacements that still contain inlined steps get entries of their
// own, so lookups can be chained to a fixed point.
func ProcessInlines(g *SyntaxGrammar) (*InlinedProductionMap, error) {
	inlined := map[Symbol]struct{}{}
	for _, sym := range g.VariablesToInline {
		inlined[sym] = struct{}{}
	}
	if err := checkInlineCycles(g, inlined); err != nil {
		return nil, err
	}

	b := &inlineMapBuilder{
		grammar: g,
		inlined: inlined,
		m: &InlinedProductionMap{
			productionMap: map[productionStepKey][]int{},
		},
		arenaIndex: map[string]int{},
	}
	for _, v := range g.Variables {
		for _, p := range v.Productions {
			b.enqueue(p)
		}
	}
	for i := 0; i < len(b.worklist); i++ {
		b.processProduction(b.worklist[i])
	}
	return b.m, nil
}

// checkInlineCycles rejects inlined variables that reach themselves through
// other inlined variables. Substituting such a variable never terminates.
func checkInlineCycles(g *SyntaxGrammar, inlined map[Symbol]struct{}) error {
	reaches := func(from Symbol) []Symbol {
		var out []Symbol
		for _, p := range g.Variables[from.Index].Productions {
			for _, s := range p.Steps {
				if _, ok := inlined[s.Symbol]; ok {
					out = append(out, s.Symbol)
				}
			}
		}
		return out
	}
	for start := range inlined {
		visited := map[Symbol]struct{}{}
		stack := []Symbol{start}
		for len(stack) > 0 {
			sym := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range reaches(sym) {
				if next == start {
					return verr.SpecErrors{
						{
							Cause:  semErrRecursiveInline,
							Detail: g.Variables[start.Index].Name,
						},
					}
				}
				if _, ok := visited[next]; ok {
					continue
				}
				visited[next] = struct{}{}
				stack = append(stack, next)
			}
		}
	}
	return nil
}

type inlineMapBuilder struct {
	grammar    *SyntaxGrammar
	inlined    map[Symbol]struct{}
	m          *InlinedProductionMap
	arenaIndex map[string]int
	worklist   []*Production
	queued     map[*Production]struct{}
}

func (b *inlineMapBuilder) enqueue(p *Production) {
	if b.queued == nil {
		b.queued = map[*Production]struct{}{}
	}
	if _, ok := b.queued[p]; ok {
		return
	}
	b.queued[p] = struct{}{}
	b.worklist = append(b.worklist, p)
}

func (b *inlineMapBuilder) processProduction(p *Production) {
	for i, step := range p.Steps {
		if _, ok := b.inlined[step.Symbol]; !ok {
			continue
		}
		variable := b.grammar.Variables[step.Symbol.Index]
		indices := make([]int, 0, len(variable.Productions))
		for _, q := range variable.Productions {
			r := substitute(p, i, q)
			index := b.intern(r)
			indices = append(indices, index)
			b.enqueue(b.m.Productions[index])
		}
		b.m.productionMap[productionStepKey{
			production: p,
			stepIndex:  uint32(i),
		}] = indices
	}
}

// intern deduplicates structurally equal replacements so repeated
// substitution chains share arena slots.
func (b *inlineMapBuilder) intern(p *Production) int {
	sig := p.signature()
	if i, ok := b.arenaIndex[sig]; ok {
		return i
	}
	b.m.Productions = append(b.m.Productions, p)
	i := len(b.m.Productions) - 1
	b.arenaIndex[sig] = i
	return i
}

// substitute splices inner's steps in place of outer's step at index i. The
// outer step's precedence, associativity, and alias describe how the result
// attaches to its parent, so they move onto the last spliced step rather
// than being lost with the removed step. The dynamic precedences combine.
func substitute(outer *Production, i int, inner *Production) *Production {
	steps := make([]ProductionStep, 0, len(outer.Steps)+len(inner.Steps)-1)
	steps = append(steps, outer.Steps[:i]...)
	steps = append(steps, inner.Steps...)
	if n := len(inner.Steps); n > 0 {
		removed := outer.Steps[i]
		last := i + n - 1
		steps[last] = steps[last].WithPrec(removed.Precedence, removed.Associativity)
		if !removed.Alias.IsEmpty() {
			steps[last] = steps[last].WithAlias(removed.Alias.Value, removed.Alias.IsNamed)
		}
	}
	steps = append(steps, outer.Steps[i+1:]...)
	return &Production{
		Steps:             steps,
		DynamicPrecedence: outer.DynamicPrecedence + inner.DynamicPrecedence,
	}
}
