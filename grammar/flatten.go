package grammar

import "fmt"

// flattenVariable turns a resolved syntactic rule tree into the variable's
// production list. Choices multiply productions, sequences append steps, and
// metadata annotates the steps it covers: precedence and associativity apply
// to every covered step unless a deeper metadata rule claims the step first,
// an alias to the last covered step not already aliased, and dynamic
// precedence to the whole production.
func flattenVariable(v Variable) (*SyntaxVariable, error) {
	prods, err := flattenRule(v.Rule, stepAnnotation{})
	if err != nil {
		return nil, fmt.Errorf("variable %v: %w", v.Name, err)
	}
	return &SyntaxVariable{
		Name:        v.Name,
		Kind:        v.Kind,
		Productions: prods,
	}, nil
}

// stepAnnotation is the innermost enclosing precedence annotation at a point
// in the rule tree. The zero value means no enclosing annotation.
type stepAnnotation struct {
	precedence    int
	associativity Associativity
	active        bool
}

func flattenRule(rule Rule, ann stepAnnotation) ([]*Production, error) {
	switch r := rule.(type) {
	case BlankRule:
		return []*Production{{}}, nil
	case SymbolRule:
		step := NewProductionStep(r.Sym)
		if ann.active {
			step = step.WithPrec(ann.precedence, ann.associativity)
		}
		return []*Production{
			{Steps: []ProductionStep{step}},
		}, nil
	case SeqRule:
		result := []*Production{{}}
		for _, m := range r.Members {
			frags, err := flattenRule(m, ann)
			if err != nil {
				return nil, err
			}
			next := make([]*Production, 0, len(result)*len(frags))
			for _, p := range result {
				for _, f := range frags {
					steps := make([]ProductionStep, 0, len(p.Steps)+len(f.Steps))
					steps = append(steps, p.Steps...)
					steps = append(steps, f.Steps...)
					next = append(next, &Production{
						Steps:             steps,
						DynamicPrecedence: p.DynamicPrecedence + f.DynamicPrecedence,
					})
				}
			}
			result = next
		}
		return result, nil
	case ChoiceRule:
		var result []*Production
		for _, m := range r.Members {
			frags, err := flattenRule(m, ann)
			if err != nil {
				return nil, err
			}
			result = append(result, frags...)
		}
		return result, nil
	case MetadataRule:
		inner := ann
		if r.Params.HasPrecedence || r.Params.Associativity != AssociativityNil {
			inner = stepAnnotation{
				precedence:    r.Params.Precedence,
				associativity: r.Params.Associativity,
				active:        true,
			}
		}
		frags, err := flattenRule(r.Content, inner)
		if err != nil {
			return nil, err
		}
		for _, f := range frags {
			if !r.Params.Alias.IsEmpty() && len(f.Steps) > 0 {
				last := len(f.Steps) - 1
				if f.Steps[last].Alias.IsEmpty() {
					f.Steps[last] = f.Steps[last].WithAlias(r.Params.Alias.Value, r.Params.Alias.IsNamed)
				}
			}
			f.DynamicPrecedence += r.Params.DynamicPrecedence
		}
		return frags, nil
	case NamedSymbolRule, StringRule, PatternRule, RepeatRule:
		// These forms are rewritten away before flattening runs. Reaching
		// one is a bug in the extraction pipeline, not a grammar mistake.
		panic(fmt.Sprintf("flatten applied to an unextracted rule: %T", r))
	}
	panic(fmt.Sprintf("flatten applied to an unknown rule type: %T", rule))
}
