package grammar

import (
	verr "github.com/arbor-lang/arbc/error"
	"github.com/arbor-lang/arbc/spec"
)

// GrammarBuilder turns a parsed grammar description into an InputGrammar.
// Rule names starting with an underscore declare hidden variables.
type GrammarBuilder struct {
	Desc *spec.GrammarDescription

	errs verr.SpecErrors
}

func (b *GrammarBuilder) Build() (*InputGrammar, error) {
	if b.Desc.Name == "" {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoGrammarName,
		})
	}

	input := &InputGrammar{
		Name:              b.Desc.Name,
		ExpectedConflicts: b.Desc.Conflicts,
		VariablesToInline: b.Desc.Inline,
		WordToken:         b.Desc.Word,
	}
	for _, entry := range b.Desc.Rules {
		rule := b.build(entry.Name, entry.Rule)
		if rule == nil {
			continue
		}
		if len(entry.Name) > 0 && entry.Name[0] == '_' {
			input.Variables = append(input.Variables, HiddenVariable(entry.Name, rule))
		} else {
			input.Variables = append(input.Variables, NamedVariable(entry.Name, rule))
		}
	}
	for _, node := range b.Desc.Extras {
		rule := b.build("extras", node)
		if rule == nil {
			continue
		}
		input.ExtraTokens = append(input.ExtraTokens, rule)
	}
	for _, node := range b.Desc.Externals {
		rule := b.build("externals", node)
		if rule == nil {
			continue
		}
		input.ExternalTokens = append(input.ExternalTokens, rule)
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}
	return input, nil
}

func (b *GrammarBuilder) build(context string, node *spec.RuleNode) Rule {
	if node == nil {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrMalformedRule,
			Detail: context,
		})
		return nil
	}
	switch node.Type {
	case spec.RuleTypeBlank:
		return Blank()
	case spec.RuleTypeString:
		return Str(node.Value)
	case spec.RuleTypePattern:
		return Pat(node.Value)
	case spec.RuleTypeSymbol:
		if node.Name == "" {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrMalformedRule,
				Detail: context,
			})
			return nil
		}
		return Sym(node.Name)
	case spec.RuleTypeSeq:
		return Seq(b.buildMembers(context, node.Members)...)
	case spec.RuleTypeChoice:
		return Choice(b.buildMembers(context, node.Members)...)
	case spec.RuleTypeRepeat:
		content := b.build(context, node.Content)
		if content == nil {
			return nil
		}
		return Repeat(content)
	case spec.RuleTypePrec:
		content := b.build(context, node.Content)
		if content == nil {
			return nil
		}
		return Prec(node.Precedence, content)
	case spec.RuleTypePrecLeft:
		content := b.build(context, node.Content)
		if content == nil {
			return nil
		}
		return PrecLeft(node.Precedence, content)
	case spec.RuleTypePrecRight:
		content := b.build(context, node.Content)
		if content == nil {
			return nil
		}
		return PrecRight(node.Precedence, content)
	case spec.RuleTypePrecDynamic:
		content := b.build(context, node.Content)
		if content == nil {
			return nil
		}
		return PrecDynamic(node.Precedence, content)
	case spec.RuleTypeToken:
		content := b.build(context, node.Content)
		if content == nil {
			return nil
		}
		return Token(content)
	case spec.RuleTypeAlias:
		content := b.build(context, node.Content)
		if content == nil {
			return nil
		}
		return Aliased(content, node.Value, node.Named)
	}
	b.errs = append(b.errs, &verr.SpecError{
		Cause:  semErrUnknownRuleType,
		Detail: node.Type,
	})
	return nil
}

func (b *GrammarBuilder) buildMembers(context string, nodes []*spec.RuleNode) []Rule {
	members := make([]Rule, 0, len(nodes))
	for _, n := range nodes {
		m := b.build(context, n)
		if m == nil {
			continue
		}
		members = append(members, m)
	}
	return members
}
