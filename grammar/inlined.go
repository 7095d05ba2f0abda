package grammar

// productionStepKey identifies a step of a specific production value, not of
// any structurally equal one. Two textually identical productions reached
// via different derivations get separate entries.
type productionStepKey struct {
	production *Production
	stepIndex  uint32
}

// InlinedProductionMap records, for every production step that references an
// inlined non-terminal, the ordered replacement productions. The arena owns
// every replacement; map values index into it. Once built, neither the arena
// nor the index may change: entries capture production identities and arena
// positions at construction time, and any later structural change requires a
// full rebuild.
type InlinedProductionMap struct {
	Productions []*Production

	productionMap map[productionStepKey][]int
}

// InlinedProductions returns the replacements registered for the given step
// of the given production value, projected out of the arena, or false when
// no inlining is registered there — a normal outcome for most steps. Each
// call projects afresh, so the result is safe to iterate any number of
// times.
func (m *InlinedProductionMap) InlinedProductions(production *Production, stepIndex uint32) ([]*Production, bool) {
	indices, ok := m.productionMap[productionStepKey{
		production: production,
		stepIndex:  stepIndex,
	}]
	if !ok {
		return nil, false
	}
	prods := make([]*Production, len(indices))
	for i, index := range indices {
		prods[i] = m.Productions[index]
	}
	return prods, true
}
