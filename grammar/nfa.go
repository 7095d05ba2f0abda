package grammar

import "sort"

// CharacterRange is an inclusive range of runes.
type CharacterRange struct {
	Start rune
	End   rune
}

// CharacterSet is a set of runes stored as sorted, non-adjacent ranges.
type CharacterSet struct {
	Ranges []CharacterRange
}

func NewCharacterSet(ranges ...CharacterRange) CharacterSet {
	s := CharacterSet{}
	for _, r := range ranges {
		s = s.AddRange(r.Start, r.End)
	}
	return s
}

func SingleCharacter(c rune) CharacterSet {
	return CharacterSet{
		Ranges: []CharacterRange{{Start: c, End: c}},
	}
}

// AnyCharacter matches every rune.
func AnyCharacter() CharacterSet {
	return CharacterSet{
		Ranges: []CharacterRange{{Start: 0, End: 0x10ffff}},
	}
}

func (s CharacterSet) AddRange(start, end rune) CharacterSet {
	if end < start {
		start, end = end, start
	}
	ranges := append([]CharacterRange{}, s.Ranges...)
	ranges = append(ranges, CharacterRange{Start: start, End: end})
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})

	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return CharacterSet{Ranges: merged}
}

func (s CharacterSet) Contains(c rune) bool {
	for _, r := range s.Ranges {
		if c < r.Start {
			return false
		}
		if c <= r.End {
			return true
		}
	}
	return false
}

func (s CharacterSet) IsEmpty() bool {
	return len(s.Ranges) == 0
}

type NfaStateKind int

const (
	// NfaStateAccept marks the end of a lexical variable's graph. It records
	// which variable was recognized and at what precedence.
	NfaStateAccept NfaStateKind = iota

	// NfaStateAdvance consumes one rune from Chars and moves to Next.
	NfaStateAdvance

	// NfaStateSplit forks without consuming input; both Next and Alt are
	// explored.
	NfaStateSplit
)

// NfaState is one state of the tokenizer NFA. Kind selects which of the
// remaining fields are meaningful.
type NfaState struct {
	Kind NfaStateKind

	VariableIndex int
	Precedence    int

	Chars CharacterSet
	Next  uint32
	Alt   uint32
}

// Nfa holds the transition graph for every lexical variable of a grammar.
// State ids are indices into States.
type Nfa struct {
	States []NfaState
}

func NewNfa() *Nfa {
	return &Nfa{}
}

func (n *Nfa) AddState(s NfaState) uint32 {
	n.States = append(n.States, s)
	return uint32(len(n.States) - 1)
}

// LastStateID returns the id of the most recently added state. The NFA must
// be non-empty.
func (n *Nfa) LastStateID() uint32 {
	return uint32(len(n.States) - 1)
}
