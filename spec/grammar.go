package spec

// GrammarDescription is the JSON form of a grammar as authored. Rules are an
// ordered list because declaration order fixes symbol indices.
type GrammarDescription struct {
	Name      string       `json:"name"`
	Rules     []*RuleEntry `json:"rules"`
	Extras    []*RuleNode  `json:"extras,omitempty"`
	Conflicts [][]string   `json:"conflicts,omitempty"`
	Externals []*RuleNode  `json:"externals,omitempty"`
	Inline    []string     `json:"inline,omitempty"`
	Word      string       `json:"word,omitempty"`
}

type RuleEntry struct {
	Name string    `json:"name"`
	Rule *RuleNode `json:"rule"`
}

// RuleNode is one node of a rule expression. Type selects which of the
// remaining fields are meaningful.
type RuleNode struct {
	Type       string      `json:"type"`
	Value      string      `json:"value,omitempty"`
	Name       string      `json:"name,omitempty"`
	Members    []*RuleNode `json:"members,omitempty"`
	Content    *RuleNode   `json:"content,omitempty"`
	Precedence int         `json:"precedence,omitempty"`
	Named      bool        `json:"named,omitempty"`
}

const (
	RuleTypeBlank       = "BLANK"
	RuleTypeString      = "STRING"
	RuleTypePattern     = "PATTERN"
	RuleTypeSymbol      = "SYMBOL"
	RuleTypeSeq         = "SEQ"
	RuleTypeChoice      = "CHOICE"
	RuleTypeRepeat      = "REPEAT"
	RuleTypePrec        = "PREC"
	RuleTypePrecLeft    = "PREC_LEFT"
	RuleTypePrecRight   = "PREC_RIGHT"
	RuleTypePrecDynamic = "PREC_DYNAMIC"
	RuleTypeToken       = "TOKEN"
	RuleTypeAlias       = "ALIAS"
)
