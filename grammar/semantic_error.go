package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoGrammarName      = newSemanticError("a grammar needs a name")
	semErrNoVariable         = newSemanticError("a grammar needs at least one variable")
	semErrUnknownRuleType    = newSemanticError("unknown rule type")
	semErrMalformedRule      = newSemanticError("malformed rule")
	semErrDuplicateName      = newSemanticError("duplicate variable name")
	semErrUndefinedSym       = newSemanticError("undefined symbol")
	semErrUnsupportedPattern = newSemanticError("unsupported pattern construct")
	semErrInvalidPattern     = newSemanticError("invalid pattern")
	semErrTokenHasReference  = newSemanticError("a token cannot reference another variable")
	semErrInlineNonVariable  = newSemanticError("only a syntactic variable can be inlined")
	semErrRecursiveInline    = newSemanticError("an inlined variable must not be recursive")
	semErrExternalNotName    = newSemanticError("an external token must be declared by name")
	semErrWordNotToken       = newSemanticError("the word token must name a lexical variable")
)
