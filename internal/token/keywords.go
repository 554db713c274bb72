package token

// keywordList is ordered like the Kw* constants.
var keywordList = [...]string{
	"algorithm",
	"and",
	"annotation",
	"block",
	"break",
	"class",
	"connect",
	"connector",
	"constant",
	"constrainedby",
	"der",
	"discrete",
	"each",
	"else",
	"elseif",
	"elsewhen",
	"encapsulated",
	"end",
	"enumeration",
	"equation",
	"expandable",
	"extends",
	"external",
	"false",
	"final",
	"flow",
	"for",
	"function",
	"if",
	"import",
	"impure",
	"in",
	"initial",
	"inner",
	"input",
	"loop",
	"model",
	"not",
	"operator",
	"or",
	"outer",
	"output",
	"package",
	"parameter",
	"partial",
	"protected",
	"public",
	"pure",
	"record",
	"redeclare",
	"replaceable",
	"return",
	"stream",
	"then",
	"true",
	"type",
	"when",
	"while",
	"within",
}

var keywords = func() map[string]Kind {
	m := make(map[string]Kind, len(keywordList))
	for i, word := range keywordList {
		m[word] = KwAlgorithm + Kind(i)
	}
	return m
}()

// LookupKeyword reports the keyword kind for ident.
// Modelica keywords are case sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsKeywordKind reports whether k is one of the reserved words.
func IsKeywordKind(k Kind) bool {
	return k >= KwAlgorithm && k <= KwWithin
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	return append([]string(nil), keywordList[:]...)
}
