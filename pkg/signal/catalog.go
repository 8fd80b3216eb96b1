package signal

import "regexp"

// Signal names that other packages refer to directly.
const (
	Greeting          = "greeting"
	ShortQuery        = "short_query"
	BriefQuery        = "brief_query"
	LongQuery         = "long_query"
	VeryLongQuery     = "very_long_query"
	MultipleQuestions = "multiple_questions"
)

// MultipleQuestionsWeight applies when a request asks more than MultipleQuestionsMin questions.
const (
	MultipleQuestionsWeight = 15
	MultipleQuestionsMin    = 2
)

// LengthBands are non-overlapping; 30-99 tokens is neutral and zero tokens fires nothing.
var LengthBands = []LengthBand{
	{Name: ShortQuery, Min: 1, Max: 14, Weight: -20},
	{Name: BriefQuery, Min: 15, Max: 29, Weight: -10},
	{Name: LongQuery, Min: 100, Max: 200, Weight: 15},
	{Name: VeryLongQuery, Min: 201, Max: -1, Weight: 25},
}

// GreetingRule matches messages that are nothing but greetings, thanks or bare acknowledgements.
var GreetingRule = Rule{
	Name:   Greeting,
	Weight: -25,
	Pattern: regexp.MustCompile(`(?i)^\s*(?:(?:hi|hiya|hello|hey|howdy|yo|greetings|good\s+(?:morning|afternoon|evening|night)|thanks|thank\s+you|thx|ty|cheers|yes|no|ok|okay|k|sure|yep|yeah|yup|nope|got\s+it|cool|great|perfect|nice|awesome|sounds\s+good)` +
		`(?:\s+(?:there|everyone|all|so\s+much|a\s+lot|very\s+much|again))?[\s,!.?]*)+$`),
}

// SimpleRules correlate with low-effort asks. Each fires independently.
var SimpleRules = []Rule{
	{Name: "factual_question", Weight: -10, Pattern: regexp.MustCompile(`(?i)^\s*(?:what|who|when|where)(?:'s|\s+(?:is|are|was|were|did|does|do))\b`)},
	{Name: "list_request", Weight: -8, Pattern: regexp.MustCompile(`(?i)^\s*(?:list|name|enumerate|give\s+me\s+(?:a\s+)?list)\b`)},
	{Name: "definition", Weight: -10, Pattern: regexp.MustCompile(`(?i)\b(?:define|definition\s+of|meaning\s+of|what\s+does\s+\S+\s+mean)\b`)},
	{Name: "polite_request", Weight: -5, Pattern: regexp.MustCompile(`(?i)^\s*(?:please|can\s+you|could\s+you|would\s+you)\b`)},
	{Name: "translation", Weight: -10, Pattern: regexp.MustCompile(`(?i)\b(?:translate|convert)\b.*\b(?:to|into)\b`)},
	{Name: "trailing_question", Weight: -5, Pattern: regexp.MustCompile(`\?\s*$`)},
}

// ComplexRules correlate with analytical, strategic or technical depth. They are additive.
var ComplexRules = []Rule{
	{Name: "analyze", Weight: 20, Pattern: regexp.MustCompile(`(?i)\banaly(?:s|z)(?:e|es|ed|ing|is)\b`)},
	{Name: "compare", Weight: 15, Pattern: regexp.MustCompile(`(?i)\b(?:compar(?:e|es|ed|ing|ison)|versus|vs)\b`)},
	{Name: "evaluate", Weight: 15, Pattern: regexp.MustCompile(`(?i)\b(?:evaluat(?:e|es|ed|ing|ion)|assess(?:es|ed|ing|ment)?|critique)\b`)},
	{Name: "design", Weight: 15, Pattern: regexp.MustCompile(`(?i)\b(?:design(?:s|ed|ing)?|architect(?:s|ure|ural|ing)?)\b`)},
	{Name: "strategy", Weight: 15, Pattern: regexp.MustCompile(`(?i)\b(?:strateg(?:y|ies|ic)|roadmap)\b`)},
	{Name: "research", Weight: 15, Pattern: regexp.MustCompile(`(?i)\b(?:research(?:ing)?|investigat(?:e|ing|ion))\b`)},
	{Name: "in_depth", Weight: 15, Pattern: regexp.MustCompile(`(?i)\b(?:in[- ]depth|comprehensive|thorough(?:ly)?|detailed)\b`)},
	{Name: "tradeoffs", Weight: 15, Pattern: regexp.MustCompile(`(?i)\b(?:trade[- ]?offs?|pros\s+and\s+cons)\b`)},
	{Name: "refactor", Weight: 15, Pattern: regexp.MustCompile(`(?i)\brefactor(?:s|ed|ing)?\b`)},
	{Name: "debug", Weight: 15, Pattern: regexp.MustCompile(`(?i)\b(?:debug(?:s|ged|ging)?|troubleshoot(?:s|ing)?|root\s+cause)\b`)},
	{Name: "deep_explanation", Weight: 10, Pattern: regexp.MustCompile(`(?i)\b(?:explain\s+(?:why|how|in\s+detail)|walk\s+me\s+through)\b`)},
	{Name: "multi_step", Weight: 10, Pattern: regexp.MustCompile(`(?i)\b(?:step[- ]by[- ]step|multi[- ]?step|phases?)\b|\bfirst\b.+\bthen\b`)},
	{Name: "numbered_steps", Weight: 10, Pattern: regexp.MustCompile(`(?s)(?:^|\s)1[.)]\s.*\s2[.)]\s`)},
}

// CodeRules are lightweight markers of technical content, independent of the simple and complex sets.
var CodeRules = []Rule{
	{Name: "code_keywords", Weight: 5, Pattern: regexp.MustCompile(`\b(?:func|function|class|def|import|return|const|struct|interface|async|await|lambda)\b`)},
	{Name: "file_extension", Weight: 5, Pattern: regexp.MustCompile(`(?i)\b[\w-]+\.(?:go|py|js|ts|tsx|jsx|java|rb|rs|cpp|cc|hpp|cs|php|swift|kt|sql|yaml|yml|json|toml|sh)\b`)},
	{Name: "api_terms", Weight: 5, Pattern: regexp.MustCompile(`(?i)\b(?:apis?|endpoints?|https?|graphql|grpc|sdk|webhooks?)\b`)},
	{Name: "error_terms", Weight: 8, Pattern: regexp.MustCompile(`(?i)\b(?:errors?|exceptions?|stack\s?traces?|panics?|segfault|traceback|(?:nil|null)\s+pointer)\b`)},
	{Name: "code_block", Weight: 10, Pattern: regexp.MustCompile("```")},
}
