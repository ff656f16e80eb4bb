package domain

// WordClassKind distinguishes the roles a word class can play. The
// tagged variant replaces a string-prefix naming convention, so intent
// detection never parses class names.
type WordClassKind string

const (
	// ClassTrigger marks utterance matches as candidate intents for a
	// branch; Tag holds the branch name.
	ClassTrigger WordClassKind = "trigger"
	// ClassSentiment tags affirmative/negative keyword sets ("yes",
	// "no") consumed by the bool slot policies.
	ClassSentiment WordClassKind = "sentiment"
	// ClassCustom is a free-form class supplied by callers.
	ClassCustom WordClassKind = "custom"
)

// WordClass is a named set of trigger words matched against utterance
// tokens.
type WordClass struct {
	Kind  WordClassKind
	Tag   string
	Words []string
}

func TriggerClass(branch string, words ...string) WordClass {
	return WordClass{Kind: ClassTrigger, Tag: branch, Words: words}
}

func SentimentClass(tag string, words ...string) WordClass {
	return WordClass{Kind: ClassSentiment, Tag: tag, Words: words}
}

func CustomClass(tag string, words ...string) WordClass {
	return WordClass{Kind: ClassCustom, Tag: tag, Words: words}
}

// Key returns the stable identity of the class inside an analysis
// match set.
func (c WordClass) Key() string {
	return string(c.Kind) + ":" + c.Tag
}

// Built-in sentiment tags.
const (
	SentimentYes = "yes"
	SentimentNo  = "no"
)

// ClassSet is the set of word-class keys matched by an analysis.
type ClassSet map[string]bool

// Has reports whether the class with the given key matched.
func (s ClassSet) Has(key string) bool { return s[key] }

// HasSentiment reports whether the sentiment class with the given tag
// matched.
func (s ClassSet) HasSentiment(tag string) bool {
	return s[SentimentClass(tag).Key()]
}
