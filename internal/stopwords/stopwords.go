// Package stopwords holds the term-filtering word list used by key-term
// extraction. It combines generic English stop words with domain filler words
// that carry no signal when comparing discovery entities ("feature", "system",
// "process" and the like appear in almost every extracted name).
package stopwords

// generic English stop words.
var generic = []string{
	"a", "an", "and", "are", "as", "at", "be", "been", "but", "by",
	"can", "could", "did", "do", "does", "for", "from", "had", "has",
	"have", "he", "her", "his", "how", "i", "if", "in", "into", "is",
	"it", "its", "may", "might", "more", "most", "must", "my", "no",
	"not", "of", "on", "or", "our", "shall", "she", "should", "so",
	"some", "such", "than", "that", "the", "their", "them", "then",
	"there", "these", "they", "this", "to", "up", "us", "was", "we",
	"were", "what", "when", "where", "which", "who", "will", "with",
	"would", "you", "your",
}

// filler words common in extracted product-discovery text.
var filler = []string{
	"ability", "allow", "allows", "app", "application", "based",
	"capability", "enable", "enables", "feature", "features",
	"functionality", "module", "need", "needs", "new", "platform",
	"process", "product", "provide", "provides", "solution", "support",
	"supports", "system", "tool", "use", "user", "users", "using",
	"via", "want", "wants",
}

var set map[string]struct{}

func init() {
	set = make(map[string]struct{}, len(generic)+len(filler))
	for _, w := range generic {
		set[w] = struct{}{}
	}
	for _, w := range filler {
		set[w] = struct{}{}
	}
}

// Contains reports whether word is a stop word. The word must already be
// lowercased.
func Contains(word string) bool {
	_, ok := set[word]
	return ok
}

// Count returns the size of the combined stop-word set.
func Count() int {
	return len(set)
}
