package agent

import "strings"

// Intent is the coarse routing decision for a user query.
type Intent int

const (
	// IntentDocument routes through passage retrieval. It is the default.
	IntentDocument Intent = iota
	// IntentClaims routes through the structured claims path.
	IntentClaims
)

func (i Intent) String() string {
	if i == IntentClaims {
		return "claims"
	}
	return "document"
}

// Classifier decides which path a query takes.
type Classifier interface {
	Classify(query string) Intent
}

// claim vocabulary; a substring hit on any of these routes to the claims path.
var claimKeywords = []string{"claim", "claims", "submitted", "paid", "processing"}

// KeywordClassifier is a keyword-membership test, not a learned model.
// False negatives fall through to the document path, which still answers,
// just less specifically.
type KeywordClassifier struct {
	keywords []string
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{keywords: claimKeywords}
}

func (c *KeywordClassifier) Classify(query string) Intent {
	q := strings.ToLower(query)
	for _, kw := range c.keywords {
		if strings.Contains(q, kw) {
			return IntentClaims
		}
	}
	return IntentDocument
}
