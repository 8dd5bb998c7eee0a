package engine

// String backed enums. Wire spellings match what the generator is asked to
// produce, so parsing is a direct comparison plus a fallback branch.

type Sender string
type Sentiment string

const (
	SenderNarrator   Sender = "BORGES" // internal monologue
	SenderAntagonist Sender = "CARLOS"
	SenderSystem     Sender = "SYSTEM"
	SenderPlayer     Sender = "PLAYER"
)

var AllSenders = []Sender{SenderNarrator, SenderAntagonist, SenderSystem, SenderPlayer}

const (
	SentimentPassive      Sentiment = "passive"
	SentimentAggressive   Sentiment = "aggressive"
	SentimentIntellectual Sentiment = "intellectual"
	SentimentObsessive    Sentiment = "obsessive"
)

var AllSentiments = []Sentiment{SentimentPassive, SentimentAggressive, SentimentIntellectual, SentimentObsessive}

func contains[T ~string](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (s Sender) Validate() bool    { return contains(AllSenders, s) }
func (s Sentiment) Validate() bool { return contains(AllSentiments, s) }

// ParseSender maps a raw generator value onto the closed sender set.
// Unrecognized values become the Narrator; the generator is untrusted and a
// stray sender must not leak past the reconciliation boundary.
func ParseSender(raw string) Sender {
	s := Sender(raw)
	if s.Validate() {
		return s
	}
	return SenderNarrator
}

// ParseSentiment maps a raw generator value onto the closed sentiment set,
// defaulting to passive.
func ParseSentiment(raw string) Sentiment {
	s := Sentiment(raw)
	if s.Validate() {
		return s
	}
	return SentimentPassive
}
