package engine

import "testing"

func TestParseSenderFallsBackToNarrator(t *testing.T) {
	if got := ParseSender("CARLOS"); got != SenderAntagonist {
		t.Fatalf("got %s", got)
	}
	if got := ParseSender("GHOST"); got != SenderNarrator {
		t.Fatalf("unrecognized sender should fall back to narrator, got %s", got)
	}
}

func TestParseSentimentFallsBackToPassive(t *testing.T) {
	if got := ParseSentiment("obsessive"); got != SentimentObsessive {
		t.Fatalf("got %s", got)
	}
	if got := ParseSentiment("custom"); got != SentimentPassive {
		t.Fatalf("unrecognized sentiment should fall back to passive, got %s", got)
	}
}
