package engine

import (
	"strings"
	"testing"
)

func TestExportTranscriptDeterministic(t *testing.T) {
	transcript := initialTranscript()
	a := ExportTranscript(transcript, 80)
	b := ExportTranscript(transcript, 80)
	if a != b {
		t.Fatalf("identical input produced different documents")
	}
}

func TestExportTranscriptHeaderAndFooter(t *testing.T) {
	doc := ExportTranscript(initialTranscript(), 73)
	if !strings.HasPrefix(doc, "# THE ALEPH: INFINITE BORGES\n") {
		t.Fatalf("missing title, got %q", doc[:40])
	}
	if !strings.Contains(doc, "*Current Obsession: 73%*") {
		t.Fatalf("missing obsession header")
	}
	if !strings.HasSuffix(doc, "---\n") {
		t.Fatalf("missing footer rule")
	}
}

func TestExportTranscriptSenderFormatting(t *testing.T) {
	transcript := []StorySegment{
		{Sender: SenderNarrator, Lines: []string{">be me"}, Timestamp: "February 15, 1929"},
		{Sender: SenderPlayer, Lines: []string{">I decided to: stay"}, Timestamp: "February 15, 1929"},
		{Sender: SenderAntagonist, Lines: []string{"THE EARTH,", "MY POEM"}, Timestamp: "April 30, 1941"},
		{Sender: SenderSystem, Lines: []string{"TIMELINE DIVERGES"}, Timestamp: "Unknown Time"},
	}
	doc := ExportTranscript(transcript, 50)
	if !strings.Contains(doc, "> be me\n") {
		t.Fatalf("narrator lines should render as quoted greentext")
	}
	if !strings.Contains(doc, "> I decided to: stay\n") {
		t.Fatalf("player lines should render as quoted greentext")
	}
	if !strings.Contains(doc, "**CARLOS ARGENTINO DANERI**:\n\"THE EARTH, MY POEM\"") {
		t.Fatalf("antagonist block wrong:\n%s", doc)
	}
	if !strings.Contains(doc, "**[SYSTEM]**: TIMELINE DIVERGES") {
		t.Fatalf("system block wrong:\n%s", doc)
	}
	if !strings.Contains(doc, "*April 30, 1941*\n") {
		t.Fatalf("timestamps should render italicized")
	}
}
