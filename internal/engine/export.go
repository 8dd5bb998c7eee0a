package engine

import (
	"fmt"
	"strings"
)

// ExportTranscript renders a transcript prefix as a shareable markdown
// document. It is a pure function of its inputs; identical input yields the
// identical document.
func ExportTranscript(transcript []StorySegment, obsession int) string {
	var b strings.Builder
	b.WriteString("# THE ALEPH: INFINITE BORGES\n\n")
	b.WriteString(fmt.Sprintf("*Current Obsession: %d%%*\n\n---\n\n", obsession))

	for _, seg := range transcript {
		if seg.Timestamp != "" {
			b.WriteString("*" + seg.Timestamp + "*\n")
		}
		switch seg.Sender {
		case SenderNarrator, SenderPlayer:
			for _, line := range seg.Lines {
				b.WriteString("> " + strings.TrimPrefix(line, ">") + "\n")
			}
			b.WriteString("\n")
		case SenderAntagonist:
			b.WriteString("**CARLOS ARGENTINO DANERI**:\n\"" + strings.Join(seg.Lines, " ") + "\"\n\n")
		default:
			b.WriteString("**[SYSTEM]**: " + strings.Join(seg.Lines, " ") + "\n\n")
		}
	}

	b.WriteString("---\n")
	return b.String()
}
