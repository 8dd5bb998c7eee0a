package engine

// StorySegment is one immutable unit of the transcript. Asset fields are the
// only exception to immutability: each may be filled exactly once, after the
// segment has already been published with the prompt alone.
type StorySegment struct {
	ID          string
	Sender      Sender
	Lines       []string // rendered in order, greentext style
	Timestamp   string   // in-fiction date label; empty when the moment is implicit
	ImagePrompt string
	ImageRef    string // opaque handle, resolved asynchronously
	MusicPrompt string
	MusicRef    string
	Tone        string // vocal tone hint for the speech collaborator
}

// Choice is an ephemeral option offered to the player. The active choice set
// is replaced wholesale every turn and never enters the transcript.
type Choice struct {
	ID        string
	Text      string
	Sentiment Sentiment
}

const (
	// SessionStartTime labels the moment before any segment has been shown.
	SessionStartTime = "February 15, 1929"
	// UnknownTime substitutes for a timestamp the generator failed to supply.
	UnknownTime = "Unknown Time"
)

// VisibleTimestamp returns the in-fiction time of the most recently shown
// segment that carries one. Segments are revealed progressively; shown is
// how many are visible so far.
func VisibleTimestamp(transcript []StorySegment, shown int) string {
	if shown > len(transcript) {
		shown = len(transcript)
	}
	for i := shown - 1; i >= 0; i-- {
		if transcript[i].Timestamp != "" {
			return transcript[i].Timestamp
		}
	}
	return SessionStartTime
}

// lastTimestamp returns the timestamp of the final segment, used to stamp a
// player action as simultaneous with the prior narrative moment.
func lastTimestamp(transcript []StorySegment) string {
	if len(transcript) == 0 {
		return UnknownTime
	}
	if ts := transcript[len(transcript)-1].Timestamp; ts != "" {
		return ts
	}
	return UnknownTime
}

// Clamp restricts the obsession meter into 0-100.
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
