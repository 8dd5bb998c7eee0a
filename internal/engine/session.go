package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// historyWindow bounds how many recent segments are serialized into a
// generation request. Older transcript never leaves the process.
const historyWindow = 8

// Session is the aggregate root for one playthrough. It is owned by a single
// goroutine; TurnInFlight is the only gate against concurrent submissions,
// and it is checked, not locked.
type Session struct {
	Transcript   []StorySegment
	Ledger       Ledger
	Choices      []Choice
	Obsession    int // 0-100; 0 is terminal
	VisitCount   int // monotonic, gates the pilgrimage scene
	GameOver     bool
	TurnInFlight bool
}

// NewSession seeds the fixed opening state.
func NewSession() *Session {
	return &Session{
		Transcript: initialTranscript(),
		Ledger:     initialLedger(),
		Choices:    initialChoices(),
		Obsession:  100,
	}
}

// TurnRequest is everything the generation gateway needs for one turn.
type TurnRequest struct {
	Action     string
	Sentiment  Sentiment
	History    []string // compact serialized window, oldest first
	Obsession  int
	VisitCount int
	Ledger     Ledger
	Scene      Scene
}

// NarrativeItem is one generator-produced segment before it becomes part of
// the transcript.
type NarrativeItem struct {
	Sender      Sender
	Lines       []string
	Timestamp   string
	ImagePrompt string
	MusicPrompt string
	Tone        string
}

// TurnReply is the normalized generation result. The gateway guarantees the
// closed enums hold; everything else is still treated defensively here.
type TurnReply struct {
	Narrative      []NarrativeItem
	Choices        []Choice
	ObsessionDelta int
	VisitDelta     int
	CompleteIDs    []string
	NewObjectives  []Objective
	GameOver       bool
}

type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetMusic AssetKind = "music"
)

// AssetRequest names a segment that still needs an asset resolved.
type AssetRequest struct {
	SegmentID string
	Kind      AssetKind
	Prompt    string
}

// TurnOutcome reports what a reconciliation appended and which transient
// notices and asset fetches it produced.
type TurnOutcome struct {
	Appended      []StorySegment
	Notices       []string
	AssetRequests []AssetRequest
}

// BeginTurn appends the player's segment and arms the turn gate. It returns
// the request to hand to the gateway, or ok=false when the submission is
// rejected (game over, or a turn already in flight). Rejection changes
// nothing.
func (s *Session) BeginTurn(action string, sentiment Sentiment) (TurnRequest, bool) {
	if s.GameOver || s.TurnInFlight {
		return TurnRequest{}, false
	}
	player := StorySegment{
		ID:     uuid.NewString(),
		Sender: SenderPlayer,
		Lines:  []string{">I decided to: " + action},
		// the decision is simultaneous with the prior narrative moment
		Timestamp: lastTimestamp(s.Transcript),
	}
	s.Transcript = append(s.Transcript, player)
	s.TurnInFlight = true
	s.Choices = nil
	return TurnRequest{
		Action:     action,
		Sentiment:  sentiment,
		History:    serializeHistory(s.Transcript),
		Obsession:  s.Obsession,
		VisitCount: s.VisitCount,
		Ledger:     s.Ledger,
		Scene:      ResolveScene(s.Ledger, s.VisitCount),
	}, true
}

// FinishTurn reconciles a generation reply into new session state and clears
// the turn gate. Order matters throughout: narrative is appended exactly as
// returned, objectives are added before completions are applied, and the
// obsession floor fires last.
func (s *Session) FinishTurn(reply TurnReply) TurnOutcome {
	out := TurnOutcome{}

	for _, item := range reply.Narrative {
		ts := item.Timestamp
		if ts == "" {
			ts = UnknownTime
		}
		seg := StorySegment{
			ID:          uuid.NewString(),
			Sender:      item.Sender,
			Lines:       item.Lines,
			Timestamp:   ts,
			ImagePrompt: item.ImagePrompt,
			MusicPrompt: item.MusicPrompt,
			Tone:        item.Tone,
		}
		out.Appended = append(out.Appended, seg)
		if seg.ImagePrompt != "" {
			out.AssetRequests = append(out.AssetRequests, AssetRequest{SegmentID: seg.ID, Kind: AssetImage, Prompt: seg.ImagePrompt})
		}
		if seg.MusicPrompt != "" {
			out.AssetRequests = append(out.AssetRequests, AssetRequest{SegmentID: seg.ID, Kind: AssetMusic, Prompt: seg.MusicPrompt})
		}
	}

	choices := make([]Choice, 0, len(reply.Choices))
	for _, c := range reply.Choices {
		if !c.Sentiment.Validate() {
			c.Sentiment = SentimentPassive
		}
		choices = append(choices, c)
	}
	s.Choices = choices

	s.Obsession = Clamp(s.Obsession + reply.ObsessionDelta)

	// at most one completed visit per turn, and never backwards
	visit := reply.VisitDelta
	if visit < 0 {
		visit = 0
	}
	if visit > 1 {
		visit = 1
	}
	s.VisitCount += visit

	var notices []string
	s.Ledger, notices = s.Ledger.AddNew(reply.NewObjectives)
	out.Notices = append(out.Notices, notices...)
	s.Ledger, notices = s.Ledger.Complete(reply.CompleteIDs)
	out.Notices = append(out.Notices, notices...)

	s.GameOver = reply.GameOver
	if s.Obsession <= 0 {
		// safety net: boredom kills even when the generator disagrees
		if !reply.GameOver {
			out.Appended = append(out.Appended, boredomDeathSegment())
		}
		s.GameOver = true
	}

	s.Transcript = append(s.Transcript, out.Appended...)
	s.TurnInFlight = false
	return out
}

// AbortTurn clears the gate after a gateway error and leaves the player a
// way back in. The gateway's degraded reply normally prevents this path from
// being reached at all.
func (s *Session) AbortTurn() {
	if !s.TurnInFlight {
		return
	}
	s.TurnInFlight = false
	s.Choices = []Choice{{ID: "retry", Text: "Try to regain composure...", Sentiment: SentimentPassive}}
}

// ApplyAssetPatch fills a segment's asset field. Each field is written at
// most once; an unknown segment id or an already-resolved field is a no-op.
func (s *Session) ApplyAssetPatch(segmentID string, kind AssetKind, ref string) bool {
	if ref == "" {
		return false
	}
	for i := range s.Transcript {
		if s.Transcript[i].ID != segmentID {
			continue
		}
		switch kind {
		case AssetImage:
			if s.Transcript[i].ImageRef == "" {
				s.Transcript[i].ImageRef = ref
				return true
			}
		case AssetMusic:
			if s.Transcript[i].MusicRef == "" {
				s.Transcript[i].MusicRef = ref
				return true
			}
		}
		return false
	}
	return false
}

func boredomDeathSegment() StorySegment {
	return StorySegment{
		ID:        uuid.NewString(),
		Sender:    SenderSystem,
		Lines:     []string{">OBSESSION LEVEL CRITICAL", ">BOREDOM EXCEEDED LIMITS", ">YOU LEFT THE HOUSE"},
		Timestamp: "The End of Meaning",
	}
}

func serializeHistory(transcript []StorySegment) []string {
	start := len(transcript) - historyWindow
	if start < 0 {
		start = 0
	}
	window := transcript[start:]
	out := make([]string, 0, len(window))
	for _, seg := range window {
		ts := seg.Timestamp
		if ts == "" {
			ts = "N/A"
		}
		out = append(out, fmt.Sprintf("[%s] %s: %s", ts, seg.Sender, strings.Join(seg.Lines, " ")))
	}
	return out
}
