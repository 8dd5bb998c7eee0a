package engine

import (
	"strings"
	"testing"
)

func minimalReply() TurnReply {
	return TurnReply{
		Narrative: []NarrativeItem{{
			Sender:    SenderNarrator,
			Lines:     []string{">the afternoon thickens"},
			Timestamp: "April 30, 1930",
		}},
		Choices: []Choice{{ID: "wait", Text: "Wait", Sentiment: SentimentPassive}},
	}
}

func TestNewSessionOpeningState(t *testing.T) {
	s := NewSession()
	if s.Obsession != 100 {
		t.Fatalf("obsession: got %d want 100", s.Obsession)
	}
	if len(s.Transcript) != 1 || s.Transcript[0].Sender != SenderNarrator {
		t.Fatalf("expected single narrator intro segment")
	}
	if s.Transcript[0].Timestamp != SessionStartTime {
		t.Fatalf("intro timestamp: got %q", s.Transcript[0].Timestamp)
	}
	if len(s.Choices) != 3 {
		t.Fatalf("expected 3 opening choices, got %d", len(s.Choices))
	}
	if len(s.Ledger) != 7 {
		t.Fatalf("expected 7 seeded objectives, got %d", len(s.Ledger))
	}
}

func TestBeginTurnAppendsPlayerSegmentAndArmsGate(t *testing.T) {
	s := NewSession()
	req, ok := s.BeginTurn("light a cigarette", SentimentPassive)
	if !ok {
		t.Fatalf("submission rejected unexpectedly")
	}
	if !s.TurnInFlight {
		t.Fatalf("gate not armed")
	}
	if s.Choices != nil {
		t.Fatalf("choices should be cleared while a turn is in flight")
	}
	last := s.Transcript[len(s.Transcript)-1]
	if last.Sender != SenderPlayer {
		t.Fatalf("last segment sender: got %s", last.Sender)
	}
	if last.Lines[0] != ">I decided to: light a cigarette" {
		t.Fatalf("player line: got %q", last.Lines[0])
	}
	if last.Timestamp != SessionStartTime {
		t.Fatalf("player segment must copy the prior timestamp, got %q", last.Timestamp)
	}
	if req.Scene.ID != ScenePlaza {
		t.Fatalf("request scene: got %s want %s", req.Scene.ID, ScenePlaza)
	}
	if len(req.History) == 0 || !strings.Contains(req.History[len(req.History)-1], "PLAYER") {
		t.Fatalf("history window must include the player action, got %v", req.History)
	}
}

func TestBeginTurnRejectsWhileInFlightOrOver(t *testing.T) {
	s := NewSession()
	if _, ok := s.BeginTurn("first", SentimentPassive); !ok {
		t.Fatalf("first submission should pass")
	}
	before := len(s.Transcript)
	if _, ok := s.BeginTurn("second", SentimentPassive); ok {
		t.Fatalf("second submission should be rejected while in flight")
	}
	if len(s.Transcript) != before {
		t.Fatalf("rejected submission changed the transcript")
	}

	s2 := NewSession()
	s2.GameOver = true
	if _, ok := s2.BeginTurn("any", SentimentPassive); ok {
		t.Fatalf("submission after game over should be rejected")
	}
}

func TestFinishTurnAppendsInOrderAndClearsGate(t *testing.T) {
	s := NewSession()
	s.BeginTurn("act", SentimentObsessive)
	reply := minimalReply()
	reply.Narrative = append(reply.Narrative, NarrativeItem{
		Sender: SenderAntagonist,
		Lines:  []string{"MY POEM, DEAR BORGES"},
	})
	out := s.FinishTurn(reply)
	if s.TurnInFlight {
		t.Fatalf("gate still armed after reconciliation")
	}
	if len(out.Appended) != 2 {
		t.Fatalf("appended: got %d want 2", len(out.Appended))
	}
	n := len(s.Transcript)
	if s.Transcript[n-2].Sender != SenderNarrator || s.Transcript[n-1].Sender != SenderAntagonist {
		t.Fatalf("narrative order not preserved")
	}
	if s.Transcript[n-1].Timestamp != UnknownTime {
		t.Fatalf("missing timestamp must become sentinel, got %q", s.Transcript[n-1].Timestamp)
	}
}

func TestFinishTurnClampsObsession(t *testing.T) {
	s := NewSession()
	s.BeginTurn("act", SentimentPassive)
	reply := minimalReply()
	reply.ObsessionDelta = 50
	s.FinishTurn(reply)
	if s.Obsession != 100 {
		t.Fatalf("obsession exceeded ceiling: %d", s.Obsession)
	}

	s.BeginTurn("act", SentimentPassive)
	reply = minimalReply()
	reply.ObsessionDelta = -300
	s.FinishTurn(reply)
	if s.Obsession != 0 {
		t.Fatalf("obsession below floor: %d", s.Obsession)
	}
}

func TestFinishTurnClampsVisitDelta(t *testing.T) {
	s := NewSession()
	s.BeginTurn("act", SentimentObsessive)
	reply := minimalReply()
	reply.VisitDelta = 5
	s.FinishTurn(reply)
	if s.VisitCount != 1 {
		t.Fatalf("visit delta not clamped to 1: %d", s.VisitCount)
	}

	s.BeginTurn("act", SentimentObsessive)
	reply = minimalReply()
	reply.VisitDelta = -2
	s.FinishTurn(reply)
	if s.VisitCount != 1 {
		t.Fatalf("visit count regressed: %d", s.VisitCount)
	}
}

func TestFinishTurnAddsObjectivesBeforeCompleting(t *testing.T) {
	s := NewSession()
	s.BeginTurn("act", SentimentIntellectual)
	reply := minimalReply()
	reply.NewObjectives = []Objective{{ID: "letters", Label: "The Letters"}}
	reply.CompleteIDs = []string{"letters"}
	out := s.FinishTurn(reply)
	if !s.Ledger.IsCompleted("letters") {
		t.Fatalf("objective introduced and completed in the same turn must land completed")
	}
	if len(out.Notices) != 2 {
		t.Fatalf("expected add + complete notices, got %v", out.Notices)
	}
	if out.Notices[0] != "NEW OBJECTIVE: The Letters" || out.Notices[1] != "CHECKPOINT REACHED: The Letters" {
		t.Fatalf("notice order wrong: %v", out.Notices)
	}
}

func TestObsessionFloorForcesGameOver(t *testing.T) {
	s := NewSession()
	s.Obsession = 5
	s.BeginTurn("act", SentimentPassive)
	reply := minimalReply()
	reply.ObsessionDelta = -10
	reply.GameOver = false
	out := s.FinishTurn(reply)
	if !s.GameOver {
		t.Fatalf("boredom death not forced at zero obsession")
	}
	last := out.Appended[len(out.Appended)-1]
	if last.Sender != SenderSystem || last.Timestamp != "The End of Meaning" {
		t.Fatalf("terminal segment wrong: %+v", last)
	}
	if last.Lines[0] != ">OBSESSION LEVEL CRITICAL" {
		t.Fatalf("terminal line wrong: %q", last.Lines[0])
	}
}

func TestObsessionFloorWithGeneratorGameOverAddsNoExtraSegment(t *testing.T) {
	s := NewSession()
	s.Obsession = 5
	s.BeginTurn("act", SentimentPassive)
	reply := minimalReply()
	reply.ObsessionDelta = -10
	reply.GameOver = true
	out := s.FinishTurn(reply)
	if !s.GameOver {
		t.Fatalf("game over lost")
	}
	if len(out.Appended) != 1 {
		t.Fatalf("generator already ended the game; no terminal segment expected, got %d", len(out.Appended))
	}
}

func TestFinishTurnNormalizesChoiceSentiments(t *testing.T) {
	s := NewSession()
	s.BeginTurn("act", SentimentPassive)
	reply := minimalReply()
	reply.Choices = []Choice{{ID: "odd", Text: "Odd", Sentiment: "melancholic"}}
	s.FinishTurn(reply)
	if s.Choices[0].Sentiment != SentimentPassive {
		t.Fatalf("out-of-set sentiment not normalized: %s", s.Choices[0].Sentiment)
	}
}

func TestFinishTurnCollectsAssetRequests(t *testing.T) {
	s := NewSession()
	s.BeginTurn("act", SentimentObsessive)
	reply := minimalReply()
	reply.Narrative[0].ImagePrompt = "the iron panels of the plaza"
	reply.Narrative[0].MusicPrompt = "distant tango through a wall"
	out := s.FinishTurn(reply)
	if len(out.AssetRequests) != 2 {
		t.Fatalf("asset requests: got %d want 2", len(out.AssetRequests))
	}
	for _, req := range out.AssetRequests {
		if req.SegmentID != out.Appended[0].ID {
			t.Fatalf("asset request keyed to wrong segment")
		}
	}
}

func TestApplyAssetPatchWriteOnce(t *testing.T) {
	s := NewSession()
	s.BeginTurn("act", SentimentPassive)
	reply := minimalReply()
	reply.Narrative[0].ImagePrompt = "portraits of Beatriz"
	out := s.FinishTurn(reply)
	id := out.Appended[0].ID

	if !s.ApplyAssetPatch(id, AssetImage, "ref-1") {
		t.Fatalf("first patch should apply")
	}
	if s.ApplyAssetPatch(id, AssetImage, "ref-2") {
		t.Fatalf("second patch should be a no-op")
	}
	for _, seg := range s.Transcript {
		if seg.ID == id && seg.ImageRef != "ref-1" {
			t.Fatalf("first ref overwritten: %q", seg.ImageRef)
		}
	}
	if s.ApplyAssetPatch("no-such-segment", AssetImage, "ref") {
		t.Fatalf("unknown segment id should be a no-op")
	}
	if s.ApplyAssetPatch(id, AssetMusic, "") {
		t.Fatalf("empty ref should be a no-op")
	}
}

func TestAbortTurnLeavesRetryChoice(t *testing.T) {
	s := NewSession()
	s.BeginTurn("act", SentimentPassive)
	s.AbortTurn()
	if s.TurnInFlight {
		t.Fatalf("gate still armed after abort")
	}
	if len(s.Choices) != 1 || s.Choices[0].Sentiment != SentimentPassive {
		t.Fatalf("expected single passive retry choice, got %+v", s.Choices)
	}
	// abort without a turn in flight changes nothing
	before := s.Choices[0].ID
	s.AbortTurn()
	if s.Choices[0].ID != before {
		t.Fatalf("idle abort mutated state")
	}
}

func TestHistoryWindowIsBounded(t *testing.T) {
	s := NewSession()
	for i := 0; i < 10; i++ {
		if _, ok := s.BeginTurn("walk", SentimentPassive); !ok {
			t.Fatalf("turn %d rejected", i)
		}
		s.FinishTurn(minimalReply())
	}
	req, ok := s.BeginTurn("walk again", SentimentPassive)
	if !ok {
		t.Fatalf("final turn rejected")
	}
	if len(req.History) != historyWindow {
		t.Fatalf("history window: got %d want %d", len(req.History), historyWindow)
	}
}

func TestVisibleTimestampFollowsReveal(t *testing.T) {
	transcript := []StorySegment{
		{Timestamp: "February 15, 1929"},
		{Timestamp: ""},
		{Timestamp: "April 30, 1931"},
	}
	if got := VisibleTimestamp(transcript, 0); got != SessionStartTime {
		t.Fatalf("nothing shown: got %q", got)
	}
	if got := VisibleTimestamp(transcript, 2); got != "February 15, 1929" {
		t.Fatalf("blank timestamp should fall back to prior, got %q", got)
	}
	if got := VisibleTimestamp(transcript, 3); got != "April 30, 1931" {
		t.Fatalf("all shown: got %q", got)
	}
	if got := VisibleTimestamp(transcript, 99); got != "April 30, 1931" {
		t.Fatalf("overshoot should clamp, got %q", got)
	}
}

func TestTurnCompletingVowAdvancesScene(t *testing.T) {
	s := NewSession()
	req, _ := s.BeginTurn("consecrate myself to her memory", SentimentObsessive)
	if req.Scene.ID != ScenePlaza {
		t.Fatalf("opening scene: got %s", req.Scene.ID)
	}
	s.Obsession = 90
	reply := minimalReply()
	reply.ObsessionDelta = 10
	reply.CompleteIDs = []string{ObjectiveVow}
	s.FinishTurn(reply)
	if s.Obsession != 100 {
		t.Fatalf("obsession: got %d want 100", s.Obsession)
	}
	req2, ok := s.BeginTurn("walk to Garay Street", SentimentObsessive)
	if !ok {
		t.Fatalf("follow-up turn rejected")
	}
	if req2.Scene.ID != ScenePilgrimage {
		t.Fatalf("scene after vow: got %s want %s", req2.Scene.ID, ScenePilgrimage)
	}
}

func TestDegradedStyleReplyKeepsSessionControllable(t *testing.T) {
	s := NewSession()
	s.BeginTurn("act", SentimentPassive)
	reply := TurnReply{
		Narrative: []NarrativeItem{{Sender: SenderSystem, Lines: []string{">the connection to the aleph is severed"}, Timestamp: "Unknown Date"}},
		Choices:   []Choice{{ID: "retry", Text: "Attempt to re-perceive the universe", Sentiment: SentimentPassive}},
	}
	s.FinishTurn(reply)
	if s.GameOver || s.TurnInFlight {
		t.Fatalf("session must remain playable")
	}
	if s.Obsession != 100 || s.VisitCount != 0 {
		t.Fatalf("meters moved: obsession=%d visits=%d", s.Obsession, s.VisitCount)
	}
	if _, ok := s.BeginTurn("retry", SentimentPassive); !ok {
		t.Fatalf("retry submission rejected")
	}
}
