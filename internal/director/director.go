// Package director is the gateway between the session state machine and the
// remote generative model. It owns prompt construction, the structured reply
// contract, the primary/fallback retry policy, and the fixed degraded reply
// that keeps a session playable when every model attempt fails.
package director

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

// Director produces the next structured story beat for a turn.
type Director interface {
	NextTurn(ctx context.Context, req Request) (engine.TurnReply, error)
}

// Request wraps the engine's turn request with presentation-level knobs the
// engine itself does not care about.
type Request struct {
	Turn     engine.TurnRequest
	Language string // target language for the generated prose
}

// Wire types mirror the JSON contract the model is asked to fill. Everything
// arrives as strings and is normalized into the engine's closed enums.

type wireNarrative struct {
	Sender      string   `json:"sender"`
	Lines       []string `json:"lines"`
	Timestamp   string   `json:"timestamp"`
	ImagePrompt string   `json:"imagePrompt"`
	MusicPrompt string   `json:"musicPrompt"`
	Tone        string   `json:"tone"`
}

type wireChoice struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
}

type wireObjective struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type wireStatUpdates struct {
	SanityChange     int `json:"sanityChange"`
	VisitCountChange int `json:"visitCountChange"`
}

type wireReply struct {
	Narrative             []wireNarrative  `json:"narrative"`
	Choices               []wireChoice     `json:"choices"`
	StatUpdates           *wireStatUpdates `json:"statUpdates"`
	CompletedObjectiveIds []string         `json:"completedObjectiveIds"`
	NewObjectives         []wireObjective  `json:"newObjectives"`
	GameOver              bool             `json:"gameOver"`
}

var errIncompleteReply = errors.New("reply missing narrative or choices")

// normalize validates a wire reply and converts it into engine terms. A reply
// without narrative or choices is a schema violation and surfaces as an
// error, which the caller treats as a model failure.
func normalize(w wireReply) (engine.TurnReply, error) {
	if len(w.Narrative) == 0 || len(w.Choices) == 0 {
		return engine.TurnReply{}, errIncompleteReply
	}
	reply := engine.TurnReply{GameOver: w.GameOver}
	for _, n := range w.Narrative {
		reply.Narrative = append(reply.Narrative, engine.NarrativeItem{
			Sender:      engine.ParseSender(n.Sender),
			Lines:       n.Lines,
			Timestamp:   n.Timestamp,
			ImagePrompt: n.ImagePrompt,
			MusicPrompt: n.MusicPrompt,
			Tone:        n.Tone,
		})
	}
	for _, c := range w.Choices {
		reply.Choices = append(reply.Choices, engine.Choice{
			ID:        c.ID,
			Text:      c.Text,
			Sentiment: engine.ParseSentiment(c.Sentiment),
		})
	}
	if w.StatUpdates != nil {
		reply.ObsessionDelta = w.StatUpdates.SanityChange
		reply.VisitDelta = w.StatUpdates.VisitCountChange
	}
	reply.CompleteIDs = w.CompletedObjectiveIds
	for _, o := range w.NewObjectives {
		reply.NewObjectives = append(reply.NewObjectives, engine.Objective{
			ID:          o.ID,
			Label:       o.Label,
			Description: o.Description,
		})
	}
	return reply, nil
}

// decodeReply unmarshals model output, tolerating prose wrapped around the
// JSON object.
func decodeReply(outputText string) (engine.TurnReply, error) {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return engine.TurnReply{}, io.ErrUnexpectedEOF
	}
	var w wireReply
	if err := json.Unmarshal([]byte(s), &w); err == nil {
		return normalize(w)
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return engine.TurnReply{}, fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), &w); err != nil {
		return engine.TurnReply{}, fmt.Errorf("unmarshal extracted JSON: %w", err)
	}
	return normalize(w)
}

// Degraded is the fixed safe reply used when both models fail. It keeps the
// session controllable: one System beat, one passive retry choice, and the
// game is pointedly not over.
func Degraded() engine.TurnReply {
	return engine.TurnReply{
		Narrative: []engine.NarrativeItem{{
			Sender:    engine.SenderSystem,
			Lines:     []string{">the connection to the aleph is severed", ">time collapses"},
			Timestamp: "Unknown Date",
		}},
		Choices: []engine.Choice{{
			ID:        "retry",
			Text:      "Attempt to re-perceive the universe",
			Sentiment: engine.SentimentPassive,
		}},
		GameOver: false,
	}
}
