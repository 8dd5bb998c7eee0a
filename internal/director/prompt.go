package director

import (
	"fmt"
	"strings"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

const systemInstruction = `You are the Game Master for "The Aleph: Infinite Borges".
The protagonist is Jorge Luis Borges (fictionalized).
The tone is a mix of High Literary Modernism and 4chan Greentext.

VISUALS:
- When a new location is entered, a significant object appears, or the atmosphere changes drastically, include an imagePrompt in the narrative object.
- Image prompts describe a Noir, 1920s Buenos Aires, surrealist, grainy, black and white aesthetic.
- When the ambient mood shifts, you may include a musicPrompt describing the room tone.

TIME DILATION MECHANIC (HIDDEN FROM PLAYER):
- SHOW, DON'T TELL: never explain that time is slowing down or speeding up. The player must read it off the timestamp and the pacing of the text.
- CORRECT / OBSESSIVE CHOICES cause TIME JUMPS. The years fly by when one is devoted to a memory.
- WRONG / PASSIVE / MUNDANE CHOICES cause TIME STAGNATION. Time crawls in seconds, minutes, hours. The player is trapped in the agonizing present.
- Every narrative item MUST carry a timestamp with Day, Month, Year (e.g. "February 15, 1929").

GAMEPLAY:
- Obsession: high (80+) may ultimately perceive the Aleph; 0 is Game Over by boredom.
- sanityChange is the obsession delta for this turn (-20 to +20).
- visitCountChange is 1 only when a full annual visit to Garay Street concludes this turn, otherwise 0.
- completedObjectiveIds lists checkpoint ids finished this turn; newObjectives may introduce side checkpoints when the story branches.

TONE:
- BORGES: internal monologue. Cynical, weary, greentext.
- CARLOS: pompous, rhyming, all-caps emphasis, verbose.
- SYSTEM: cold, objective, tracking the timeline.

Do not railroad: if the player fails to progress, let them rot where they stand until boredom kills them.
Return JSON matching the provided schema.`

// buildUserPrompt serializes one turn into the user message. Scene
// directives travel verbatim; the model never sees transcript beyond the
// bounded window already inside the request.
func buildUserPrompt(req Request) string {
	t := req.Turn
	var b strings.Builder

	fmt.Fprintf(&b, "Current Obsession Level: %d/100\n", t.Obsession)
	fmt.Fprintf(&b, "Annual Visits Completed: %d/%d\n", t.VisitCount, engine.VisitTarget)
	fmt.Fprintf(&b, "Current Scene: %s\n%s\n\n", t.Scene.ID, t.Scene.Context)

	if len(t.Scene.Do) > 0 {
		b.WriteString("SCENE DIRECTIVES:\n")
		for _, d := range t.Scene.Do {
			b.WriteString("- " + d + "\n")
		}
	}
	if len(t.Scene.Forbid) > 0 {
		b.WriteString("FORBIDDEN:\n")
		for _, d := range t.Scene.Forbid {
			b.WriteString("- " + d + "\n")
		}
	}

	b.WriteString("\nCURRENT CHECKPOINTS:\n")
	for _, o := range t.Ledger {
		if o.Completed {
			continue
		}
		fmt.Fprintf(&b, "[ID: %s] %s: %s\n", o.ID, o.Label, o.Description)
	}

	b.WriteString("\nGame History:\n")
	b.WriteString(strings.Join(t.History, "\n"))

	fmt.Fprintf(&b, "\n\nPlayer Action (%s): %s\n", t.Sentiment, t.Action)

	if req.Language != "" {
		fmt.Fprintf(&b, "\nWrite all narrative text and choices in %s.\n", req.Language)
	}

	b.WriteString("\nGenerate the next narrative segment. Apply the Time Dilation Rules strictly but implicitly. Return JSON.\n")
	return b.String()
}
