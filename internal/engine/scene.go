package engine

// Objective ids the scene cascade keys on. They are seeded into every new
// session (see initial.go); the generator may complete them but never owns
// their meaning.
const (
	ObjectiveVow       = "vow_dedication"
	ObjectiveVisit     = "visit_april"
	ObjectiveSalon     = "waiting_room"
	ObjectiveEncounter = "carlos_encounter"
	ObjectivePoem      = "the_poem"
	ObjectiveTrust     = "gain_trust"
	ObjectiveCellar    = "unlock_cellar"
)

// VisitTarget is how many pilgrimages to Garay Street gate the salon.
const VisitTarget = 12

type SceneID string

const (
	ScenePlaza      SceneID = "plaza"
	ScenePilgrimage SceneID = "pilgrimage"
	SceneSalon      SceneID = "salon"
	SceneEncounter  SceneID = "encounter"
	SceneCellar     SceneID = "cellar"
)

// Scene is a static stage definition. Do/Forbid directives are forwarded
// verbatim to the generator; the engine never interprets them beyond that.
type Scene struct {
	ID      SceneID
	Context string
	Do      []string
	Forbid  []string
}

var sceneRegistry = map[SceneID]Scene{
	ScenePlaza: {
		ID:      ScenePlaza,
		Context: "Plaza Constitución, February 1929. Beatriz Viterbo has just died. The cigarette ad on the iron panels has been replaced; the universe is already moving on.",
		Do: []string{
			"Press the protagonist toward the Vow: consecrate himself to her memory.",
			"If the player is passive, advance time only by minutes or hours and dwell on the horror of the mundane.",
			"If the player takes the Vow, jump time to April 30, 1929 and move toward Garay Street.",
		},
		Forbid: []string{
			"Do not introduce Carlos Argentino Daneri yet.",
			"Do not mention the Aleph or the cellar.",
		},
	},
	ScenePilgrimage: {
		ID:      ScenePilgrimage,
		Context: "The annual ritual: every April 30th, a visit to the house on Garay Street. Each visit deepens the habit and the acquaintance.",
		Do: []string{
			"Treat each successful visit as one more year absorbed into the ritual.",
			"Let obsessive choices make the years fly; let passive ones trap the player in a single stifling afternoon.",
		},
		Forbid: []string{
			"Do not skip ahead to the salon, the poem, or the cellar.",
			"Do not let more than one visit conclude in a single turn.",
		},
	},
	SceneSalon: {
		ID:      SceneSalon,
		Context: "April 30th, the house on Garay Street. The visit is unannounced. The cluttered salon waits, crowded with portraits of Beatriz.",
		Do: []string{
			"Have the player enter the salon and examine the portraits.",
			"Keep the social temperature awkward; nobody is expecting Borges.",
		},
		Forbid: []string{
			"Do not bring Carlos Argentino Daneri on stage before the salon has been examined.",
		},
	},
	SceneEncounter: {
		ID:      SceneEncounter,
		Context: "Carlos Argentino Daneri appears: pompous, rhyming, full of his poem. He is surprised by the visit, slightly annoyed, polite only by social reflex.",
		Do: []string{
			"Play Carlos verbose and self-satisfied; flattery opens him, rudeness makes the hours crawl.",
		},
		Forbid: []string{
			"Do not reveal the cellar or the Aleph until trust is won.",
		},
	},
	SceneCellar: {
		ID:      SceneCellar,
		Context: "The descent. Below the dining room, under the nineteenth step, the point that contains all points waits in the dark.",
		Do: []string{
			"Allow the finale to unfold; high obsession may finally perceive the Aleph.",
		},
	},
}

// SceneByID looks up a static scene definition.
func SceneByID(id SceneID) (Scene, bool) {
	s, ok := sceneRegistry[id]
	return s, ok
}

// ResolveScene derives the current scene from the ledger and the visit
// counter. The cascade is ordered; the first matching predicate wins. Both
// inputs are monotonic, so scene progression can never run backwards.
func ResolveScene(l Ledger, visitCount int) Scene {
	switch {
	case !l.IsCompleted(ObjectiveVow):
		return sceneRegistry[ScenePlaza]
	case visitCount < VisitTarget:
		return sceneRegistry[ScenePilgrimage]
	case !l.IsCompleted(ObjectiveSalon):
		return sceneRegistry[SceneSalon]
	case !l.IsCompleted(ObjectiveEncounter):
		return sceneRegistry[SceneEncounter]
	default:
		return sceneRegistry[SceneCellar]
	}
}
