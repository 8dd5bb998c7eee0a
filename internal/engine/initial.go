package engine

var introLines = []string{
	">be me",
	">scorching February morning",
	">Beahtreez Veetairboh just died",
	">imperious agony, no sentimentality, no fear",
	">walking through Plahsah Consteetooseeon",
	">notice they changed the cigarette ad on the iron panels",
	">this pisses me off",
	">realize the universe is already moving on from her",
	">this is just the first change in an infinite series",
	">oh god",
}

func initialTranscript() []StorySegment {
	return []StorySegment{{
		ID:        "intro-1",
		Sender:    SenderNarrator,
		Lines:     append([]string{}, introLines...),
		Timestamp: SessionStartTime,
	}}
}

func initialLedger() Ledger {
	return Ledger{
		{ID: ObjectiveVow, Label: "The Vow", Description: "The world is changing. Resist it. Consecrate yourself to her memory before you forget."},
		{ID: ObjectiveVisit, Label: "The Visit (April 30th)", Description: "You MUST visit Garay Street on her birthday. This requires the Vow."},
		{ID: ObjectiveSalon, Label: "The Salon", Description: "Enter the cluttered salon and examine the portraits."},
		{ID: ObjectiveEncounter, Label: "The Cousin", Description: "Survive the initial social encounter with Carlos Argentino."},
		{ID: ObjectivePoem, Label: "The Poem", Description: "Endure the reading of his poem \"The Earth\"."},
		{ID: ObjectiveTrust, Label: "The Confidant", Description: "Flatter Carlos sufficiently to learn his secret."},
		{ID: ObjectiveCellar, Label: "The Descent", Description: "Secure the invitation to the cellar to see the Aleph."},
	}
}

func initialChoices() []Choice {
	return []Choice{
		{ID: "vow", Text: "Consecrate myself to her memory (Refuse the change)", Sentiment: SentimentObsessive},
		{ID: "accept", Text: "Accept the universe moves on (Move on)", Sentiment: SentimentPassive},
		{ID: "analyze", Text: "Analyze the semiotics of the cigarette ad", Sentiment: SentimentIntellectual},
	}
}
