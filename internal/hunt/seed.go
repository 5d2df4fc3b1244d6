package hunt

import "github.com/google/uuid"

// seedEntries are the fixed title/clue pairs every fresh hunt starts with.
// Clues are Markdown; the API can serve them rendered to HTML.
var seedEntries = []struct {
	title string
	clue  string
}{
	{"Red Door", "Look for the *oldest* entrance on the square."},
	{"Clock Tower", "It has watched over the market since **1887**."},
	{"Stone Lion", "Two of them guard the steps, photograph the one facing east."},
	{"Mosaic Fountain", "Coins sink where the tiles make a sunburst."},
	{"Iron Bridge", "Count the rivets on the third arch, then look down."},
	{"Mural Alley", "A whale swims across six garage doors."},
	{"Botanic Gate", "The greenhouse key hangs where the ivy is thickest."},
	{"Harbor Bell", "Rung twice a day, silent on Sundays."},
	{"Bookshop Cat", "Sleeps in the window between *poetry* and *maps*."},
	{"Lighthouse Steps", "Exactly 99, the hundredth is missing."},
}

// SeedItemCount is the fixed number of items in a hunt.
const SeedItemCount = 10

// NewSeedState builds a fresh hunt: every item unfound, no photos, IDs
// assigned once here and immutable afterwards.
func NewSeedState() State {
	items := make([]Item, len(seedEntries))
	for i, e := range seedEntries {
		items[i] = Item{
			ID:    uuid.NewString(),
			Title: e.title,
			Clue:  e.clue,
		}
	}
	return State{Items: items}
}
