// Package hunt defines the scavenger-hunt domain model: items, the ordered
// hunt state, and reward tiers derived from progress.
package hunt

// Item is one scavenger-hunt target. ID, Title and Clue are fixed at seed
// time; Found and Photo are the only mutable fields.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Clue  string `json:"clue"`
	Found bool   `json:"found"`

	// Photo holds the re-encoded JPEG attached when the item was found.
	// Invariant: Photo is non-nil exactly when Found is true.
	Photo []byte `json:"photoData"`
}

// State is the full ordered collection of hunt items. Order is the seed
// order and stays stable across persistence round-trips.
type State struct {
	Items []Item `json:"items"`
}

// FoundCount returns the number of items marked found.
func (s *State) FoundCount() int {
	n := 0
	for i := range s.Items {
		if s.Items[i].Found {
			n++
		}
	}
	return n
}

// Total returns the number of items in the hunt.
func (s *State) Total() int {
	return len(s.Items)
}

// Complete reports whether every item has been found.
func (s *State) Complete() bool {
	return len(s.Items) > 0 && s.FoundCount() == len(s.Items)
}

// IndexOf returns the position of the item with the given ID, or -1.
func (s *State) IndexOf(id string) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the state. Photo slices are copied so the
// caller can never alias the tracker's internal buffers.
func (s *State) Clone() State {
	out := State{Items: make([]Item, len(s.Items))}
	copy(out.Items, s.Items)
	for i := range out.Items {
		if s.Items[i].Photo != nil {
			out.Items[i].Photo = make([]byte, len(s.Items[i].Photo))
			copy(out.Items[i].Photo, s.Items[i].Photo)
		}
	}
	return out
}
