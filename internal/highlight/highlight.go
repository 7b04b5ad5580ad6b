// Package highlight colours and labels map nodes from the guess history.
package highlight

import (
	"github.com/maxbax0808/Bergle/internal/catalog"
	"github.com/maxbax0808/Bergle/internal/game"
	"github.com/maxbax0808/Bergle/internal/mapgraph"
)

const (
	Correct   = "green"
	Incorrect = "red"
)

// MaxGuesses is the guess count at which every label is revealed.
const MaxGuesses = game.DefaultMaxGuesses

// Apply recolours nodes in place.
//
// With hideUnguessed every label starts hidden. Each guess whose name matches
// a node label (case-insensitively) colours that node: the winner turns
// Correct and reveals all labels, any other match turns Incorrect and reveals
// only its own label. Unmatched guesses are ignored. Once the game is over
// (MaxGuesses reached or an exact guess) every label is shown.
func Apply(winnerName string, guesses []game.Guess, nodes []mapgraph.Node, hideUnguessed bool) {
	winner := catalog.Normalize(winnerName)

	if hideUnguessed {
		for i := range nodes {
			nodes[i].LabelHidden = true
		}
	}

	byLabel := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if n.Label == "" {
			continue
		}
		if _, dup := byLabel[catalog.Normalize(n.Label)]; !dup {
			byLabel[catalog.Normalize(n.Label)] = i
		}
	}

	for _, g := range guesses {
		name := catalog.Normalize(g.Name)
		i, ok := byLabel[name]
		if !ok {
			continue
		}
		if name == winner {
			nodes[i].Fill = Correct
			revealAll(nodes)
			continue
		}
		nodes[i].Fill = Incorrect
		nodes[i].LabelHidden = false
	}

	if GameOver(guesses) {
		revealAll(nodes)
	}
}

// GameOver reports whether the history ends the game: the guess limit was
// reached or some guess landed exactly on the target.
func GameOver(guesses []game.Guess) bool {
	if len(guesses) >= MaxGuesses {
		return true
	}
	for _, g := range guesses {
		if g.Exact() {
			return true
		}
	}
	return false
}

func revealAll(nodes []mapgraph.Node) {
	for i := range nodes {
		nodes[i].LabelHidden = false
	}
}
