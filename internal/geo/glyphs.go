package geo

// Theme selects the glyph palette of the reveal squares.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// SquareCount is the fixed number of reveal cells per row.
const SquareCount = 5

const (
	squareCorrect     = "🟩"
	squarePresent     = "🟨"
	squareAbsentLight = "⬜"
	squareAbsentDark  = "⬛"
)

// Celebration replaces the arrow when a guess lands exactly on the target.
const Celebration = "🎉"

var arrows = map[Direction]string{
	DirN:     "⬆️",
	DirNE:    "↗️",
	DirE:     "➡️",
	DirSE:    "↘️",
	DirS:     "⬇️",
	DirSW:    "↙️",
	DirW:     "⬅️",
	DirNW:    "↖️",
	DirError: "❌",
}

// Arrow returns the arrow glyph for d; unknown directions map to the error glyph.
func Arrow(d Direction) string {
	if a, ok := arrows[d]; ok {
		return a
	}
	return arrows[DirError]
}

// SquareCells builds the SquareCount reveal glyphs for a proximity score.
// Each full 20% is a correct square, a remainder of at least 10% adds one
// present square, and the rest are absent squares in the theme's colour.
// An ERROR direction on a non-perfect score means the metrics were not
// computable, so every cell is absent.
func SquareCells(proximity int, theme Theme, dir Direction) []string {
	absent := squareAbsentLight
	if theme == ThemeDark {
		absent = squareAbsentDark
	}
	if proximity < 0 {
		proximity = 0
	}
	if proximity > 100 {
		proximity = 100
	}

	cells := make([]string, SquareCount)
	if dir == DirError && proximity < 100 {
		for i := range cells {
			cells[i] = absent
		}
		return cells
	}

	correct := proximity / 20
	present := 0
	if proximity-correct*20 >= 10 {
		present = 1
	}
	for i := range cells {
		switch {
		case i < correct:
			cells[i] = squareCorrect
		case i < correct+present:
			cells[i] = squarePresent
		default:
			cells[i] = absent
		}
	}
	return cells
}
