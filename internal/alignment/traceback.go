package alignment

// GapMarker is written into an aligned string where a symbol faces a gap.
const GapMarker = '-'

// Traceback walks m from the bottom-right corner to (0, 0) and returns the
// two aligned strings. A move is taken when the predecessor's value plus the
// step score reproduces the current cell. When several moves qualify the
// diagonal wins, then Left (gap in a), then Up (gap in b). On row 0 only Left
// is possible and on column 0 only Up.
func Traceback(m *Matrix, a, b string, model ScoringModel) (string, string) {
	x, y := len(a), len(b)
	n := x + y
	outA := make([]byte, n)
	outB := make([]byte, n)
	k := n
	gap := model.GapCost()

	for x > 0 || y > 0 {
		k--
		switch nextMove(m, a, b, model, gap, x, y) {
		case Diagonal:
			outA[k], outB[k] = a[x-1], b[y-1]
			x--
			y--
		case Left:
			outA[k], outB[k] = GapMarker, b[y-1]
			y--
		case Up:
			outA[k], outB[k] = a[x-1], GapMarker
			x--
		}
	}

	return string(outA[k:]), string(outB[k:])
}

func nextMove(m *Matrix, a, b string, model ScoringModel, gap, x, y int) Move {
	if x == 0 {
		return Left
	}
	if y == 0 {
		return Up
	}

	cur := m.At(x, y)
	switch {
	case cur == m.At(x-1, y-1)+model.Substitution(a[x-1], b[y-1]):
		return Diagonal
	case cur == m.At(x, y-1)+gap:
		return Left
	default:
		return Up
	}
}
