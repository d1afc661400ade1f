package engine

import "strings"

// FreeCells returns every cell a robot could be placed on right now: empty
// or goal tiles not occupied by a robot. Cells come in row-major order.
func FreeCells(b *Board, robots *Robots) []Position {
	var cells []Position
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			p := Position{X: x, Y: y}
			if !b.Standable(p) {
				continue
			}
			if robots != nil {
				if _, taken := robots.At(p); taken {
					continue
				}
			}
			cells = append(cells, p)
		}
	}
	return cells
}

// CountTiles counts the cells of the given kind.
func CountTiles(b *Board, kind TileKind) int {
	count := 0
	for _, t := range b.tiles {
		if t.Kind() == kind {
			count++
		}
	}
	return count
}

// Render draws the board as text. Robots are upper-case initials, goals
// lower-case initials ('*' for any color), barriers '/' or '\', inaccessible
// cells '#'. Walls between open cells are '|' and '-'.
func Render(b *Board, robots *Robots) string {
	var sb strings.Builder
	open := func(p Position) bool { return b.Valid(p) && b.Standable(p) }

	sb.WriteString("+" + strings.Repeat("--", b.Width()-1) + "-+\n")
	for y := 0; y < b.Height(); y++ {
		sb.WriteByte('|')
		for x := 0; x < b.Width(); x++ {
			p := Position{X: x, Y: y}
			sb.WriteByte(cellGlyph(b, robots, p))
			switch {
			case x == b.Width()-1:
				sb.WriteByte('|')
			case open(p) && open(p.Step(East, 1)) && b.DistanceToWall(p, East) == 0:
				sb.WriteByte('|')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
		if y == b.Height()-1 {
			break
		}
		sb.WriteByte('|')
		for x := 0; x < b.Width(); x++ {
			p := Position{X: x, Y: y}
			if open(p) && open(p.Step(South, 1)) && b.DistanceToWall(p, South) == 0 {
				sb.WriteByte('-')
			} else {
				sb.WriteByte(' ')
			}
			if x < b.Width()-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("--", b.Width()-1) + "-+\n")
	return sb.String()
}

func cellGlyph(b *Board, robots *Robots, p Position) byte {
	if robots != nil {
		if c, ok := robots.At(p); ok {
			return c.String()[0] - 'a' + 'A'
		}
	}
	switch t := b.Tile(p).(type) {
	case Inaccessible:
		return '#'
	case Barrier:
		return t.Orientation.String()[0]
	case GoalMarker:
		if t.Goal.Color == Mix {
			return '*'
		}
		return t.Goal.Color.String()[0]
	}
	return '.'
}
