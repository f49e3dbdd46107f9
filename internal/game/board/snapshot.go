package board

import "fmt"

// CellState is the persisted form of one cell.
type CellState struct {
	X, Y int
	Cell Cell
}

// Snapshot is the persisted form of a Board.
type Snapshot struct {
	Width  int
	Height int
	Cells  []CellState
}

// Snapshot captures every cell in row-major order.
func (b *Board) Snapshot() Snapshot {
	s := Snapshot{Width: b.width, Height: b.height, Cells: make([]CellState, 0, len(b.cells))}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			s.Cells = append(s.Cells, CellState{X: x, Y: y, Cell: *b.cell(x, y)})
		}
	}
	return s
}

// FromSnapshot rebuilds a Board and its actor index from s.
//
// Postcondition: returns an error for a bad size, an out-of-range cell or a
// duplicated actor ID.
func FromSnapshot(s Snapshot, opts ...Option) (*Board, error) {
	b, err := New(s.Width, s.Height, opts...)
	if err != nil {
		return nil, err
	}
	for _, cs := range s.Cells {
		c := b.cell(cs.X, cs.Y)
		if c == nil {
			return nil, fmt.Errorf("cell %d,%d outside %dx%d board", cs.X, cs.Y, s.Width, s.Height)
		}
		*c = cs.Cell
		if id := cs.Cell.Actor.ID; id != "" {
			if _, dup := b.actors[id]; dup {
				return nil, fmt.Errorf("actor %q placed twice", id)
			}
			b.actors[id] = Point{cs.X, cs.Y}
		}
	}
	return b, nil
}
