package engine

// TileKind names the active variant of a Tile.
type TileKind uint8

const (
	EmptyTile TileKind = iota
	BarrierTile
	GoalTile
	InaccessibleTile
)

func (k TileKind) String() string {
	switch k {
	case EmptyTile:
		return "empty"
	case BarrierTile:
		return "barrier"
	case GoalTile:
		return "goal"
	case InaccessibleTile:
		return "inaccessible"
	}
	return "unknown"
}

// Tile is the static content of a cell. The concrete type is one of Empty,
// Barrier, GoalMarker or Inaccessible; use a type switch or the Board
// accessors to inspect it.
type Tile interface {
	Kind() TileKind
	sealed()
}

// Empty is a plain floor cell.
type Empty struct{}

// Barrier is a diagonal deflector. Robots of the owner color pass through it.
type Barrier struct {
	Orientation BarrierOrientation `json:"orientation"`
	Color       Color              `json:"color"`
}

// GoalMarker is a cell carrying a goal symbol.
type GoalMarker struct {
	Goal Goal `json:"goal"`
}

// Inaccessible is a cell no robot can enter.
type Inaccessible struct{}

func (Empty) Kind() TileKind        { return EmptyTile }
func (Barrier) Kind() TileKind      { return BarrierTile }
func (GoalMarker) Kind() TileKind   { return GoalTile }
func (Inaccessible) Kind() TileKind { return InaccessibleTile }

func (Empty) sealed()        {}
func (Barrier) sealed()      {}
func (GoalMarker) sealed()   {}
func (Inaccessible) sealed() {}

// Deflects reports whether the barrier changes the direction of robot c.
func (b Barrier) Deflects(c Color) bool {
	return b.Color != c
}
