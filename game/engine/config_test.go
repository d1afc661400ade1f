package engine

import (
	"path/filepath"
	"strings"
	"testing"
)

const sampleMap = `{
   "width": 5,
   "height": 5,
   "walls": [
      {"location": 2, "x": 1, "y": 1},
      {"location": 3, "x": 3, "y": 0}
   ],
   "goals": [
      {"color": 1, "type": 1, "x": 1, "y": 1},
      {"color": 6, "type": 5, "x": 3, "y": 0}
   ],
   "obstacles": [
      {"type": 1, "x": 2, "y": 2}
   ],
   "barriers": [
      {"type": 2, "color": 2, "x": 4, "y": 3}
   ]
}`

func createTestDescription() *Description {
	d := NewDescription(5, 5)
	d.Name = "test"
	d.AddWall(Position{X: 1, Y: 1}, East).
		AddGoal(Goal{Kind: RectangleSaturn, Color: Red, Position: Position{X: 1, Y: 1}}).
		AddObstacle(Position{X: 2, Y: 2}).
		AddBarrier(Position{X: 4, Y: 3}, Barrier{Orientation: Backward, Color: Green})
	return d
}

func TestValidateDescription(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Description)
		expectErr string
	}{
		{"valid", func(d *Description) {}, ""},
		{"too narrow", func(d *Description) { d.Width = 1 }, "width must be between"},
		{"too tall", func(d *Description) { d.Height = MaxBoardSize + 1 }, "height must be between"},
		{"bad wall location", func(d *Description) { d.Walls[0].Location = 7 }, "invalid location"},
		{"wall off board", func(d *Description) { d.Walls[0].X = 5 }, "outside the board"},
		{"goal off board", func(d *Description) { d.Goals[0].Y = -1 }, "outside the board"},
		{"bad goal color", func(d *Description) { d.Goals[0].Color = 9 }, "invalid color"},
		{"bad goal type", func(d *Description) { d.Goals[0].Type = 0 }, "invalid type"},
		{"bad obstacle type", func(d *Description) { d.Obstacles[0].Type = 3 }, "invalid type"},
		{"bad barrier type", func(d *Description) { d.Barriers[0].Type = 3 }, "invalid type"},
		{"goal on obstacle", func(d *Description) { d.Goals[0].X, d.Goals[0].Y = 2, 2 }, "overlaps a obstacle"},
		{"barrier on goal", func(d *Description) { d.Barriers[0].X, d.Barriers[0].Y = 1, 1 }, "overlaps a goal"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := createTestDescription()
			test.modify(d)
			err := ValidateDescription(d)
			if test.expectErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q", test.expectErr)
			}
			if !strings.Contains(err.Error(), test.expectErr) {
				t.Errorf("Expected error containing %q, got %v", test.expectErr, err)
			}
		})
	}
}

func TestValidateDescriptionFullBoard(t *testing.T) {
	d := NewDescription(2, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			d.AddObstacle(Position{X: x, Y: y})
		}
	}
	if err := ValidateDescription(d); err == nil {
		t.Error("Expected a board without free cells to be rejected")
	}
	if err := ValidateDescription(nil); err == nil {
		t.Error("Expected nil description to be rejected")
	}
}

func TestParseDescription(t *testing.T) {
	d, err := ParseDescription([]byte(sampleMap))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Width != 5 || d.Height != 5 {
		t.Errorf("Expected 5x5, got %dx%d", d.Width, d.Height)
	}
	if len(d.Walls) != 2 || len(d.Goals) != 2 || len(d.Obstacles) != 1 || len(d.Barriers) != 1 {
		t.Errorf("Unexpected element counts: %+v", d)
	}
	if d.Goals[1].Color != Mix {
		t.Errorf("Expected second goal to be a mix goal, got %s", d.Goals[1].Color)
	}

	if _, err := ParseDescription([]byte(`{"width": "five"}`)); err == nil {
		t.Error("Expected malformed JSON to be rejected")
	}
	if _, err := ParseDescription([]byte(`{"width": 1, "height": 5}`)); err == nil {
		t.Error("Expected invalid dimensions to be rejected")
	}
}

func TestFromDescription(t *testing.T) {
	d, err := ParseDescription([]byte(sampleMap))
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromDescription(d)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if g, ok := b.Goal(Position{X: 1, Y: 1}); !ok || g.Color != Red || g.Kind != RectangleSaturn {
		t.Errorf("Expected red saturn goal at (1,1), got %+v", g)
	}
	if bar, ok := b.Barrier(Position{X: 4, Y: 3}); !ok || bar.Orientation != Backward || bar.Color != Green {
		t.Errorf("Expected green backward barrier at (4,3), got %+v", bar)
	}
	if b.Tile(Position{X: 2, Y: 2}).Kind() != InaccessibleTile {
		t.Error("Expected (2,2) to be inaccessible")
	}
	if b.CanTravel(Position{X: 1, Y: 1}, East, nil) {
		t.Error("Expected wall east of (1,1)")
	}
	if b.CanTravel(Position{X: 3, Y: 1}, North, nil) {
		t.Error("Expected wall south of (3,0) to block travel north from (3,1)")
	}
	if len(b.Goals()) != 2 {
		t.Errorf("Expected 2 goals, got %d", len(b.Goals()))
	}
}

func TestSaveAndLoadDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	original := createTestDescription()

	if err := SaveDescription(path, original); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	loaded, err := LoadDescription(path)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if loaded.Name != original.Name {
		t.Errorf("Expected name %q, got %q", original.Name, loaded.Name)
	}
	if loaded.Walls[0] != original.Walls[0] || loaded.Goals[0] != original.Goals[0] ||
		loaded.Obstacles[0] != original.Obstacles[0] || loaded.Barriers[0] != original.Barriers[0] {
		t.Errorf("Expected loaded description to match, got %+v", loaded)
	}

	if _, err := LoadDescription(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for a missing file")
	}

	bad := createTestDescription()
	bad.Width = 0
	if err := SaveDescription(path, bad); err == nil {
		t.Error("Expected invalid description not to be saved")
	}
}
