package stage

import (
	"fmt"
	"math"

	"github.com/rukai/canon-collision-sub001/geom"
)

// endpoints closer than this are considered connected
const connectEpsilon = 1e-6

// SpawnPoint places a fighter at match start.
type SpawnPoint struct {
	X         float64 `mapstructure:"x"`
	Y         float64 `mapstructure:"y"`
	FaceRight bool    `mapstructure:"face_right"`
}

// Stage is an ordered surface list with a blast-zone rect. Surface order is
// part of the simulation's determinism contract: landing scans and ledge
// scans walk surfaces in declared order.
type Stage struct {
	Name     string       `mapstructure:"name"`
	Surfaces []Surface    `mapstructure:"surfaces"`
	Blast    geom.Rect    `mapstructure:"blast"`
	Spawns   []SpawnPoint `mapstructure:"spawns"`
}

// ConnectedFloors names the floors joined to a surface's ends, -1 for none.
type ConnectedFloors struct {
	LeftI  int
	RightI int
}

// ConnectedFloors finds the floor surfaces whose ends coincide with the
// given surface's left and right ends. First declared match wins.
func (s *Stage) ConnectedFloors(surfaceI int) ConnectedFloors {
	connected := ConnectedFloors{LeftI: -1, RightI: -1}
	if surfaceI < 0 || surfaceI >= len(s.Surfaces) {
		return connected
	}
	surface := &s.Surfaces[surfaceI]
	left := surface.LeftLedge()
	right := surface.RightLedge()

	for i := range s.Surfaces {
		if i == surfaceI || !s.Surfaces[i].IsFloor() {
			continue
		}
		other := &s.Surfaces[i]
		if connected.LeftI == -1 && coincident(other.RightLedge(), left) {
			connected.LeftI = i
		}
		if connected.RightI == -1 && coincident(other.LeftLedge(), right) {
			connected.RightI = i
		}
	}
	return connected
}

func coincident(a, b geom.P) bool {
	return math.Abs(a.X-b.X) < connectEpsilon && math.Abs(a.Y-b.Y) < connectEpsilon
}

// Validate rejects stages the simulation cannot run on.
func (s *Stage) Validate() error {
	if len(s.Surfaces) == 0 {
		return fmt.Errorf("stage %q has no surfaces", s.Name)
	}
	if s.Blast.Left() >= s.Blast.Right() || s.Blast.Bot() >= s.Blast.Top() {
		return fmt.Errorf("stage %q has a degenerate blast zone", s.Name)
	}
	hasFloor := false
	for i := range s.Surfaces {
		if s.Surfaces[i].IsFloor() {
			hasFloor = true
			break
		}
	}
	if !hasFloor {
		return fmt.Errorf("stage %q has no floor surfaces", s.Name)
	}
	return nil
}

// Default returns a small test stage: a main floor with grabbable ledges, a
// pass-through platform above it and a generous blast zone.
func Default() *Stage {
	return &Stage{
		Name: "flat",
		Surfaces: []Surface{
			{X1: -75, Y1: 0, X2: 75, Y2: 0, Floor: &Floor{Traction: 1.0}, Grab1: true, Grab2: true},
			{X1: -20, Y1: 30, X2: 20, Y2: 30, Floor: &Floor{Traction: 1.0, PassThrough: true}},
		},
		Blast: geom.Rect{X1: -200, Y1: -200, X2: 200, Y2: 200},
		Spawns: []SpawnPoint{
			{X: -50, Y: 0, FaceRight: true},
			{X: 50, Y: 0, FaceRight: false},
			{X: -25, Y: 0, FaceRight: true},
			{X: 25, Y: 0, FaceRight: false},
		},
	}
}
