package stage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rukai/canon-collision-sub001/geom"
)

func TestPlatXTransformsRoundTrip(t *testing.T) {
	s := Surface{X1: -10, Y1: 0, X2: 10, Y2: 0, Floor: &Floor{}}

	p := s.PlatXToWorld(3)
	assert.InDelta(t, 3.0, p.X, 1e-9)
	assert.InDelta(t, 0.0, p.Y, 1e-9)
	assert.InDelta(t, 3.0, s.WorldXToPlatX(p.X), 1e-9)

	// sloped surface
	sloped := Surface{X1: 0, Y1: 0, X2: 10, Y2: 10, Floor: &Floor{}}
	angle := sloped.FloorAngle()
	assert.InDelta(t, math.Pi/4, angle, 1e-9)
	p = sloped.PlatXToWorld(0)
	assert.InDelta(t, 5.0, p.X, 1e-9)
	assert.InDelta(t, 5.0, p.Y, 1e-9)
}

func TestPlatXBounds(t *testing.T) {
	s := Surface{X1: -10, Y1: 0, X2: 10, Y2: 0, Floor: &Floor{}}
	assert.True(t, s.PlatXInBounds(10))
	assert.True(t, s.PlatXInBounds(-10))
	assert.False(t, s.PlatXInBounds(10.5))
	assert.Equal(t, 10.0, s.PlatXClamp(15))
	assert.Equal(t, -10.0, s.PlatXClamp(-15))
}

func TestDegenerateSurface(t *testing.T) {
	s := Surface{X1: 0, Y1: 0, X2: 0, Y2: 0, Floor: &Floor{}}
	assert.Equal(t, 0.0, s.FloorAngle())
	assert.False(t, s.PlatXInBounds(1))
	assert.InDelta(t, 1.0, s.PlatXToWorld(1).X, 1e-9)
}

func TestLedgeGrabFlagsFollowWorldOrientation(t *testing.T) {
	// P1 declared on the right: grab flags must still resolve by world side
	s := Surface{X1: 10, Y1: 0, X2: -10, Y2: 0, Floor: &Floor{}, Grab1: true}
	assert.False(t, s.LeftGrab())
	assert.True(t, s.RightGrab())
	assert.Equal(t, geom.P{X: -10, Y: 0}, s.LeftLedge())
	assert.Equal(t, geom.P{X: 10, Y: 0}, s.RightLedge())
}

func TestConnectedFloors(t *testing.T) {
	st := &Stage{
		Name: "three",
		Surfaces: []Surface{
			{X1: -10, Y1: 0, X2: 0, Y2: 0, Floor: &Floor{}},
			{X1: 0, Y1: 0, X2: 10, Y2: 5, Floor: &Floor{}},
			{X1: 10, Y1: 5, X2: 20, Y2: 5}, // not a floor
		},
		Blast: geom.Rect{X1: -100, Y1: -100, X2: 100, Y2: 100},
	}

	c := st.ConnectedFloors(0)
	assert.Equal(t, -1, c.LeftI)
	assert.Equal(t, 1, c.RightI)

	c = st.ConnectedFloors(1)
	assert.Equal(t, 0, c.LeftI)
	assert.Equal(t, -1, c.RightI, "non-floor neighbors are not connected")
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	empty := &Stage{Name: "empty"}
	assert.Error(t, empty.Validate())

	noFloor := &Stage{
		Name:     "walls",
		Surfaces: []Surface{{X1: 0, Y1: 0, X2: 0, Y2: 10, Wall: true}},
		Blast:    geom.Rect{X1: -10, Y1: -10, X2: 10, Y2: 10},
	}
	assert.Error(t, noFloor.Validate())
}
