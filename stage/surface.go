// Package stage models the static geometry the simulation collides with: a
// list of connected surfaces plus the blast-zone rectangle. Stages are
// read-only during simulation.
package stage

import (
	"math"

	"github.com/rukai/canon-collision-sub001/geom"
)

// Floor marks a surface as landable.
type Floor struct {
	Traction    float64 `mapstructure:"traction"`
	PassThrough bool    `mapstructure:"pass_through"`
}

// Surface is one stage edge. Platform-local x coordinates are measured along
// the surface from its midpoint, so the valid range is +-half the surface
// length and the sign of an out-of-bounds x names the side that was crossed.
type Surface struct {
	X1 float64 `mapstructure:"x1"`
	Y1 float64 `mapstructure:"y1"`
	X2 float64 `mapstructure:"x2"`
	Y2 float64 `mapstructure:"y2"`

	Floor *Floor `mapstructure:"floor"`

	// Grab1/Grab2 allow ledge grabs at the P1/P2 ends.
	Grab1 bool `mapstructure:"grab1"`
	Grab2 bool `mapstructure:"grab2"`

	Wall    bool `mapstructure:"wall"`
	Ceiling bool `mapstructure:"ceiling"`
}

func (s *Surface) P1() geom.P { return geom.P{X: s.X1, Y: s.Y1} }
func (s *Surface) P2() geom.P { return geom.P{X: s.X2, Y: s.Y2} }

func (s *Surface) IsFloor() bool { return s.Floor != nil }

func (s *Surface) IsPassThrough() bool {
	return s.Floor != nil && s.Floor.PassThrough
}

func (s *Surface) center() geom.P {
	return geom.P{X: (s.X1 + s.X2) / 2.0, Y: (s.Y1 + s.Y2) / 2.0}
}

func (s *Surface) length() float64 {
	return s.P1().Distance(s.P2())
}

// FloorAngle returns the angle of the surface from its left end to its right
// end. Degenerate surfaces report 0.
func (s *Surface) FloorAngle() float64 {
	left, right := s.leftP(), s.rightP()
	if left == right {
		return 0.0
	}
	return math.Atan2(right.Y-left.Y, right.X-left.X)
}

func (s *Surface) leftP() geom.P {
	if s.X1 <= s.X2 {
		return s.P1()
	}
	return s.P2()
}

func (s *Surface) rightP() geom.P {
	if s.X1 <= s.X2 {
		return s.P2()
	}
	return s.P1()
}

// PlatXToWorld maps a platform-local x to world coordinates.
func (s *Surface) PlatXToWorld(platX float64) geom.P {
	angle := s.FloorAngle()
	c := s.center()
	return geom.P{
		X: c.X + platX*math.Cos(angle),
		Y: c.Y + platX*math.Sin(angle),
	}
}

// WorldXToPlatX maps a world x back into platform-local space.
func (s *Surface) WorldXToPlatX(worldX float64) float64 {
	cos := math.Cos(s.FloorAngle())
	if cos == 0.0 {
		return 0.0
	}
	return (worldX - s.center().X) / cos
}

// HalfLength returns half the surface length, the platform-local bound.
func (s *Surface) HalfLength() float64 {
	return s.length() / 2.0
}

// PlatXInBounds reports whether a platform-local x lies on the surface.
func (s *Surface) PlatXInBounds(platX float64) bool {
	half := s.length() / 2.0
	return platX >= -half && platX <= half
}

// PlatXClamp clamps a platform-local x to the surface bounds.
func (s *Surface) PlatXClamp(platX float64) float64 {
	half := s.length() / 2.0
	return math.Max(-half, math.Min(half, platX))
}

// LeftLedge returns the world position of the left end of the surface.
func (s *Surface) LeftLedge() geom.P { return s.leftP() }

// RightLedge returns the world position of the right end of the surface.
func (s *Surface) RightLedge() geom.P { return s.rightP() }

// LeftGrab reports whether the left ledge can be grabbed.
func (s *Surface) LeftGrab() bool {
	if !s.IsFloor() {
		return false
	}
	if s.X1 <= s.X2 {
		return s.Grab1
	}
	return s.Grab2
}

// RightGrab reports whether the right ledge can be grabbed.
func (s *Surface) RightGrab() bool {
	if !s.IsFloor() {
		return false
	}
	if s.X1 <= s.X2 {
		return s.Grab2
	}
	return s.Grab1
}
