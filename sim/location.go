// Package sim is the deterministic combat simulation core: body physics,
// action states, the collision engine and the per-frame step driver. A step
// is purely functional in effect: same (seed, input sequence) in, same
// entity set out, on every peer.
package sim

// Location describes where an entity is by offsets from other locations.
// Exactly one variant is active at a time and transitions happen only inside
// the physics and collision code.
type Location interface {
	isLocation()
}

// OnSurface places the entity at a platform-local x on a stage surface.
type OnSurface struct {
	SurfaceI int
	X        float64
}

// GrabbedLedge hangs the entity from a surface ledge. The body's facing
// selects which ledge of the surface is held: facing right means the left
// ledge.
type GrabbedLedge struct {
	SurfaceI int
	DX       float64
	DY       float64
	Logic    LedgeLogic
}

// GrabbedByEntity places the entity in another entity's grab.
type GrabbedByEntity struct {
	Holder EntityKey
}

// HeldByEntity places an item in a fighter's hands.
type HeldByEntity struct {
	Holder EntityKey
}

// Airborne places the entity freely in world space.
type Airborne struct {
	X float64
	Y float64
}

func (OnSurface) isLocation()       {}
func (GrabbedLedge) isLocation()    {}
func (GrabbedByEntity) isLocation() {}
func (HeldByEntity) isLocation()    {}
func (Airborne) isLocation()        {}

// LedgeLogic selects how a held ledge interacts with other grab attempts.
type LedgeLogic int

const (
	// LedgeHog blocks other entities from grabbing the same ledge.
	LedgeHog LedgeLogic = iota
	// LedgeShare allows concurrent grabs.
	LedgeShare
	// LedgeTrump pushes the previous holder off.
	LedgeTrump
)

func (l LedgeLogic) String() string {
	switch l {
	case LedgeHog:
		return "Hog"
	case LedgeShare:
		return "Share"
	case LedgeTrump:
		return "Trump"
	default:
		return "Unknown"
	}
}
