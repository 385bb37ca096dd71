package sim

import "math/rand/v2"

// HitlagKind distinguishes the freeze states an entity can be in.
type HitlagKind int

const (
	// HitlagNone means the entity runs normally this frame.
	HitlagNone HitlagKind = iota
	// HitlagAttack freezes an attacker whose hit just connected.
	HitlagAttack
	// HitlagLaunch freezes a defender before knockback is committed. The
	// entity wobbles horizontally while frozen.
	HitlagLaunch
)

// Hitlag is the freeze state of one entity. A frozen entity skips its
// physics and action phases until the counter runs out.
type Hitlag struct {
	Kind    HitlagKind
	Counter int
	WobbleX float64
}

// Active reports whether the entity is frozen this frame.
func (h *Hitlag) Active() bool { return h.Kind != HitlagNone }

// Step advances the freeze by one frame and reports whether it ended.
// Launch hitlag redraws its wobble offset every frame; the draw happens for
// every frozen launch in entity storage order, which keeps the rng stream
// identical across peers.
func (h *Hitlag) Step(rng *rand.Rand) bool {
	if h.Kind == HitlagNone {
		return false
	}
	if h.Kind == HitlagLaunch {
		h.WobbleX = (rng.Float64() - 0.5) * 3.0
	}
	h.Counter--
	if h.Counter <= 1 {
		*h = Hitlag{}
		return true
	}
	return false
}

// hitlagCounter is the freeze duration for a connected hit.
func hitlagCounter(damage float64) int {
	return int(damage/3.0 + 3.0)
}
