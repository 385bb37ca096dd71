package sim

import (
	"fmt"
	"math"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/geom"
	"github.com/rukai/canon-collision-sub001/stage"
)

// ledgeGrabLockout is the number of frames after leaving a ledge before the
// same body may grab one again.
const ledgeGrabLockout = 30

// diMaxDegrees bounds how far directional influence can rotate a launch.
const diMaxDegrees = 18.0

// PhysicsResult is what the body reports back after moving for one frame.
// The owning entity maps it onto an action transition.
type PhysicsResult int

const (
	PhysicsNone PhysicsResult = iota
	// PhysicsFall: the body left the ground (walked off a ledge or dropped
	// through a platform).
	PhysicsFall
	// PhysicsLand: an airborne body crossed a floor and snapped onto it.
	PhysicsLand
	// PhysicsTeeter: the body reached a ledge it cannot leave and stopped.
	PhysicsTeeter
	// PhysicsLedgeGrab: the body caught a ledge and now hangs from it.
	PhysicsLedgeGrab
	// PhysicsOutOfBounds: the body left the blast zone.
	PhysicsOutOfBounds
)

// launchCommit is a computed knockback waiting for hitlag to run out.
type launchCommit struct {
	kbXVel    float64
	kbYVel    float64
	kbXDec    float64
	kbYDec    float64
	kbVel     float64
	faceRight bool
}

// Body is the moving part of an entity: velocities, knockback and location.
type Body struct {
	XVel float64
	YVel float64

	// Knockback velocity decays by its dec each frame instead of obeying
	// friction or gravity.
	KbXVel float64
	KbYVel float64
	KbXDec float64
	KbYDec float64

	Location  Location
	FaceRight bool

	// Damage taken so far. Feeds the knockback formula.
	Damage float64

	FramesSinceLedge int

	pending *launchCommit
}

// NewBody returns a body at rest in the air at the given point.
func NewBody(x, y float64, faceRight bool) Body {
	return Body{
		Location:         Airborne{X: x, Y: y},
		FaceRight:        faceRight,
		FramesSinceLedge: ledgeGrabLockout,
	}
}

// RelativeF mirrors a facing-relative value into world space.
func (b *Body) RelativeF(x float64) float64 {
	if b.FaceRight {
		return x
	}
	return -x
}

// Airbourne reports whether the body is in free flight.
func (b *Body) Airbourne() bool {
	_, ok := b.Location.(Airborne)
	return ok
}

// OnGround reports whether the body stands on a surface.
func (b *Body) OnGround() bool {
	_, ok := b.Location.(OnSurface)
	return ok
}

// PosXY resolves the body's location to world coordinates. Locations that
// reference other entities resolve through the holder's position; a dangling
// reference resolves to the origin and is cleaned up by the next physics
// step.
func (b *Body) PosXY(entities *Entities, defs entitydef.Defs, surfaces []stage.Surface) geom.P {
	switch loc := b.Location.(type) {
	case OnSurface:
		if loc.SurfaceI < 0 || loc.SurfaceI >= len(surfaces) {
			return geom.P{}
		}
		return surfaces[loc.SurfaceI].PlatXToWorld(loc.X)
	case GrabbedLedge:
		if loc.SurfaceI < 0 || loc.SurfaceI >= len(surfaces) {
			return geom.P{}
		}
		ledge := ledgePoint(&surfaces[loc.SurfaceI], b.FaceRight)
		return geom.P{X: ledge.X + b.RelativeF(loc.DX), Y: ledge.Y + loc.DY}
	case GrabbedByEntity:
		return holderOffsetPos(entities, defs, surfaces, loc.Holder, grabbedOffset)
	case HeldByEntity:
		return holderOffsetPos(entities, defs, surfaces, loc.Holder, heldOffset)
	case Airborne:
		return geom.P{X: loc.X, Y: loc.Y}
	default:
		return geom.P{}
	}
}

// ledgePoint selects which end of a surface a hanging body holds: a body
// facing right hangs from the left ledge.
func ledgePoint(surface *stage.Surface, faceRight bool) geom.P {
	if faceRight {
		return surface.LeftLedge()
	}
	return surface.RightLedge()
}

func holderOffsetPos(entities *Entities, defs entitydef.Defs, surfaces []stage.Surface, holder EntityKey, offset func(*entitydef.ActionFrame) geom.P) geom.P {
	e := entities.Get(holder)
	if e == nil {
		return geom.P{}
	}
	pos := (*e).Pos(entities, defs, surfaces)
	hb := (*e).Ty.body()
	frame := (*e).State.CurrentFrame((*e).Def(defs))
	if frame == nil {
		return pos
	}
	off := offset(frame)
	if hb != nil {
		off.X = hb.RelativeF(off.X)
	}
	return geom.P{X: pos.X + off.X, Y: pos.Y + off.Y}
}

func grabbedOffset(frame *entitydef.ActionFrame) geom.P {
	return geom.P{X: frame.GrabbingX, Y: frame.GrabbingY}
}

func heldOffset(frame *entitydef.ActionFrame) geom.P {
	if frame.ItemHold == nil {
		return geom.P{}
	}
	return geom.P{X: frame.ItemHold.TranslationX, Y: frame.ItemHold.TranslationY}
}

// PhysicsStep moves the body for one frame and reports what happened.
func (b *Body) PhysicsStep(ctx *StepContext, frame *entitydef.ActionFrame) PhysicsResult {
	// knockback decays before it feeds this frame's movement. Grounded
	// bodies bleed horizontal knockback through friction and keep none of
	// the vertical component.
	if b.Airbourne() {
		b.KbXVel = decay(b.KbXVel, b.KbXDec)
		b.KbYVel = decay(b.KbYVel, b.KbYDec)
	} else {
		b.KbXVel = decay(b.KbXVel, ctx.Def.Friction)
		b.KbYVel = 0.0
	}

	b.FramesSinceLedge++
	result := PhysicsNone

	switch loc := b.Location.(type) {
	case Airborne:
		oldP := geom.P{X: loc.X, Y: loc.Y}
		newP := geom.P{X: loc.X + b.XVel + b.KbXVel, Y: loc.Y + b.YVel + b.KbYVel}
		if surfaceI, platX, ok := b.landStageCollision(ctx, frame, oldP, newP); ok {
			b.Location = OnSurface{SurfaceI: surfaceI, X: platX}
			b.YVel = 0.0
			b.KbYVel = 0.0
			result = PhysicsLand
		} else {
			b.Location = Airborne{X: newP.X, Y: newP.Y}
			if b.checkLedgeGrab(ctx, frame, newP) {
				result = PhysicsLedgeGrab
			}
		}
	case OnSurface:
		if loc.SurfaceI < 0 || loc.SurfaceI >= len(ctx.Surfaces) {
			b.Location = Airborne{}
			result = PhysicsFall
			break
		}
		surface := &ctx.Surfaces[loc.SurfaceI]
		if b.dropThroughPlatform(ctx, surface) {
			pos := surface.PlatXToWorld(loc.X)
			b.Location = Airborne{X: pos.X, Y: pos.Y - 0.0001}
			result = PhysicsFall
			break
		}
		xVel := (b.XVel + b.KbXVel) * math.Cos(surface.FloorAngle())
		result = b.floorMove(ctx, frame, loc.SurfaceI, loc.X+xVel)
	case GrabbedLedge:
		b.FramesSinceLedge = 0
	case GrabbedByEntity:
		if !ctx.Entities.Contains(loc.Holder) {
			pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
			b.Location = Airborne{X: pos.X, Y: pos.Y}
			result = PhysicsFall
		}
	case HeldByEntity:
		if !ctx.Entities.Contains(loc.Holder) {
			pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
			b.Location = Airborne{X: pos.X, Y: pos.Y}
			result = PhysicsFall
		}
	}

	pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
	if !ctx.Stage.Blast.Contains(pos) {
		return PhysicsOutOfBounds
	}
	return result
}

func decay(vel, dec float64) float64 {
	d := math.Abs(dec)
	if math.Abs(vel) <= d {
		return 0.0
	}
	if vel > 0.0 {
		return vel - d
	}
	return vel + d
}

// landStageCollision scans surfaces in declared order for a floor the travel
// path crossed. The first declared match wins, even when a later surface
// would be crossed earlier along the path.
func (b *Body) landStageCollision(ctx *StepContext, frame *entitydef.ActionFrame, oldP, newP geom.P) (int, float64, bool) {
	if b.YVel+b.KbYVel > 0.0 {
		return 0, 0, false
	}
	for i := range ctx.Surfaces {
		surface := &ctx.Surfaces[i]
		if !surface.IsFloor() {
			continue
		}
		if surface.IsPassThrough() && frame != nil && frame.PassThrough &&
			ctx.Input != nil && ctx.Input.StickY.Value < -0.56 {
			continue
		}
		if geom.SegmentsIntersect(oldP, newP, surface.P1(), surface.P2()) {
			return i, surface.WorldXToPlatX(newP.X), true
		}
	}
	return 0, 0, false
}

// dropThroughPlatform reports whether the body should fall through the
// surface it stands on. Requires a fresh, firm downward flick.
func (b *Body) dropThroughPlatform(ctx *StepContext, surface *stage.Surface) bool {
	return surface.IsPassThrough() && ctx.Input != nil &&
		ctx.Input.StickY.Value < -0.65 && ctx.Input.StickY.Diff < -0.1
}

// floorMove walks the body along connected floors until the new x lands on
// a surface or runs off an unconnected edge. The visited set guards against
// stage data whose connectivity loops back on itself.
func (b *Body) floorMove(ctx *StepContext, frame *entitydef.ActionFrame, surfaceI int, x float64) PhysicsResult {
	visited := make(map[int]bool, 2)
	for {
		if surfaceI < 0 || surfaceI >= len(ctx.Surfaces) || visited[surfaceI] {
			pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
			b.Location = Airborne{X: pos.X, Y: pos.Y}
			return PhysicsFall
		}
		visited[surfaceI] = true
		surface := &ctx.Surfaces[surfaceI]

		if surface.PlatXInBounds(x) {
			b.Location = OnSurface{SurfaceI: surfaceI, X: x}
			return PhysicsNone
		}

		// walked past an end; the sign of x names the crossed side
		connected := ctx.Stage.ConnectedFloors(surfaceI)
		overshoot := math.Abs(x) - surface.HalfLength()
		if x < 0.0 {
			if next := connected.LeftI; next >= 0 && !visited[next] {
				x = ctx.Surfaces[next].HalfLength() - overshoot
				surfaceI = next
				continue
			}
			return b.reachLedge(ctx, frame, surfaceI, -surface.HalfLength())
		}
		if next := connected.RightI; next >= 0 && !visited[next] {
			x = -ctx.Surfaces[next].HalfLength() + overshoot
			surfaceI = next
			continue
		}
		return b.reachLedge(ctx, frame, surfaceI, surface.HalfLength())
	}
}

// reachLedge resolves running off an unconnected surface end: either fall
// off or stop and teeter at the edge.
func (b *Body) reachLedge(ctx *StepContext, frame *entitydef.ActionFrame, surfaceI int, edgeX float64) PhysicsResult {
	surface := &ctx.Surfaces[surfaceI]
	towardLedge := edgeX > 0.0

	if frame != nil && frame.LedgeCancel && b.ledgeCancelled(ctx, towardLedge) {
		pos := surface.PlatXToWorld(edgeX)
		nudge := 0.000001
		if !towardLedge {
			nudge = -nudge
		}
		b.Location = Airborne{X: pos.X + nudge, Y: pos.Y}
		b.XVel = clampAbs(b.XVel, airXTermVel(ctx.Def))
		return PhysicsFall
	}

	b.Location = OnSurface{SurfaceI: surfaceI, X: surface.PlatXClamp(edgeX)}
	b.XVel = 0.0
	return PhysicsTeeter
}

// ledgeCancelled reports whether the body keeps its momentum off the edge:
// either it faces away from the ledge or the stick pushes firmly past it.
func (b *Body) ledgeCancelled(ctx *StepContext, towardRight bool) bool {
	facingAway := b.FaceRight != towardRight
	if facingAway {
		return true
	}
	if ctx.Input == nil {
		return false
	}
	stick := ctx.Input.StickX.Value
	if towardRight {
		return stick > 0.6
	}
	return stick < -0.6
}

func airXTermVel(def *entitydef.EntityDef) float64 {
	if def.AirXTermVel > 0.0 {
		return def.AirXTermVel
	}
	return math.Inf(1)
}

func clampAbs(v, bound float64) float64 {
	return math.Max(-bound, math.Min(bound, v))
}

// checkLedgeGrab looks for a grabbable ledge inside the frame's ledge grab
// box. Ledges held with hog logic by another entity are skipped. When both
// ends of a surface are in range the body keeps its facing; otherwise it
// turns to face the stage.
func (b *Body) checkLedgeGrab(ctx *StepContext, frame *entitydef.ActionFrame, pos geom.P) bool {
	if frame == nil || frame.LedgeGrabBox == nil {
		return false
	}
	if b.FramesSinceLedge < ledgeGrabLockout || b.YVel >= 0.0 {
		return false
	}
	if ctx.Input != nil && ctx.Input.StickY.Value <= -0.5 {
		return false
	}

	box := *frame.LedgeGrabBox
	if !b.FaceRight {
		box = geom.Rect{X1: -box.X1, Y1: box.Y1, X2: -box.X2, Y2: box.Y2}
	}
	box = box.Offset(pos.X, pos.Y)

	for i := range ctx.Surfaces {
		surface := &ctx.Surfaces[i]
		left := surface.LeftGrab() && box.Contains(surface.LeftLedge()) &&
			!b.ledgeHogged(ctx, i, true)
		right := surface.RightGrab() && box.Contains(surface.RightLedge()) &&
			!b.ledgeHogged(ctx, i, false)

		switch {
		case left && right:
			// keep facing
		case left:
			b.FaceRight = true
		case right:
			b.FaceRight = false
		default:
			continue
		}

		b.Location = GrabbedLedge{
			SurfaceI: i,
			DX:       ctx.Def.LedgeGrabX,
			DY:       ctx.Def.LedgeGrabY,
			Logic:    LedgeHog,
		}
		b.XVel = 0.0
		b.YVel = 0.0
		b.KbXVel = 0.0
		b.KbYVel = 0.0
		b.FramesSinceLedge = 0
		return true
	}
	return false
}

// ledgeHogged reports whether another entity already hogs the given ledge.
// faceRight here is the facing a NEW grabber would take, which names the
// ledge end the same way GrabbedLedge does.
func (b *Body) ledgeHogged(ctx *StepContext, surfaceI int, faceRight bool) bool {
	hogged := false
	ctx.Entities.ForEach(func(key EntityKey, e **Entity) {
		if key == ctx.Key || hogged {
			return
		}
		other := (*e).Ty.body()
		if other == nil {
			return
		}
		loc, ok := other.Location.(GrabbedLedge)
		if !ok || loc.SurfaceI != surfaceI || loc.Logic != LedgeHog {
			return
		}
		if other.FaceRight == faceRight {
			hogged = true
		}
	})
	return hogged
}

// Launch computes knockback for a received hit and stages it for commit
// when hitlag runs out. Damage accrues immediately; velocities do not.
// Returns the knockback velocity the hitstun formula runs on.
func (b *Body) Launch(ctx *StepContext, hitbox *entitydef.HitBox, hurtbox *entitydef.HurtBox, atkPos geom.P, atkFaceRight bool, weight float64, crouching bool) float64 {
	damageDone := hitbox.Damage * hurtbox.DamageMult
	b.Damage += damageDone

	damageLaunch := 0.05*(hitbox.Damage*(damageDone+math.Floor(b.Damage))) +
		(damageDone+b.Damage)*0.1
	weightTerm := 2.0 - 2.0*weight/(1.0+weight)

	bkb := hitbox.BKB + hurtbox.BKBAdd
	kbg := hitbox.KBG + hurtbox.KBGAdd
	kbVel := math.Min(bkb+kbg*(damageLaunch*weightTerm*1.4+18.0), 2500.0)
	if crouching {
		kbVel *= 0.67
	}

	pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)

	angle := launchAngle(hitbox, kbVel)
	// hit angles are authored for a rightward-facing attack
	towardRight := atkFaceRight
	if hitbox.EnableReverseHit && ((atkFaceRight && pos.X < atkPos.X) || (!atkFaceRight && pos.X > atkPos.X)) {
		towardRight = !towardRight
	}
	if !towardRight {
		angle = math.Pi - angle
	}
	angle = b.directionalInfluence(ctx, angle)

	b.pending = &launchCommit{
		kbXVel:    math.Cos(angle) * kbVel * 0.03,
		kbYVel:    math.Sin(angle) * kbVel * 0.03,
		kbXDec:    math.Abs(math.Cos(angle)) * 0.051,
		kbYDec:    math.Abs(math.Sin(angle)) * 0.051,
		kbVel:     kbVel,
		faceRight: atkPos.X > pos.X,
	}
	return kbVel
}

// launchAngle resolves the authored angle including the sakurai sentinels:
// 361 is the weak/strong forward angle, -181 its reversed twin.
func launchAngle(hitbox *entitydef.HitBox, kbVel float64) float64 {
	deg := hitbox.Angle
	switch deg {
	case 361.0:
		if kbVel < 32.1 {
			deg = 0.0
		} else {
			deg = 44.0
		}
	case -181.0:
		if kbVel < 32.1 {
			deg = 180.0
		} else {
			deg = 136.0
		}
	}
	return geom.ToRadians(deg)
}

// directionalInfluence rotates the launch angle toward the defender's stick,
// at most diMaxDegrees. A centered stick leaves the angle untouched.
func (b *Body) directionalInfluence(ctx *StepContext, angle float64) float64 {
	if ctx.Input == nil {
		return angle
	}
	sx := ctx.Input.StickX.Value
	sy := ctx.Input.StickY.Value
	mag := math.Hypot(sx, sy)
	if mag < 0.2 {
		return angle
	}
	od := math.Sin(math.Atan2(sy, sx)-angle) * math.Min(mag, 1.0)
	offset := signum(od) * od * od * geom.ToRadians(diMaxDegrees)
	return angle + offset
}

func signum(v float64) float64 {
	switch {
	case v > 0.0:
		return 1.0
	case v < 0.0:
		return -1.0
	default:
		return 0.0
	}
}

// LaunchPending reports whether a knockback commit is staged.
func (b *Body) LaunchPending() bool { return b.pending != nil }

// CommitLaunch applies a staged knockback: base velocities zero out, the
// knockback velocities take over and the body faces its attacker. Any
// upward component leaves the ground; a flat hit at 80+ knockback leaves
// it too, nudged just above the surface. pos is the body's resolved
// position at commit time. Returns whether the body went airborne.
func (b *Body) CommitLaunch(pos geom.P) bool {
	c := b.pending
	if c == nil {
		return false
	}
	b.pending = nil
	b.XVel = 0.0
	b.YVel = 0.0
	b.KbXVel = c.kbXVel
	b.KbYVel = c.kbYVel
	b.KbXDec = c.kbXDec
	b.KbYDec = c.kbYDec
	b.FaceRight = c.faceRight
	switch {
	case c.kbYVel > 0.0:
		b.Location = Airborne{X: pos.X, Y: pos.Y}
		return true
	case c.kbYVel == 0.0 && c.kbVel >= 80.0:
		b.Location = Airborne{X: pos.X, Y: pos.Y + 0.0001}
		return true
	default:
		return false
	}
}

// ApplyFriction slides XVel toward zero by the surface traction scaled with
// the entity's friction stat.
func (b *Body) ApplyFriction(ctx *StepContext) {
	friction := ctx.Def.Friction
	if loc, ok := b.Location.(OnSurface); ok {
		if loc.SurfaceI >= 0 && loc.SurfaceI < len(ctx.Surfaces) {
			if floor := ctx.Surfaces[loc.SurfaceI].Floor; floor != nil {
				friction *= floor.Traction
			}
		}
	}
	b.XVel = decay(b.XVel, friction)
}

// clone deep-copies the body.
func (b *Body) clone() Body {
	out := *b
	if b.pending != nil {
		p := *b.pending
		out.pending = &p
	}
	return out
}

// DebugString summarizes the body for on-screen debug output.
func (b *Body) DebugString() string {
	return fmt.Sprintf(
		"vel: (%.5f, %.5f) kb_vel: (%.5f, %.5f) location: %s face_right: %v damage: %.1f",
		b.XVel, b.YVel, b.KbXVel, b.KbYVel, locationString(b.Location), b.FaceRight, b.Damage)
}

func locationString(loc Location) string {
	switch l := loc.(type) {
	case OnSurface:
		return fmt.Sprintf("Surface %d x: %.5f", l.SurfaceI, l.X)
	case GrabbedLedge:
		return fmt.Sprintf("Ledge %d (%s)", l.SurfaceI, l.Logic)
	case GrabbedByEntity:
		return "Grabbed"
	case HeldByEntity:
		return "Held"
	case Airborne:
		return fmt.Sprintf("Airborne (%.5f, %.5f)", l.X, l.Y)
	default:
		return "Unknown"
	}
}
