package sim

import (
	"math"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/geom"
	"github.com/rukai/canon-collision-sub001/slotmap"
	"github.com/rukai/canon-collision-sub001/stage"
)

// EntityKey identifies an entity across frames.
type EntityKey = slotmap.Key

// Entities is the live entity set.
type Entities = slotmap.Map[*Entity]

// NewEntities returns an empty entity set.
func NewEntities() *Entities {
	return slotmap.New[*Entity]()
}

// Variant is the closed set of entity kinds. The unexported methods keep
// the set closed: all variants live in this package and generic code
// dispatches with type switches where the shared surface is not enough.
type Variant interface {
	// body returns the variant's moving body, nil when the variant tracks
	// position directly.
	body() *Body
	// playerID names the owning player, nil when unowned.
	playerID() *int
	// defaultAction is the safe action to jump to when the recorded state
	// no longer exists in the definition.
	defaultAction() string
	actionStep(ctx *StepContext, state *ActionState) *actionResult
	actionExpired(ctx *StepContext, state *ActionState) *actionResult
	physicsStep(ctx *StepContext, state *ActionState) *actionResult
	stepCollision(ctx *StepContext, state *ActionState, results []CollisionResult) *actionResult
	processMessage(ctx *StepContext, state *ActionState, msg MessageContents) *actionResult
	clone() Variant
}

// Entity is one simulated object: an action cursor plus a kind-specific
// variant.
type Entity struct {
	State ActionState
	Ty    Variant
}

// Def resolves the entity's definition.
func (e *Entity) Def(defs entitydef.Defs) *entitydef.EntityDef {
	return defs.Get(e.State.DefKey)
}

// PlayerID names the controlling player, nil for unowned entities.
func (e *Entity) PlayerID() *int {
	return e.Ty.playerID()
}

// Pos resolves the entity's world position, including the horizontal wobble
// of launch hitlag.
func (e *Entity) Pos(entities *Entities, defs entitydef.Defs, surfaces []stage.Surface) geom.P {
	var pos geom.P
	if b := e.Ty.body(); b != nil {
		pos = b.PosXY(entities, defs, surfaces)
	} else if p, ok := e.Ty.(*Projectile); ok {
		pos = geom.P{X: p.X, Y: p.Y}
	}
	if e.State.Hitlag.Kind == HitlagLaunch {
		pos.X += e.State.Hitlag.WobbleX
	}
	return pos
}

// FaceRight reports the entity's facing; projectiles face along their
// heading.
func (e *Entity) FaceRight() bool {
	if b := e.Ty.body(); b != nil {
		return b.FaceRight
	}
	if p, ok := e.Ty.(*Projectile); ok {
		return math.Cos(p.Angle) >= 0.0
	}
	return true
}

// Angle returns the entity's render/collision rotation: the floor angle for
// grounded frames that follow the platform, a projectile's heading, zero
// otherwise.
func (e *Entity) Angle(defs entitydef.Defs, surfaces []stage.Surface) float64 {
	if p, ok := e.Ty.(*Projectile); ok {
		return p.Angle
	}
	b := e.Ty.body()
	def := e.Def(defs)
	if b == nil || def == nil {
		return 0.0
	}
	frame := e.State.CurrentFrame(def)
	loc, onSurface := b.Location.(OnSurface)
	if frame != nil && frame.UsePlatformAngle && onSurface &&
		loc.SurfaceI >= 0 && loc.SurfaceI < len(surfaces) {
		return surfaces[loc.SurfaceI].FloorAngle()
	}
	return 0.0
}

// worldColboxes resolves the current frame's collision boxes into world
// space, applying facing and rotation. Declared box order is preserved.
func (e *Entity) worldColboxes(entities *Entities, defs entitydef.Defs, surfaces []stage.Surface) []worldColbox {
	def := e.Def(defs)
	if def == nil {
		return nil
	}
	frame := e.State.CurrentFrame(def)
	if frame == nil {
		return nil
	}
	pos := e.Pos(entities, defs, surfaces)
	angle := e.Angle(defs, surfaces)
	faceRight := e.FaceRight()
	sin, cos := math.Sincos(angle)

	out := make([]worldColbox, 0, len(frame.Colboxes))
	for i := range frame.Colboxes {
		box := &frame.Colboxes[i]
		x := box.X
		if !faceRight {
			x = -x
		}
		y := box.Y
		out = append(out, worldColbox{
			box: box,
			pos: geom.P{X: pos.X + x*cos - y*sin, Y: pos.Y + x*sin + y*cos},
		})
	}
	return out
}

// shieldBubble is a resolved shield circle.
type shieldBubble struct {
	pos    geom.P
	radius float64
}

// shieldCircle returns the active shield bubble, whether the shield sits in
// its power shield window, and whether a shield is up at all.
func (e *Entity) shieldCircle(entities *Entities, defs entitydef.Defs, surfaces []stage.Surface) (shieldBubble, bool, bool) {
	f, ok := e.Ty.(*Fighter)
	if !ok {
		return shieldBubble{}, false, false
	}
	def := e.Def(defs)
	if def == nil || def.Shield == nil {
		return shieldBubble{}, false, false
	}
	name := e.State.ActionName(def)
	if name != entitydef.ActionShield && name != entitydef.ActionShieldOn {
		return shieldBubble{}, false, false
	}

	pos := e.Pos(entities, defs, surfaces)
	shield := def.Shield
	bubble := shieldBubble{
		pos:    geom.P{X: pos.X + f.Body.RelativeF(shield.OffsetX), Y: pos.Y + shield.OffsetY},
		radius: f.shieldRadius(shield),
	}

	power := false
	if ps := def.PowerShield; ps != nil && ps.Parry != nil {
		power = name == entitydef.ActionShieldOn && e.State.FrameNoRestart < ps.Parry.Window
	}
	return bubble, power, true
}

// grabbable reports whether grab boxes can latch onto this entity.
func (e *Entity) grabbable() bool {
	switch e.Ty.(type) {
	case *Fighter:
		_, held := e.Ty.body().Location.(GrabbedByEntity)
		return !held
	default:
		return false
	}
}

// stepHitlag runs the hitlag phase for this entity. Returns whether the
// entity is frozen for the rest of this frame: an entity whose hitlag ends
// this frame stays frozen until the next one.
func (e *Entity) stepHitlag(ctx *StepContext) bool {
	if !e.State.Hitlag.Active() {
		return false
	}
	ended := e.State.Hitlag.Step(ctx.Rng)
	if ended {
		if b := e.Ty.body(); b != nil && b.LaunchPending() {
			pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
			b.CommitLaunch(pos)
		}
	}
	return true
}

// stepCollision delivers this frame's collision results. The attacker-side
// bookkeeping shared by every variant happens here; the variant handles the
// rest.
func (e *Entity) stepCollision(ctx *StepContext, results []CollisionResult) {
	for _, result := range results {
		switch r := result.(type) {
		case HitAtk:
			e.State.Hitlist = append(e.State.Hitlist, r.DefendKey)
			e.State.Hitlag = Hitlag{Kind: HitlagAttack, Counter: hitlagCounter(r.Hitbox.Damage)}
		case ShieldHitAtk:
			e.State.Hitlist = append(e.State.Hitlist, r.DefendKey)
			counter := hitlagCounter(r.Hitbox.Damage)
			if r.PowerShield {
				if ps := ctx.Def.PowerShield; ps != nil && ps.EnemyStun != nil {
					counter = ps.EnemyStun.Duration
				}
			}
			e.State.Hitlag = Hitlag{Kind: HitlagAttack, Counter: counter}
		case PhantomAtk:
			e.State.Hitlist = append(e.State.Hitlist, r.DefendKey)
		case GrabAtk:
			e.State.Hitlist = append(e.State.Hitlist, r.DefendKey)
		}
	}
	e.processActionResult(ctx, e.Ty.stepCollision(ctx, &e.State, results))
}

// stepPhysics runs the physics phase.
func (e *Entity) stepPhysics(ctx *StepContext) {
	e.processActionResult(ctx, e.Ty.physicsStep(ctx, &e.State))
}

// stepAction runs the action phase: validity jump, input logic, then the
// frame cursor advance with expiry handling.
func (e *Entity) stepAction(ctx *StepContext) {
	def := ctx.Def
	if def == nil {
		return
	}
	// a replayed or hot-reloaded state can point at an action or frame that
	// no longer exists; jump somewhere valid instead of crashing
	if e.State.CurrentFrame(def) == nil {
		e.State.SetAction(def.ActionIndex(e.Ty.defaultAction()))
		if e.State.CurrentFrame(def) == nil {
			return
		}
	}

	if frame := e.State.CurrentFrame(def); frame != nil && frame.ForceHitlistReset {
		e.State.Hitlist = e.State.Hitlist[:0]
	}

	e.processActionResult(ctx, e.Ty.actionStep(ctx, &e.State))

	e.State.Frame++
	e.State.FrameNoRestart++
	if e.State.Frame >= def.FrameCount(e.State.Action) {
		result := e.Ty.actionExpired(ctx, &e.State)
		if result == nil {
			result = setFrame(0)
		}
		e.processActionResult(ctx, result)
	}
}

// processMessage delivers one queued message.
func (e *Entity) processMessage(ctx *StepContext, msg MessageContents) {
	e.processActionResult(ctx, e.Ty.processMessage(ctx, &e.State, msg))
}

// processActionResult applies a requested transition. Unknown action names
// are dropped silently; the definition validator makes them unreachable for
// well-formed data.
func (e *Entity) processActionResult(ctx *StepContext, result *actionResult) {
	if result == nil || ctx.Def == nil {
		return
	}
	switch result.kind {
	case resultSetAction:
		if i := ctx.Def.ActionIndex(result.action); i >= 0 {
			e.State.SetAction(i)
		}
	case resultSetActionKeepFrame:
		if i := ctx.Def.ActionIndex(result.action); i >= 0 {
			frame := e.State.Frame
			e.State.SetAction(i)
			e.State.Frame = frame
		}
	case resultSetFrame:
		e.State.SetFrame(result.frame)
	}
}

// Clone deep-copies the entity for snapshots and history.
func (e *Entity) Clone() *Entity {
	return &Entity{
		State: e.State.clone(),
		Ty:    e.Ty.clone(),
	}
}

func cloneEntity(e *Entity) *Entity {
	return e.Clone()
}
