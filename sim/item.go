package sim

import (
	"math"

	"github.com/rukai/canon-collision-sub001/entitydef"
)

// Item is a grabbable, throwable object. Thrown items carry a hitbox until
// they come to rest.
type Item struct {
	Body Body
	// Owner is the player the item currently acts for. Thrown items credit
	// their hits to the thrower.
	Owner *int
}

// NewItem spawns an item in the air at the given point.
func NewItem(defKey string, def *entitydef.EntityDef, x, y float64) *Entity {
	return &Entity{
		State: NewActionState(defKey, def, entitydef.ActionItemIdle),
		Ty:    &Item{Body: NewBody(x, y, true)},
	}
}

func (it *Item) body() *Body { return &it.Body }

func (it *Item) playerID() *int { return it.Owner }

func (it *Item) defaultAction() string { return entitydef.ActionItemIdle }

func (it *Item) clone() Variant {
	out := *it
	out.Body = it.Body.clone()
	if it.Owner != nil {
		owner := *it.Owner
		out.Owner = &owner
	}
	return &out
}

// grabbed attaches the item to a fighter. Called by the item grab
// resolution pass.
func (it *Item) grabbed(holder EntityKey, holderPlayer *int, state *ActionState, def *entitydef.EntityDef) {
	it.Body.Location = HeldByEntity{Holder: holder}
	it.Body.XVel = 0.0
	it.Body.YVel = 0.0
	it.Body.KbXVel = 0.0
	it.Body.KbYVel = 0.0
	if holderPlayer != nil {
		owner := *holderPlayer
		it.Owner = &owner
	}
	state.SetAction(def.ActionIndex(entitydef.ActionItemHeld))
}

// holdable reports whether the item can currently be picked up.
func (it *Item) holdable() bool {
	switch it.Body.Location.(type) {
	case HeldByEntity, GrabbedByEntity:
		return false
	default:
		return true
	}
}

func (it *Item) actionStep(ctx *StepContext, state *ActionState) *actionResult {
	if _, held := it.Body.Location.(HeldByEntity); held {
		if state.ActionName(ctx.Def) != entitydef.ActionItemHeld {
			return setAction(entitydef.ActionItemHeld)
		}
	}
	return nil
}

func (it *Item) actionExpired(ctx *StepContext, state *ActionState) *actionResult {
	return nil
}

func (it *Item) physicsStep(ctx *StepContext, state *ActionState) *actionResult {
	b := &it.Body
	if b.Airbourne() {
		b.YVel = math.Max(b.YVel+ctx.Def.Gravity, ctx.Def.TerminalVel)
	} else if b.OnGround() {
		b.ApplyFriction(ctx)
	}

	switch b.PhysicsStep(ctx, state.CurrentFrame(ctx.Def)) {
	case PhysicsLand:
		it.Owner = nil
		return setAction(entitydef.ActionItemIdle)
	case PhysicsFall:
		// holder vanished or slid off a platform
		if state.ActionName(ctx.Def) == entitydef.ActionItemHeld {
			return setAction(entitydef.ActionItemDropped)
		}
	case PhysicsOutOfBounds:
		ctx.DeleteSelf()
	}
	return nil
}

func (it *Item) stepCollision(ctx *StepContext, state *ActionState, results []CollisionResult) *actionResult {
	for _, result := range results {
		switch r := result.(type) {
		case HitDef:
			// items get knocked around but never enter hitstun
			atkPos := it.Body.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
			atkFaceRight := true
			if atk := ctx.Entities.Get(r.AttackKey); atk != nil {
				atkPos = (*atk).Pos(ctx.Entities, ctx.Defs, ctx.Surfaces)
				atkFaceRight = (*atk).FaceRight()
			}
			it.Body.Launch(ctx, r.Hitbox, r.Hurtbox, atkPos, atkFaceRight, ctx.Def.Weight, false)
			state.Hitlag = Hitlag{Kind: HitlagLaunch, Counter: hitlagCounter(r.Hitbox.Damage)}
			return setAction(entitydef.ActionItemDropped)
		}
	}
	return nil
}

func (it *Item) processMessage(ctx *StepContext, state *ActionState, msg MessageContents) *actionResult {
	b := &it.Body
	switch m := msg.(type) {
	case MessageItemThrown:
		pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
		b.Location = Airborne{X: pos.X, Y: pos.Y}
		b.XVel = m.XVel
		b.YVel = m.YVel
		b.FaceRight = m.XVel >= 0.0
		return setAction(entitydef.ActionItemThrown)
	case MessageItemDropped:
		pos := b.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
		b.Location = Airborne{X: pos.X, Y: pos.Y}
		b.XVel = 0.0
		b.YVel = 0.0
		return setAction(entitydef.ActionItemDropped)
	}
	return nil
}
