package sim

import (
	"math"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/geom"
)

const (
	hazardShotFrame = 15
	hazardShotSpeed = 2.5
)

// Hazard is an unowned stage entity that cycles between idling and
// attacking. Hazards never take knockback and never leave their spot.
type Hazard struct {
	Body Body
	// Shoots makes the attack cycle launch a projectile at the nearest
	// fighter.
	Shoots        bool
	ProjectileDef string
}

// NewHazard plants a hazard on a surface.
func NewHazard(defKey string, def *entitydef.EntityDef, surfaceI int, platX float64) *Entity {
	h := &Hazard{Body: NewBody(0, 0, true)}
	h.Body.Location = OnSurface{SurfaceI: surfaceI, X: platX}
	return &Entity{
		State: NewActionState(defKey, def, entitydef.ActionHazardIdle),
		Ty:    h,
	}
}

func (h *Hazard) body() *Body { return &h.Body }

func (h *Hazard) playerID() *int { return nil }

func (h *Hazard) defaultAction() string { return entitydef.ActionHazardIdle }

func (h *Hazard) clone() Variant {
	out := *h
	out.Body = h.Body.clone()
	return &out
}

func (h *Hazard) actionStep(ctx *StepContext, state *ActionState) *actionResult {
	if h.Shoots && state.ActionName(ctx.Def) == entitydef.ActionHazardAttack &&
		state.Frame == hazardShotFrame {
		h.shoot(ctx)
	}
	return nil
}

// shoot fires at the nearest fighter. Target selection reads the pre-phase
// snapshot and ties break by storage order, so it stays deterministic.
func (h *Hazard) shoot(ctx *StepContext) {
	def := ctx.Defs.Get(h.ProjectileDef)
	if def == nil {
		return
	}
	pos := h.Body.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)

	var target geom.P
	found := false
	best := math.Inf(1)
	ctx.Entities.ForEach(func(key EntityKey, e **Entity) {
		if _, ok := (*e).Ty.(*Fighter); !ok {
			return
		}
		p := (*e).Pos(ctx.Entities, ctx.Defs, ctx.Surfaces)
		if d := pos.Distance(p); d < best {
			best = d
			target = p
			found = true
		}
	})
	if !found {
		return
	}

	angle := math.Atan2(target.Y-pos.Y, target.X-pos.X)
	ctx.SpawnEntity(NewProjectile(h.ProjectileDef, def, pos.X, pos.Y+10.0, angle, hazardShotSpeed, nil))
}

func (h *Hazard) actionExpired(ctx *StepContext, state *ActionState) *actionResult {
	switch state.ActionName(ctx.Def) {
	case entitydef.ActionHazardIdle:
		return setAction(entitydef.ActionHazardAttack)
	case entitydef.ActionHazardAttack:
		return setAction(entitydef.ActionHazardIdle)
	}
	return nil
}

func (h *Hazard) physicsStep(ctx *StepContext, state *ActionState) *actionResult {
	// hazards are anchored; only blast-zone containment matters
	pos := h.Body.PosXY(ctx.Entities, ctx.Defs, ctx.Surfaces)
	if !ctx.Stage.Blast.Contains(pos) {
		ctx.DeleteSelf()
	}
	return nil
}

func (h *Hazard) stepCollision(ctx *StepContext, state *ActionState, results []CollisionResult) *actionResult {
	// immune to knockback; attacker-side bookkeeping already happened
	return nil
}

func (h *Hazard) processMessage(ctx *StepContext, state *ActionState, msg MessageContents) *actionResult {
	return nil
}
