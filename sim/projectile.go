package sim

import (
	"math"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/geom"
)

// defaultProjectileLifetime caps projectile travel when the spawner does
// not say otherwise.
const defaultProjectileLifetime = 120

// Projectile is a fire-and-forget entity. It tracks position directly
// instead of carrying a body: projectiles ignore gravity, knockback and
// stage geometry.
type Projectile struct {
	X     float64
	Y     float64
	Angle float64 // heading in radians
	Speed float64
	// Owner credits hits to a player, so a projectile never hits its own
	// fighter. Reflection hands ownership to the reflector.
	Owner    *int
	Lifetime int
}

// NewProjectile spawns a projectile heading along angle.
func NewProjectile(defKey string, def *entitydef.EntityDef, x, y, angle, speed float64, owner *int) *Entity {
	var o *int
	if owner != nil {
		v := *owner
		o = &v
	}
	return &Entity{
		State: NewActionState(defKey, def, entitydef.ActionProjectileSpawn),
		Ty: &Projectile{
			X: x, Y: y, Angle: angle, Speed: speed,
			Owner:    o,
			Lifetime: defaultProjectileLifetime,
		},
	}
}

func (p *Projectile) body() *Body { return nil }

func (p *Projectile) playerID() *int { return p.Owner }

func (p *Projectile) defaultAction() string { return entitydef.ActionProjectileTravel }

func (p *Projectile) clone() Variant {
	out := *p
	if p.Owner != nil {
		owner := *p.Owner
		out.Owner = &owner
	}
	return &out
}

func (p *Projectile) actionStep(ctx *StepContext, state *ActionState) *actionResult {
	if state.ActionName(ctx.Def) == entitydef.ActionProjectileTravel &&
		state.FrameNoRestart > p.Lifetime {
		ctx.DeleteSelf()
	}
	return nil
}

func (p *Projectile) actionExpired(ctx *StepContext, state *ActionState) *actionResult {
	switch state.ActionName(ctx.Def) {
	case entitydef.ActionProjectileSpawn:
		return setAction(entitydef.ActionProjectileTravel)
	case entitydef.ActionProjectileHit:
		ctx.DeleteSelf()
	}
	return nil
}

func (p *Projectile) physicsStep(ctx *StepContext, state *ActionState) *actionResult {
	if state.ActionName(ctx.Def) == entitydef.ActionProjectileTravel {
		p.X += math.Cos(p.Angle) * p.Speed
		p.Y += math.Sin(p.Angle) * p.Speed
	}
	if !ctx.Stage.Blast.Contains(geom.P{X: p.X, Y: p.Y}) {
		ctx.DeleteSelf()
	}
	return nil
}

func (p *Projectile) stepCollision(ctx *StepContext, state *ActionState, results []CollisionResult) *actionResult {
	for _, result := range results {
		switch r := result.(type) {
		case HitAtk, ShieldHitAtk:
			return setAction(entitydef.ActionProjectileHit)
		case ReflectAtk:
			p.Angle += math.Pi
			if reflector := ctx.Entities.Get(r.DefendKey); reflector != nil {
				if owner := (*reflector).PlayerID(); owner != nil {
					v := *owner
					p.Owner = &v
				}
			}
			state.Hitlist = state.Hitlist[:0]
		case AbsorbAtk:
			ctx.DeleteSelf()
		case Clang:
			return setAction(entitydef.ActionProjectileHit)
		}
	}
	return nil
}

func (p *Projectile) processMessage(ctx *StepContext, state *ActionState, msg MessageContents) *actionResult {
	return nil
}
