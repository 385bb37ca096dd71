package sim

import (
	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/geom"
	"github.com/rukai/canon-collision-sub001/stage"
)

// PhantomEpsilon widens hit circles for the phantom-hit band: contacts that
// miss by at most this much still register as phantoms. Overridable for
// rulesets that want phantoms gone.
var PhantomEpsilon = 0.01

// clangThreshold is the damage difference at which a hitbox trade stops
// being mutual: the stronger hit wins outright.
const clangThreshold = 9.0

// CollisionResult is one event produced by the hit detection pass,
// addressed to either the attacking or the defending side.
type CollisionResult interface {
	isCollisionResult()
}

// HitAtk tells an attacker its hitbox connected.
type HitAtk struct {
	DefendKey EntityKey
	Hitbox    *entitydef.HitBox
	Point     geom.P
}

// HitDef tells a defender it was hit.
type HitDef struct {
	AttackKey EntityKey
	Hitbox    *entitydef.HitBox
	Hurtbox   *entitydef.HurtBox
}

// ShieldHitAtk tells an attacker its hitbox hit a shield.
type ShieldHitAtk struct {
	DefendKey   EntityKey
	Hitbox      *entitydef.HitBox
	Point       geom.P
	PowerShield bool
}

// ShieldHitDef tells a shielding defender its shield took a hit.
type ShieldHitDef struct {
	AttackKey   EntityKey
	Hitbox      *entitydef.HitBox
	PowerShield bool
}

// Clang tells an attacker its hitbox traded with another hitbox. Rebound
// carries the hitbox's authored rebound flag.
type Clang struct {
	Rebound bool
}

// PhantomAtk tells an attacker it grazed a hurtbox without real contact.
type PhantomAtk struct {
	DefendKey EntityKey
	Hitbox    *entitydef.HitBox
}

// PhantomDef tells a defender it was grazed.
type PhantomDef struct {
	AttackKey EntityKey
	Hitbox    *entitydef.HitBox
}

// GrabAtk tells a grabbing attacker its grab box connected.
type GrabAtk struct {
	DefendKey EntityKey
}

// GrabDef tells a defender it was grabbed.
type GrabDef struct {
	AttackKey EntityKey
}

// ReflectAtk tells an attacker its hit was reflected.
type ReflectAtk struct {
	DefendKey EntityKey
	Hitbox    *entitydef.HitBox
}

// AbsorbAtk tells an attacker its hit was absorbed.
type AbsorbAtk struct {
	DefendKey EntityKey
	Hitbox    *entitydef.HitBox
}

func (HitAtk) isCollisionResult()       {}
func (HitDef) isCollisionResult()       {}
func (ShieldHitAtk) isCollisionResult() {}
func (ShieldHitDef) isCollisionResult() {}
func (Clang) isCollisionResult()        {}
func (PhantomAtk) isCollisionResult()   {}
func (PhantomDef) isCollisionResult()   {}
func (GrabAtk) isCollisionResult()      {}
func (GrabDef) isCollisionResult()      {}
func (ReflectAtk) isCollisionResult()   {}
func (AbsorbAtk) isCollisionResult()    {}

// worldColbox is a collision box resolved into world space.
type worldColbox struct {
	box *entitydef.CollisionBox
	pos geom.P
}

func circlesOverlap(a, b worldColbox, epsilon float64) bool {
	return a.pos.Distance(b.pos) < a.box.Radius+b.box.Radius+epsilon
}

func contactPoint(a, b worldColbox) geom.P {
	return geom.P{X: (a.pos.X + b.pos.X) / 2.0, Y: (a.pos.Y + b.pos.Y) / 2.0}
}

// CollisionCheck runs hit detection over the current entity positions and
// returns the results addressed to each entity. Attackers are visited in
// storage order and each attacker scans defenders in storage order; both
// orders are part of the determinism contract.
func CollisionCheck(entities *Entities, defs entitydef.Defs, stg *stage.Stage, surfaces []stage.Surface) map[EntityKey][]CollisionResult {
	results := make(map[EntityKey][]CollisionResult)

	type resolved struct {
		key      EntityKey
		entity   *Entity
		colboxes []worldColbox
	}
	var all []resolved
	entities.ForEach(func(key EntityKey, e **Entity) {
		all = append(all, resolved{
			key:      key,
			entity:   *e,
			colboxes: (*e).worldColboxes(entities, defs, surfaces),
		})
	})

attackers:
	for ai := range all {
		atk := &all[ai]
		hitboxes := hitColboxes(atk.colboxes)
		grabboxes := roleColboxes(atk.colboxes, entitydef.RoleGrab)
		if len(hitboxes) == 0 && len(grabboxes) == 0 {
			continue
		}

	defenders:
		for di := range all {
			def := &all[di]
			if ai == di || !canHit(atk.entity, def.entity) {
				continue
			}
			if atk.entity.State.InHitlist(def.key) {
				continue
			}

		hitboxScan:
			for _, hit := range hitboxes {
				// shields eat the hit before hurtboxes are considered; the
				// grab pass below still runs against this defender
				if circle, power, ok := def.entity.shieldCircle(entities, defs, surfaces); ok {
					if circle.pos.Distance(hit.pos) < circle.radius+hit.box.Radius {
						results[atk.key] = append(results[atk.key], ShieldHitAtk{
							DefendKey:   def.key,
							Hitbox:      hit.box.Hit,
							Point:       contactPoint(hit, worldColbox{box: &entitydef.CollisionBox{Radius: circle.radius}, pos: circle.pos}),
							PowerShield: power,
						})
						results[def.key] = append(results[def.key], ShieldHitDef{
							AttackKey:   atk.key,
							Hitbox:      hit.box.Hit,
							PowerShield: power,
						})
						break hitboxScan
					}
				}

				// hitbox versus hitbox. Any clang ends the whole frame's
				// attacker iteration; a trade out-damaged by clangThreshold
				// resolves as a one-sided hit for the stronger side instead
				// of a mutual rebound.
				if hit.box.Hit.EnableClang {
					for _, other := range hitColboxes(def.colboxes) {
						if !circlesOverlap(hit, other, 0.0) {
							continue
						}
						diff := hit.box.Hit.Damage - other.box.Hit.Damage
						switch {
						case diff >= clangThreshold:
							results[atk.key] = append(results[atk.key], HitAtk{
								DefendKey: def.key,
								Hitbox:    hit.box.Hit,
								Point:     contactPoint(hit, other),
							})
							results[def.key] = append(results[def.key], Clang{Rebound: other.box.Hit.EnableRebound})
						case diff <= -clangThreshold:
							results[atk.key] = append(results[atk.key], Clang{Rebound: hit.box.Hit.EnableRebound})
							results[def.key] = append(results[def.key], HitAtk{
								DefendKey: atk.key,
								Hitbox:    other.box.Hit,
								Point:     contactPoint(hit, other),
							})
						default:
							results[atk.key] = append(results[atk.key], Clang{Rebound: hit.box.Hit.EnableRebound})
							results[def.key] = append(results[def.key], Clang{Rebound: other.box.Hit.EnableRebound})
						}
						break attackers
					}
				}

				landed := false
				for _, target := range def.colboxes {
					switch target.box.Role {
					case entitydef.RoleHurt:
						if circlesOverlap(hit, target, 0.0) {
							results[atk.key] = append(results[atk.key], HitAtk{
								DefendKey: def.key,
								Hitbox:    hit.box.Hit,
								Point:     contactPoint(hit, target),
							})
							results[def.key] = append(results[def.key], HitDef{
								AttackKey: atk.key,
								Hitbox:    hit.box.Hit,
								Hurtbox:   target.box.Hurt,
							})
							landed = true
						} else if circlesOverlap(hit, target, PhantomEpsilon) {
							results[atk.key] = append(results[atk.key], PhantomAtk{
								DefendKey: def.key,
								Hitbox:    hit.box.Hit,
							})
							results[def.key] = append(results[def.key], PhantomDef{
								AttackKey: atk.key,
								Hitbox:    hit.box.Hit,
							})
						}
					case entitydef.RoleInvincible:
						if circlesOverlap(hit, target, 0.0) {
							// the attacker connects, the defender shrugs it off
							results[atk.key] = append(results[atk.key], HitAtk{
								DefendKey: def.key,
								Hitbox:    hit.box.Hit,
								Point:     contactPoint(hit, target),
							})
							landed = true
						}
					case entitydef.RoleReflect:
						if circlesOverlap(hit, target, 0.0) {
							results[atk.key] = append(results[atk.key], ReflectAtk{
								DefendKey: def.key,
								Hitbox:    hit.box.Hit,
							})
							landed = true
						}
					case entitydef.RoleAbsorb:
						if circlesOverlap(hit, target, 0.0) {
							results[atk.key] = append(results[atk.key], AbsorbAtk{
								DefendKey: def.key,
								Hitbox:    hit.box.Hit,
							})
							landed = true
						}
					}
					if landed {
						break
					}
				}
				if landed {
					// one landed hit per attacker per frame
					break defenders
				}
			}

			// grab boxes test against every defender box, not just hurtboxes
			for _, grab := range grabboxes {
				if !def.entity.grabbable() {
					break
				}
				for _, target := range def.colboxes {
					if circlesOverlap(grab, target, 0.0) {
						results[atk.key] = append(results[atk.key], GrabAtk{DefendKey: def.key})
						results[def.key] = append(results[def.key], GrabDef{AttackKey: atk.key})
						break defenders
					}
				}
			}
		}
	}
	return results
}

func hitColboxes(boxes []worldColbox) []worldColbox {
	return roleColboxes(boxes, entitydef.RoleHit)
}

func roleColboxes(boxes []worldColbox, role entitydef.Role) []worldColbox {
	var out []worldColbox
	for _, b := range boxes {
		if b.box.Role == role {
			out = append(out, b)
		}
	}
	return out
}

// canHit rejects pairs that can never interact: two entities owned by the
// same player do not hit each other.
func canHit(atk, def *Entity) bool {
	a := atk.Ty.playerID()
	d := def.Ty.playerID()
	if a == nil || d == nil {
		return true
	}
	return *a != *d
}
