package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/geom"
	"github.com/rukai/canon-collision-sub001/stage"
)

// fighterAt builds a fighter parked in the air at (x, y) running the given
// action frame.
func fighterAt(t *testing.T, defs entitydef.Defs, defKey string, playerI int, x, y float64, faceRight bool, action string, frame int) *Entity {
	t.Helper()
	def := defs.Get(defKey)
	require.NotNil(t, def)
	e := NewFighter(defKey, def, playerI, 4, stage.SpawnPoint{FaceRight: faceRight})
	b := e.Ty.body()
	b.Location = Airborne{X: x, Y: y}
	b.FaceRight = faceRight
	i := def.ActionIndex(action)
	require.GreaterOrEqual(t, i, 0)
	e.State.Action = i
	e.State.Frame = frame
	return e
}

func checkCollisions(entities *Entities) map[EntityKey][]CollisionResult {
	stg := stage.Default()
	return CollisionCheck(entities, entitydef.Builtin(), stg, stg.Surfaces)
}

func resultsOf[T CollisionResult](results []CollisionResult) []T {
	var out []T
	for _, r := range results {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestJabConnects(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	atk := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	def := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 10, 2, false, entitydef.ActionIdle, 0))

	results := checkCollisions(entities)

	hitAtks := resultsOf[HitAtk](results[atk])
	require.Len(t, hitAtks, 1)
	assert.Equal(t, def, hitAtks[0].DefendKey)
	// attacker hit circle (7,8), defender hurt circle (10,8)
	assert.InDelta(t, 8.5, hitAtks[0].Point.X, 1e-9)
	assert.InDelta(t, 8.0, hitAtks[0].Point.Y, 1e-9)

	hitDefs := resultsOf[HitDef](results[def])
	require.Len(t, hitDefs, 1)
	assert.Equal(t, atk, hitDefs[0].AttackKey)
	assert.Equal(t, 6.0, hitDefs[0].Hitbox.Damage)
	assert.Equal(t, 1.0, hitDefs[0].Hurtbox.DamageMult)
}

func TestOverlapIsSymmetric(t *testing.T) {
	box := &entitydef.CollisionBox{Radius: 3}
	other := &entitydef.CollisionBox{Radius: 6}
	a := worldColbox{box: box, pos: geom.P{X: 0, Y: 0}}
	b := worldColbox{box: other, pos: geom.P{X: 5, Y: 5}}

	assert.Equal(t, circlesOverlap(a, b, 0.0), circlesOverlap(b, a, 0.0))
	assert.Equal(t, circlesOverlap(a, b, PhantomEpsilon), circlesOverlap(b, a, PhantomEpsilon))
}

func TestHitlistBlocksRepeatHits(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	atkEntity := fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5)
	atk := entities.Insert(atkEntity)
	def := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 10, 2, false, entitydef.ActionIdle, 0))
	atkEntity.State.Hitlist = append(atkEntity.State.Hitlist, def)

	results := checkCollisions(entities)
	assert.Empty(t, results[atk])
	assert.Empty(t, results[def])
}

func TestSamePlayerEntitiesNeverCollide(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	atk := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	def := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 10, 2, false, entitydef.ActionIdle, 0))

	results := checkCollisions(entities)
	assert.Empty(t, results[atk])
	assert.Empty(t, results[def])
}

func TestPhantomBand(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	// hit circle center lands 9.005 from the hurt circle center: misses the
	// strict overlap by less than the phantom epsilon
	atk := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	def := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 16.005, 2, false, entitydef.ActionIdle, 0))

	results := checkCollisions(entities)
	assert.Len(t, resultsOf[PhantomAtk](results[atk]), 1)
	assert.Len(t, resultsOf[PhantomDef](results[def]), 1)
	assert.Empty(t, resultsOf[HitAtk](results[atk]))
	assert.Empty(t, resultsOf[HitDef](results[def]))
}

func TestJustOutsidePhantomBandMisses(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	atk := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	def := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 16.02, 2, false, entitydef.ActionIdle, 0))

	results := checkCollisions(entities)
	assert.Empty(t, results[atk])
	assert.Empty(t, results[def])
}

func TestMutualClang(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	// both jab at once with equal damage: hit circles land on the same spot
	a := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	b := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 14, 0, false, entitydef.ActionJab, 5))

	results := checkCollisions(entities)
	assert.NotEmpty(t, resultsOf[Clang](results[a]))
	assert.NotEmpty(t, resultsOf[Clang](results[b]))
	assert.Empty(t, resultsOf[HitAtk](results[a]), "the clang ends the scan before hurtboxes")
	assert.Empty(t, resultsOf[HitAtk](results[b]))
	assert.Empty(t, resultsOf[HitDef](results[a]))
	assert.Empty(t, resultsOf[HitDef](results[b]))
}

func clangTestDefs(t *testing.T, strongDamage, weakDamage float64) entitydef.Defs {
	t.Helper()
	strong := entitydef.BasicFighter()
	strong.Name = "strong"
	weak := entitydef.BasicFighter()
	weak.Name = "weak"
	for _, pair := range []struct {
		def    *entitydef.EntityDef
		damage float64
	}{{strong, strongDamage}, {weak, weakDamage}} {
		for i := range pair.def.Actions {
			if pair.def.Actions[i].Name != entitydef.ActionJab {
				continue
			}
			for j := range pair.def.Actions[i].Frames {
				for k := range pair.def.Actions[i].Frames[j].Colboxes {
					box := &pair.def.Actions[i].Frames[j].Colboxes[k]
					if box.Role == entitydef.RoleHit {
						box.Hit.Damage = pair.damage
					}
				}
			}
		}
	}
	defs := entitydef.Defs{"strong": strong, "weak": weak}
	require.NoError(t, defs.Validate())
	return defs
}

func TestOneSidedClang(t *testing.T) {
	defs := clangTestDefs(t, 15.0, 6.0)
	entities := NewEntities()
	strong := entities.Insert(fighterAt(t, defs, "strong", 0, 0, 0, true, entitydef.ActionJab, 5))
	weak := entities.Insert(fighterAt(t, defs, "weak", 1, 14, 0, false, entitydef.ActionJab, 5))

	stg := stage.Default()
	results := CollisionCheck(entities, defs, stg, stg.Surfaces)

	// out-damaging the trade by 9 turns it into a one-sided hit
	assert.NotEmpty(t, resultsOf[HitAtk](results[strong]))
	assert.Empty(t, resultsOf[Clang](results[strong]))
	assert.NotEmpty(t, resultsOf[Clang](results[weak]))
	assert.Empty(t, resultsOf[HitAtk](results[weak]))
	assert.Empty(t, resultsOf[HitDef](results[weak]), "the one-sided hit carries no damage")
}

func TestClangAtBoundaryDamageDiffIsMutual(t *testing.T) {
	defs := clangTestDefs(t, 14.0, 6.0)
	entities := NewEntities()
	strong := entities.Insert(fighterAt(t, defs, "strong", 0, 0, 0, true, entitydef.ActionJab, 5))
	weak := entities.Insert(fighterAt(t, defs, "weak", 1, 14, 0, false, entitydef.ActionJab, 5))

	stg := stage.Default()
	results := CollisionCheck(entities, defs, stg, stg.Surfaces)

	// a damage difference of 8 stays inside the mutual band
	assert.NotEmpty(t, resultsOf[Clang](results[strong]))
	assert.NotEmpty(t, resultsOf[Clang](results[weak]))
	assert.Empty(t, resultsOf[HitAtk](results[strong]))
	assert.Empty(t, resultsOf[HitAtk](results[weak]))
}

func TestClangAbortsWholeFrame(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	a := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	b := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 14, 0, false, entitydef.ActionJab, 5))
	// an unrelated pair further along the stage would connect on its own
	c := entities.Insert(fighterAt(t, defs, "basic-fighter", 2, 60, 0, true, entitydef.ActionJab, 5))
	d := entities.Insert(fighterAt(t, defs, "basic-fighter", 3, 70, 2, false, entitydef.ActionIdle, 0))

	results := checkCollisions(entities)
	assert.NotEmpty(t, resultsOf[Clang](results[a]))
	assert.NotEmpty(t, resultsOf[Clang](results[b]))
	assert.Empty(t, results[c], "a clang anywhere ends the whole frame's scan")
	assert.Empty(t, results[d])
}

func TestAtMostOneLandedHitPerAttacker(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	atk := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	first := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 10, 2, false, entitydef.ActionIdle, 0))
	second := entities.Insert(fighterAt(t, defs, "basic-fighter", 2, 11, 2, false, entitydef.ActionIdle, 0))

	results := checkCollisions(entities)
	require.Len(t, resultsOf[HitAtk](results[atk]), 1)
	assert.Len(t, resultsOf[HitDef](results[first]), 1, "the first defender in storage order takes the hit")
	assert.Empty(t, results[second])
}

func TestShieldHitStillAllowsGrab(t *testing.T) {
	defs := entitydef.Builtin()
	grabber := entitydef.BasicFighter()
	grabber.Name = "grabber"
	for i := range grabber.Actions {
		if grabber.Actions[i].Name != entitydef.ActionJab {
			continue
		}
		for j := range grabber.Actions[i].Frames {
			frame := &grabber.Actions[i].Frames[j]
			frame.Colboxes = append(frame.Colboxes, entitydef.CollisionBox{X: 7, Y: 8, Radius: 3, Role: entitydef.RoleGrab})
		}
	}
	defs["grabber"] = grabber
	require.NoError(t, defs.Validate())

	entities := NewEntities()
	atk := entities.Insert(fighterAt(t, defs, "grabber", 0, 0, 0, true, entitydef.ActionJab, 5))
	def := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 10, 2, false, entitydef.ActionShield, 0))

	stg := stage.Default()
	results := CollisionCheck(entities, defs, stg, stg.Surfaces)
	assert.Len(t, resultsOf[ShieldHitAtk](results[atk]), 1)
	assert.Len(t, resultsOf[GrabAtk](results[atk]), 1, "the shield stops the hitboxes, not the grab pass")
	assert.Len(t, resultsOf[GrabDef](results[def]), 1)
}

func TestDefenderProcessesEveryResultInTheList(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	atk := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	defEntity := fighterAt(t, defs, "basic-fighter", 1, 10, 2, false, entitydef.ActionIdle, 0)
	defKey := entities.Insert(defEntity)

	def := defs.Get("basic-fighter")
	frame := def.Frame(def.ActionIndex(entitydef.ActionJab), 5)
	require.NotNil(t, frame)
	var jabHit *entitydef.HitBox
	for i := range frame.Colboxes {
		if frame.Colboxes[i].Role == entitydef.RoleHit {
			jabHit = frame.Colboxes[i].Hit
		}
	}
	require.NotNil(t, jabHit)

	ctx := testCtx(t, stage.Default())
	ctx.Key = defKey
	ctx.Entities = entities

	// a hit and a grab arrive in the same frame's list; both must land
	defEntity.stepCollision(ctx, []CollisionResult{
		HitDef{AttackKey: atk, Hitbox: jabHit, Hurtbox: neutralHurtbox},
		GrabDef{AttackKey: atk},
	})

	f := defEntity.Ty.(*Fighter)
	assert.Greater(t, f.Body.Damage, 0.0, "the hit earlier in the list still counts")
	_, grabbed := f.Body.Location.(GrabbedByEntity)
	assert.True(t, grabbed, "the grab later in the list still lands")
	assert.Equal(t, entitydef.ActionGrabbedIdle, defEntity.State.ActionName(def))
}

func TestShieldEatsTheHit(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	atk := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	def := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 10, 2, false, entitydef.ActionShield, 0))

	results := checkCollisions(entities)
	shieldAtks := resultsOf[ShieldHitAtk](results[atk])
	require.Len(t, shieldAtks, 1)
	assert.False(t, shieldAtks[0].PowerShield)
	require.Len(t, resultsOf[ShieldHitDef](results[def]), 1)
	assert.Empty(t, resultsOf[HitDef](results[def]), "the shield takes the hit, not the body")
}

func TestPowerShieldWindow(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	atk := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionJab, 5))
	defEntity := fighterAt(t, defs, "basic-fighter", 1, 10, 2, false, entitydef.ActionShieldOn, 0)
	def := entities.Insert(defEntity)

	results := checkCollisions(entities)
	shieldAtks := resultsOf[ShieldHitAtk](results[atk])
	require.Len(t, shieldAtks, 1)
	assert.True(t, shieldAtks[0].PowerShield, "shield up for 0 frames is inside the parry window")

	defEntity.State.FrameNoRestart = 10
	results = checkCollisions(entities)
	shieldDefs := resultsOf[ShieldHitDef](results[def])
	require.Len(t, shieldDefs, 1)
	assert.False(t, shieldDefs[0].PowerShield, "stale shields do not parry")
}

func TestGrabConnects(t *testing.T) {
	defs := entitydef.Builtin()
	entities := NewEntities()
	atk := entities.Insert(fighterAt(t, defs, "basic-fighter", 0, 0, 0, true, entitydef.ActionItemGrab, 4))
	def := entities.Insert(fighterAt(t, defs, "basic-fighter", 1, 10, 2, false, entitydef.ActionIdle, 0))

	results := checkCollisions(entities)
	grabAtks := resultsOf[GrabAtk](results[atk])
	require.Len(t, grabAtks, 1)
	assert.Equal(t, def, grabAtks[0].DefendKey)
	require.Len(t, resultsOf[GrabDef](results[def]), 1)
}

func TestProjectileReflected(t *testing.T) {
	defs := entitydef.Builtin()
	reflectorDef := entitydef.BasicFighter()
	reflectorDef.Name = "reflector"
	for i := range reflectorDef.Actions {
		if reflectorDef.Actions[i].Name == entitydef.ActionIdle {
			for j := range reflectorDef.Actions[i].Frames {
				reflectorDef.Actions[i].Frames[j].Colboxes = []entitydef.CollisionBox{
					{X: 0, Y: 6, Radius: 6, Role: entitydef.RoleReflect},
				}
			}
		}
	}
	defs["reflector"] = reflectorDef
	require.NoError(t, defs.Validate())

	entities := NewEntities()
	owner := 0
	projDef := defs.Get("basic-projectile")
	proj := NewProjectile("basic-projectile", projDef, 5, 5, 0, 2.0, &owner)
	proj.State.Action = projDef.ActionIndex(entitydef.ActionProjectileTravel)
	projKey := entities.Insert(proj)
	entities.Insert(fighterAt(t, defs, "reflector", 1, 5, 0, false, entitydef.ActionIdle, 0))

	stg := stage.Default()
	results := CollisionCheck(entities, defs, stg, stg.Surfaces)
	assert.Len(t, resultsOf[ReflectAtk](results[projKey]), 1)
}
