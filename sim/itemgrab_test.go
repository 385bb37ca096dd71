package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/stage"
)

func idleFighterAt(t *testing.T, defs entitydef.Defs, playerI int, x, y float64) *Entity {
	t.Helper()
	return fighterAt(t, defs, "basic-fighter", playerI, x, y, true, entitydef.ActionIdle, 0)
}

func itemAt(defs entitydef.Defs, x, y float64) *Entity {
	return NewItem("basic-item", defs.Get("basic-item"), x, y)
}

func TestItemPickup(t *testing.T) {
	defs := entitydef.Builtin()
	stg := stage.Default()
	entities := NewEntities()

	fighterKey := entities.Insert(idleFighterAt(t, defs, 0, 0, 0))
	itemKey := entities.Insert(itemAt(defs, 2, 2))

	stepItemGrab(entities, defs, stg.Surfaces)

	fighter := *entities.Get(fighterKey)
	f := fighter.Ty.(*Fighter)
	assert.Equal(t, itemKey, f.HeldItem)
	assert.Equal(t, entitydef.ActionItemGrab, fighter.State.ActionName(defs.Get("basic-fighter")))

	item := *entities.Get(itemKey)
	it := item.Ty.(*Item)
	loc, ok := it.Body.Location.(HeldByEntity)
	require.True(t, ok)
	assert.Equal(t, fighterKey, loc.Holder)
	assert.Equal(t, entitydef.ActionItemHeld, item.State.ActionName(defs.Get("basic-item")))
	require.NotNil(t, it.Owner)
	assert.Equal(t, 0, *it.Owner)
}

func TestNearestItemWinsContestedPickup(t *testing.T) {
	defs := entitydef.Builtin()
	stg := stage.Default()
	entities := NewEntities()

	fighterKey := entities.Insert(idleFighterAt(t, defs, 0, 0, 0))
	nearKey := entities.Insert(itemAt(defs, 1, 2))
	farKey := entities.Insert(itemAt(defs, 4, 2))

	stepItemGrab(entities, defs, stg.Surfaces)

	f := (*entities.Get(fighterKey)).Ty.(*Fighter)
	assert.Equal(t, nearKey, f.HeldItem)
	far := (*entities.Get(farKey)).Ty.(*Item)
	assert.True(t, far.holdable(), "the loser stays on the ground")
}

func TestPickupStabilizesAcrossFighters(t *testing.T) {
	defs := entitydef.Builtin()
	stg := stage.Default()
	entities := NewEntities()

	// both items sit in fighter A's reach, one also in fighter B's; A keeps
	// its nearest and the other settles on B
	aKey := entities.Insert(idleFighterAt(t, defs, 0, 0, 0))
	bKey := entities.Insert(idleFighterAt(t, defs, 1, 8, 0))
	firstKey := entities.Insert(itemAt(defs, 1, 2))
	secondKey := entities.Insert(itemAt(defs, 4, 2))

	stepItemGrab(entities, defs, stg.Surfaces)

	a := (*entities.Get(aKey)).Ty.(*Fighter)
	b := (*entities.Get(bKey)).Ty.(*Fighter)
	assert.Equal(t, firstKey, a.HeldItem)
	assert.Equal(t, secondKey, b.HeldItem)
}

func TestHeldItemIsNotPickedUpAgain(t *testing.T) {
	defs := entitydef.Builtin()
	stg := stage.Default()
	entities := NewEntities()

	holderKey := entities.Insert(idleFighterAt(t, defs, 0, 0, 0))
	poacherKey := entities.Insert(idleFighterAt(t, defs, 1, 1, 0))
	itemKey := entities.Insert(itemAt(defs, 0, 2))

	stepItemGrab(entities, defs, stg.Surfaces)
	holder := (*entities.Get(holderKey)).Ty.(*Fighter)
	require.Equal(t, itemKey, holder.HeldItem)

	// next frame the item is held and the other fighter gets nothing
	stepItemGrab(entities, defs, stg.Surfaces)
	poacher := (*entities.Get(poacherKey)).Ty.(*Fighter)
	assert.False(t, entities.Contains(poacher.HeldItem))
}

func TestHeldItemFollowsHolder(t *testing.T) {
	defs := entitydef.Builtin()
	stg := stage.Default()
	entities := NewEntities()

	fighterKey := entities.Insert(idleFighterAt(t, defs, 0, 0, 0))
	itemKey := entities.Insert(itemAt(defs, 2, 2))
	stepItemGrab(entities, defs, stg.Surfaces)

	fighter := *entities.Get(fighterKey)
	fighter.Ty.body().Location = Airborne{X: 33.0, Y: 12.0}

	item := *entities.Get(itemKey)
	pos := item.Pos(entities, defs, stg.Surfaces)
	assert.InDelta(t, 33.0, pos.X, 1e-9)
	assert.InDelta(t, 12.0, pos.Y, 1e-9)
}

func TestThrownItemFliesAndHits(t *testing.T) {
	defs := entitydef.Builtin()
	stg := stage.Default()
	entities := NewEntities()

	entities.Insert(idleFighterAt(t, defs, 0, 0, 0))
	itemKey := entities.Insert(itemAt(defs, 2, 2))
	stepItemGrab(entities, defs, stg.Surfaces)

	item := *entities.Get(itemKey)
	var news []*Entity
	var msgs []Message
	ctx := &StepContext{
		Key:         itemKey,
		Entities:    entities,
		Defs:        defs,
		Def:         defs.Get("basic-item"),
		Stage:       stg,
		Surfaces:    stg.Surfaces,
		Rng:         frameRng(1, 0),
		newEntities: &news,
		messages:    &msgs,
	}
	item.processMessage(ctx, MessageItemThrown{XVel: 3.0, YVel: 1.5})

	it := item.Ty.(*Item)
	assert.True(t, it.Body.Airbourne())
	assert.Equal(t, 3.0, it.Body.XVel)
	assert.Equal(t, entitydef.ActionItemThrown, item.State.ActionName(defs.Get("basic-item")))

	// the thrown action carries a live hitbox that still credits the thrower
	boxes := item.worldColboxes(entities, defs, stg.Surfaces)
	found := false
	for _, wc := range boxes {
		if wc.box.Role == entitydef.RoleHit {
			found = true
		}
	}
	assert.True(t, found)
}
