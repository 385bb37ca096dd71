package sim

import (
	"math"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/geom"
	"github.com/rukai/canon-collision-sub001/stage"
)

// itemGrabRounds caps the pickup stabilization loop. Contested pickups
// reassign until stable; pathological layouts give up after this many
// rounds and leave the rest on the ground.
const itemGrabRounds = 10

// stepItemGrab resolves item pickups for one frame: every fighter whose
// current frame carries an item grab box claims the nearest overlapping
// free item. When several items want the same fighter the fighter keeps the
// nearest and the losers retry against the remaining fighters.
func stepItemGrab(entities *Entities, defs entitydef.Defs, surfaces []stage.Surface) {
	type holder struct {
		key  EntityKey
		e    *Entity
		f    *Fighter
		pos  geom.P
		rect geom.Rect
	}
	type freeItem struct {
		key  EntityKey
		e    *Entity
		it   *Item
		pos  geom.P
		rect *geom.Rect
	}

	var holders []holder
	var items []freeItem
	entities.ForEach(func(key EntityKey, ep **Entity) {
		e := *ep
		def := e.Def(defs)
		if def == nil {
			return
		}
		frame := e.State.CurrentFrame(def)
		if frame == nil {
			return
		}
		pos := e.Pos(entities, defs, surfaces)

		switch v := e.Ty.(type) {
		case *Fighter:
			if frame.ItemGrabBox == nil || e.State.Hitlag.Active() {
				return
			}
			if entities.Contains(v.HeldItem) {
				return
			}
			box := *frame.ItemGrabBox
			if !v.Body.FaceRight {
				box = geom.Rect{X1: -box.X1, Y1: box.Y1, X2: -box.X2, Y2: box.Y2}
			}
			holders = append(holders, holder{
				key: key, e: e, f: v, pos: pos,
				rect: box.Offset(pos.X, pos.Y),
			})
		case *Item:
			if !v.holdable() {
				return
			}
			var rect *geom.Rect
			if frame.ItemGrabBox != nil {
				r := frame.ItemGrabBox.Offset(pos.X, pos.Y)
				rect = &r
			}
			items = append(items, freeItem{key: key, e: e, it: v, pos: pos, rect: rect})
		}
	})
	if len(holders) == 0 || len(items) == 0 {
		return
	}

	reachable := func(h *holder, it *freeItem) bool {
		if it.rect != nil {
			return h.rect.Collision(*it.rect)
		}
		return h.rect.Contains(it.pos)
	}

	assigned := make([]int, len(items))
	rejected := make([][]bool, len(items))
	for i := range items {
		assigned[i] = -1
		rejected[i] = make([]bool, len(holders))
	}
	taken := make([]bool, len(holders))

	for round := 0; round < itemGrabRounds; round++ {
		// each free item proposes to its nearest eligible fighter
		proposal := make([]int, len(holders))
		proposalDist := make([]float64, len(holders))
		for i := range proposal {
			proposal[i] = -1
		}

		progress := false
		for ii := range items {
			if assigned[ii] >= 0 {
				continue
			}
			bestH, bestD := -1, math.Inf(1)
			for hi := range holders {
				if taken[hi] || rejected[ii][hi] || !reachable(&holders[hi], &items[ii]) {
					continue
				}
				if d := items[ii].pos.Distance(holders[hi].pos); d < bestD {
					bestD, bestH = d, hi
				}
			}
			if bestH < 0 {
				continue
			}
			progress = true
			switch prev := proposal[bestH]; {
			case prev < 0:
				proposal[bestH] = ii
				proposalDist[bestH] = bestD
			case bestD < proposalDist[bestH]:
				rejected[prev][bestH] = true
				proposal[bestH] = ii
				proposalDist[bestH] = bestD
			default:
				rejected[ii][bestH] = true
			}
		}
		if !progress {
			break
		}
		for hi := range proposal {
			if ii := proposal[hi]; ii >= 0 {
				assigned[ii] = hi
				taken[hi] = true
			}
		}
	}

	for ii := range items {
		hi := assigned[ii]
		if hi < 0 {
			continue
		}
		h := &holders[hi]
		it := &items[ii]

		h.f.HeldItem = it.key
		hDef := h.e.Def(defs)
		if i := hDef.ActionIndex(entitydef.ActionItemGrab); i >= 0 {
			h.e.State.SetAction(i)
		}
		it.it.grabbed(h.key, h.f.playerID(), &it.e.State, it.e.Def(defs))
	}
}
