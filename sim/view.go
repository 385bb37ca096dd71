package sim

import (
	"fmt"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/geom"
)

// ColboxView is a resolved collision circle for rendering.
type ColboxView struct {
	Pos    geom.P
	Radius float64
	Role   entitydef.Role
}

// EntityView is a renderer-facing projection of one entity. Views copy
// everything they expose, so renderers can never mutate simulation state.
type EntityView struct {
	Key        EntityKey
	DefKey     string
	ActionName string
	Frame      int
	Pos        geom.P
	FaceRight  bool
	Angle      float64
	Damage     float64
	Stocks     int
	PlayerI    int // -1 for unowned entities
	InHitlag   bool
	Colboxes   []ColboxView
}

// Views projects the live entity set in storage order.
func (g *Game) Views() []EntityView {
	views := make([]EntityView, 0, g.Entities.Len())
	g.Entities.ForEach(func(key EntityKey, ep **Entity) {
		e := *ep
		def := e.Def(g.Defs)
		if def == nil {
			return
		}
		view := EntityView{
			Key:        key,
			DefKey:     e.State.DefKey,
			ActionName: e.State.ActionName(def),
			Frame:      e.State.Frame,
			Pos:        e.Pos(g.Entities, g.Defs, g.Stage.Surfaces),
			FaceRight:  e.FaceRight(),
			Angle:      e.Angle(g.Defs, g.Stage.Surfaces),
			PlayerI:    -1,
			InHitlag:   e.State.Hitlag.Active(),
		}
		if b := e.Ty.body(); b != nil {
			view.Damage = b.Damage
		}
		if f, ok := e.Ty.(*Fighter); ok {
			view.PlayerI = f.PlayerI
			view.Stocks = f.Stocks
		}
		for _, wc := range e.worldColboxes(g.Entities, g.Defs, g.Stage.Surfaces) {
			view.Colboxes = append(view.Colboxes, ColboxView{
				Pos:    wc.pos,
				Radius: wc.box.Radius,
				Role:   wc.box.Role,
			})
		}
		views = append(views, view)
	})
	return views
}

// DebugString summarizes one entity for on-screen debug overlays.
func (e *Entity) DebugString(entities *Entities, defs entitydef.Defs) string {
	def := e.Def(defs)
	if def == nil {
		return fmt.Sprintf("unknown def %q", e.State.DefKey)
	}
	s := fmt.Sprintf("action: %s frame: %d frame_no_restart: %d",
		e.State.ActionName(def), e.State.Frame, e.State.FrameNoRestart)
	if b := e.Ty.body(); b != nil {
		s += " " + b.DebugString()
	}
	return s
}
