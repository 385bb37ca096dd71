package sim

import (
	"math/rand/v2"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/input"
	"github.com/rukai/canon-collision-sub001/stage"
)

// StepContext is the view of the world handed to one entity for one phase of
// one frame. Entities is a snapshot taken before the phase started: every
// entity in the same phase observes the same pre-phase world regardless of
// iteration order, which is what makes per-frame iteration commutative
// enough to be deterministic.
type StepContext struct {
	Key      EntityKey
	Input    *input.PlayerInput
	Entities *Entities
	Defs     entitydef.Defs
	Def      *entitydef.EntityDef
	Stage    *stage.Stage
	Surfaces []stage.Surface
	Rng      *rand.Rand

	newEntities *[]*Entity
	messages    *[]Message
	deleteSelf  bool
}

// SpawnEntity queues a new entity for insertion at the end of the frame.
func (ctx *StepContext) SpawnEntity(e *Entity) {
	*ctx.newEntities = append(*ctx.newEntities, e)
}

// SendMessage queues a message for delivery later this frame.
func (ctx *StepContext) SendMessage(to EntityKey, contents MessageContents) {
	*ctx.messages = append(*ctx.messages, Message{Recipient: to, Contents: contents})
}

// DeleteSelf marks the entity for removal at the end of the frame.
func (ctx *StepContext) DeleteSelf() {
	ctx.deleteSelf = true
}
