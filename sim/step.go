package sim

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/input"
	"github.com/rukai/canon-collision-sub001/stage"
)

// DefaultStocks is the stock count fighters spawn with.
const DefaultStocks = 4

// Config assembles a match.
type Config struct {
	Stage *stage.Stage
	Defs  entitydef.Defs
	// Seed drives every random draw of the match. Two games with the same
	// seed and input sequence play out identically.
	Seed uint64
	// Fighters maps player index to definition key.
	Fighters []string
	Stocks   int
	// MaxHistoryFrames bounds the rollback snapshot buffer.
	MaxHistoryFrames int
	Logger           zerolog.Logger
}

// Game owns the live entity set and advances it one frame at a time.
type Game struct {
	Stage    *stage.Stage
	Defs     entitydef.Defs
	Entities *Entities
	Seed     uint64
	Frame    int

	history *History
	log     zerolog.Logger
}

// NewGame validates the configuration and spawns the fighters.
func NewGame(cfg Config) (*Game, error) {
	if cfg.Stage == nil {
		return nil, fmt.Errorf("sim: config has no stage")
	}
	if err := cfg.Stage.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if err := cfg.Defs.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	stocks := cfg.Stocks
	if stocks <= 0 {
		stocks = DefaultStocks
	}
	maxHistory := cfg.MaxHistoryFrames
	if maxHistory <= 0 {
		maxHistory = defaultHistoryFrames
	}

	g := &Game{
		Stage:    cfg.Stage,
		Defs:     cfg.Defs,
		Entities: NewEntities(),
		Seed:     cfg.Seed,
		history:  NewHistory(maxHistory),
		log:      cfg.Logger,
	}
	for playerI, defKey := range cfg.Fighters {
		def := cfg.Defs.Get(defKey)
		if def == nil {
			return nil, fmt.Errorf("sim: unknown fighter definition %q", defKey)
		}
		spawn := stage.SpawnPoint{FaceRight: true}
		if len(cfg.Stage.Spawns) > 0 {
			spawn = cfg.Stage.Spawns[playerI%len(cfg.Stage.Spawns)]
		}
		g.Entities.Insert(NewFighter(defKey, def, playerI, stocks, spawn))
	}
	g.log.Debug().
		Str("stage", cfg.Stage.Name).
		Int("fighters", len(cfg.Fighters)).
		Uint64("seed", cfg.Seed).
		Msg("game created")
	return g, nil
}

// SpawnEntity inserts an entity outside the frame loop, for match setup.
func (g *Game) SpawnEntity(e *Entity) EntityKey {
	return g.Entities.Insert(e)
}

// frameRng derives the frame's random stream from the match seed. Every
// peer reseeds identically each frame, so a late joiner that replays inputs
// lands on the same stream.
func frameRng(seed uint64, frame int) *rand.Rand {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[0:8], seed)
	binary.LittleEndian.PutUint64(s[8:16], uint64(frame))
	return rand.New(rand.NewChaCha8(s))
}

// Step advances the simulation one frame. inputs[i] belongs to player i;
// missing players read as unplugged controllers.
//
// Phase order is fixed: hitlag, collision detection over the pre-physics
// positions, collision delivery, item pickup, physics, actions, messages,
// then spawns and deletions. Each phase iterates entities in storage order
// against a snapshot taken before the phase, so within a phase no entity
// observes another's same-phase mutation.
func (g *Game) Step(inputs []input.PlayerInput) {
	rng := frameRng(g.Seed, g.Frame)
	var newEntities []*Entity
	var messages []Message
	var deletions []EntityKey

	run := func(key EntityKey, snapshot *Entities, fn func(*StepContext, *Entity)) {
		e := g.Entities.Get(key)
		if e == nil {
			return
		}
		ctx := &StepContext{
			Key:         key,
			Input:       playerInput(*e, inputs),
			Entities:    snapshot,
			Defs:        g.Defs,
			Def:         (*e).Def(g.Defs),
			Stage:       g.Stage,
			Surfaces:    g.Stage.Surfaces,
			Rng:         rng,
			newEntities: &newEntities,
			messages:    &messages,
		}
		fn(ctx, *e)
		if ctx.deleteSelf {
			deletions = append(deletions, key)
		}
	}

	// 1. hitlag: frozen entities stay frozen for the whole frame, even
	// when their counter runs out now
	frozen := make(map[EntityKey]bool)
	snapshot := g.Entities.Clone(cloneEntity)
	for _, key := range g.Entities.Keys() {
		run(key, snapshot, func(ctx *StepContext, e *Entity) {
			if e.stepHitlag(ctx) {
				frozen[key] = true
			}
		})
	}

	// 2. hit detection over last frame's resolved positions
	results := CollisionCheck(g.Entities, g.Defs, g.Stage, g.Stage.Surfaces)

	// 3. collision delivery; hits land on frozen entities too
	snapshot = g.Entities.Clone(cloneEntity)
	for _, key := range g.Entities.Keys() {
		if rs := results[key]; len(rs) > 0 {
			run(key, snapshot, func(ctx *StepContext, e *Entity) {
				e.stepCollision(ctx, rs)
			})
		}
	}

	// 4. item pickup
	stepItemGrab(g.Entities, g.Defs, g.Stage.Surfaces)

	// an entity is frozen this frame if it entered the frame in hitlag or
	// picked hitlag up from a collision result just now
	isFrozen := func(key EntityKey) bool {
		if frozen[key] {
			return true
		}
		e := g.Entities.Get(key)
		return e != nil && (*e).State.Hitlag.Active()
	}

	// 5. physics
	snapshot = g.Entities.Clone(cloneEntity)
	for _, key := range g.Entities.Keys() {
		if isFrozen(key) {
			continue
		}
		run(key, snapshot, func(ctx *StepContext, e *Entity) {
			e.stepPhysics(ctx)
		})
	}

	// 6. actions
	snapshot = g.Entities.Clone(cloneEntity)
	for _, key := range g.Entities.Keys() {
		if isFrozen(key) {
			continue
		}
		run(key, snapshot, func(ctx *StepContext, e *Entity) {
			e.stepAction(ctx)
		})
	}

	// 7. messages queued during any phase this frame
	snapshot = g.Entities.Clone(cloneEntity)
	for _, msg := range messages {
		run(msg.Recipient, snapshot, func(ctx *StepContext, e *Entity) {
			e.processMessage(ctx, msg.Contents)
		})
	}

	// 8. spawns land before deletions so a dying entity can leave children
	for _, e := range newEntities {
		g.Entities.Insert(e)
	}
	for _, key := range deletions {
		g.Entities.Remove(key)
	}

	g.Frame++
	g.history.Push(g.Frame, g.Entities)
}

// playerInput resolves the input belonging to an entity's player.
func playerInput(e *Entity, inputs []input.PlayerInput) *input.PlayerInput {
	id := e.PlayerID()
	if id == nil || *id < 0 || *id >= len(inputs) {
		return nil
	}
	return &inputs[*id]
}

// History exposes the rollback snapshot buffer.
func (g *Game) History() *History { return g.history }

// Rollback rewinds the live entity set to an earlier frame from history.
func (g *Game) Rollback(frame int) error {
	entities := g.history.At(frame)
	if entities == nil {
		return fmt.Errorf("sim: frame %d not in history", frame)
	}
	g.Entities = entities.Clone(cloneEntity)
	g.Frame = frame
	return nil
}

// Checksum folds every entity's position and damage into a hash. Peers
// compare checksums to detect desyncs.
func (g *Game) Checksum() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	g.Entities.ForEach(func(key EntityKey, e **Entity) {
		pos := (*e).Pos(g.Entities, g.Defs, g.Stage.Surfaces)
		write(pos.X)
		write(pos.Y)
		if b := (*e).Ty.body(); b != nil {
			write(b.Damage)
		}
	})
	binary.LittleEndian.PutUint64(buf[:], uint64(g.Frame))
	h.Write(buf[:])
	return h.Sum64()
}

// LogState dumps a one-line summary of every entity at debug level.
func (g *Game) LogState() {
	g.Entities.ForEach(func(key EntityKey, e **Entity) {
		def := (*e).Def(g.Defs)
		g.log.Debug().
			Int("frame", g.Frame).
			Str("def", (*e).State.DefKey).
			Str("action", (*e).State.ActionName(def)).
			Str("body", bodyDebug(*e)).
			Msg("entity")
	})
}

func bodyDebug(e *Entity) string {
	if b := e.Ty.body(); b != nil {
		return b.DebugString()
	}
	return ""
}
