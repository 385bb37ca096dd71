// Package entitydef holds the static move-definition tables consumed by the
// simulation: per-entity physics tuning and per-(action, frame) collision
// data. Tables are externally authored, validated once at load time and
// never mutated by the simulation.
package entitydef

// EntityDef is the full definition of one entity kind, keyed by name.
type EntityDef struct {
	Name string `mapstructure:"name"`

	Weight             float64 `mapstructure:"weight"`
	Gravity            float64 `mapstructure:"gravity"`
	TerminalVel        float64 `mapstructure:"terminal_vel"`
	FastfallTerminalVel float64 `mapstructure:"fastfall_terminal_vel"`
	JumpYInitVel       float64 `mapstructure:"jump_y_init_vel"`
	JumpXInitVel       float64 `mapstructure:"jump_x_init_vel"`
	AirMobilityA       float64 `mapstructure:"air_mobility_a"`
	AirMobilityB       float64 `mapstructure:"air_mobility_b"`
	AirXTermVel        float64 `mapstructure:"air_x_term_vel"`
	AirFriction        float64 `mapstructure:"air_friction"`
	AirJumps           int     `mapstructure:"air_jumps"`
	WalkInitVel        float64 `mapstructure:"walk_init_vel"`
	WalkAcc            float64 `mapstructure:"walk_acc"`
	WalkMaxVel         float64 `mapstructure:"walk_max_vel"`
	Friction           float64 `mapstructure:"friction"`
	LedgeGrabX         float64 `mapstructure:"ledge_grab_x"`
	LedgeGrabY         float64 `mapstructure:"ledge_grab_y"`

	Shield      *Shield      `mapstructure:"shield"`
	PowerShield *PowerShield `mapstructure:"power_shield"`

	// Actions in declared order. Declared order is part of the determinism
	// contract: hitboxes are scanned in declared order.
	Actions []ActionDef `mapstructure:"actions"`

	actionsByName map[string]int
}

// ActionDef is a named, fixed-length sequence of data-bearing frames.
type ActionDef struct {
	Name   string        `mapstructure:"name"`
	Frames []ActionFrame `mapstructure:"frames"`
	// IASA is the frame from which the action may be interrupted by inputs.
	IASA int `mapstructure:"iasa"`
}

// Shield is the tuning for a fighter's shield bubble.
type Shield struct {
	OffsetX  float64 `mapstructure:"offset_x"`
	OffsetY  float64 `mapstructure:"offset_y"`
	Scaling  float64 `mapstructure:"scaling"`
	HpScaling float64 `mapstructure:"hp_scaling"`
	HpMax    float64 `mapstructure:"hp_max"`
	HpRegen  float64 `mapstructure:"hp_regen"`
	BreakVel float64 `mapstructure:"break_vel"`
}

// PowerShield adds parry/stun windows to a perfectly timed shield.
type PowerShield struct {
	Parry     *PowerShieldEffect `mapstructure:"parry"`
	EnemyStun *PowerShieldEffect `mapstructure:"enemy_stun"`
}

type PowerShieldEffect struct {
	Window   int `mapstructure:"window"`
	Duration int `mapstructure:"duration"`
}

// ActionIndex resolves an action name to its index in Actions, or -1.
func (d *EntityDef) ActionIndex(name string) int {
	if i, ok := d.actionsByName[name]; ok {
		return i
	}
	return -1
}

// HasAction reports whether the definition declares the named action.
func (d *EntityDef) HasAction(name string) bool {
	return d.ActionIndex(name) >= 0
}

// Frame returns the frame data at (action, frame), or nil when either index
// is out of range. Out-of-range indices are legal here because replays may
// resume from actions that no longer exist; the simulation jumps back to a
// valid state when that happens.
func (d *EntityDef) Frame(action, frame int) *ActionFrame {
	if action < 0 || action >= len(d.Actions) {
		return nil
	}
	frames := d.Actions[action].Frames
	if frame < 0 || frame >= len(frames) {
		return nil
	}
	return &frames[frame]
}

// FrameCount returns the number of frames declared for an action, 0 when the
// action index is out of range.
func (d *EntityDef) FrameCount(action int) int {
	if action < 0 || action >= len(d.Actions) {
		return 0
	}
	return len(d.Actions[action].Frames)
}

func (d *EntityDef) index() {
	d.actionsByName = make(map[string]int, len(d.Actions))
	for i := range d.Actions {
		d.actionsByName[d.Actions[i].Name] = i
	}
}

// Defs is a read-only table of entity definitions keyed by name.
type Defs map[string]*EntityDef

// Get returns the definition for a key, nil when absent.
func (ds Defs) Get(key string) *EntityDef {
	return ds[key]
}
