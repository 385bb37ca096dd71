package sim

import "github.com/rukai/canon-collision-sub001/entitydef"

// ActionState is the per-entity animation cursor: which action is playing,
// which frame of it, and the bookkeeping that rides along with the action.
type ActionState struct {
	// DefKey names the entity definition this state runs against.
	DefKey string
	// Action indexes into the definition's action list.
	Action int
	// Frame is the cursor into the action's frames.
	Frame int
	// FrameNoRestart counts frames since the action last changed identity.
	// Restarting the same action does not reset it.
	FrameNoRestart int
	// Hitlist holds the entities this entity's current attack already hit.
	// Cleared on every action change and by ForceHitlistReset frames.
	Hitlist []EntityKey
	Hitlag  Hitlag
}

// NewActionState starts an entity in the named action at frame 0.
func NewActionState(defKey string, def *entitydef.EntityDef, action string) ActionState {
	return ActionState{
		DefKey: defKey,
		Action: def.ActionIndex(action),
	}
}

// SetAction moves to a new action at frame 0 and clears the hitlist.
// FrameNoRestart only resets when the action identity actually changes, so
// restarting an action keeps long-running timers intact.
func (s *ActionState) SetAction(action int) {
	if s.Action != action {
		s.FrameNoRestart = 0
	}
	s.Action = action
	s.Frame = 0
	s.Hitlist = s.Hitlist[:0]
}

// SetFrame jumps the cursor within the current action.
func (s *ActionState) SetFrame(frame int) {
	s.Frame = frame
}

// ActionName resolves the current action's name, "" when out of range.
func (s *ActionState) ActionName(def *entitydef.EntityDef) string {
	if s.Action < 0 || s.Action >= len(def.Actions) {
		return ""
	}
	return def.Actions[s.Action].Name
}

// CurrentFrame returns the frame data under the cursor, nil when the cursor
// points outside the definition. Replays can legally produce out-of-range
// cursors when definitions change between recordings.
func (s *ActionState) CurrentFrame(def *entitydef.EntityDef) *entitydef.ActionFrame {
	return def.Frame(s.Action, s.Frame)
}

// InHitlist reports whether the current attack already connected with key.
func (s *ActionState) InHitlist(key EntityKey) bool {
	for _, k := range s.Hitlist {
		if k == key {
			return true
		}
	}
	return false
}

// clone deep-copies the state.
func (s *ActionState) clone() ActionState {
	out := *s
	out.Hitlist = make([]EntityKey, len(s.Hitlist))
	copy(out.Hitlist, s.Hitlist)
	return out
}

// actionResult is a requested action-state transition returned by variant
// logic and applied by the entity after the variant call returns.
type actionResult struct {
	kind   actionResultKind
	action string
	frame  int
}

type actionResultKind int

const (
	resultSetAction actionResultKind = iota + 1
	resultSetActionKeepFrame
	resultSetFrame
)

// setAction requests a transition to the named action at frame 0.
func setAction(action string) *actionResult {
	return &actionResult{kind: resultSetAction, action: action}
}

// setActionKeepFrame requests a transition that keeps the current frame
// cursor, used when two actions share an animation timeline.
func setActionKeepFrame(action string) *actionResult {
	return &actionResult{kind: resultSetActionKeepFrame, action: action}
}

// setFrame requests a jump within the current action.
func setFrame(frame int) *actionResult {
	return &actionResult{kind: resultSetFrame, frame: frame}
}
