package sim

// defaultHistoryFrames covers half a second of rollback at 60fps plus
// headroom for late inputs.
const defaultHistoryFrames = 60

// History is a bounded ring of per-frame entity snapshots, the raw material
// for rollback netplay and replays.
type History struct {
	max    int
	frames []historyFrame
}

type historyFrame struct {
	frame    int
	entities *Entities
}

// NewHistory returns a history keeping at most max frames.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{max: max}
}

// Push snapshots the entity set as the given frame's end state.
func (h *History) Push(frame int, entities *Entities) {
	h.frames = append(h.frames, historyFrame{
		frame:    frame,
		entities: entities.Clone(cloneEntity),
	})
	if len(h.frames) > h.max {
		h.frames = h.frames[len(h.frames)-h.max:]
	}
}

// At returns the snapshot for a frame, nil when it fell out of the window.
// The caller must clone before mutating.
func (h *History) At(frame int) *Entities {
	for i := len(h.frames) - 1; i >= 0; i-- {
		if h.frames[i].frame == frame {
			return h.frames[i].entities
		}
	}
	return nil
}

// Len reports how many frames are buffered.
func (h *History) Len() int { return len(h.frames) }

// Oldest returns the earliest buffered frame number, -1 when empty.
func (h *History) Oldest() int {
	if len(h.frames) == 0 {
		return -1
	}
	return h.frames[0].frame
}
