// Package slotmap provides a dense, generation-checked arena. Keys stay
// valid across storage compaction; keys to removed values resolve to nothing
// instead of aliasing a reused slot. Iteration order is the dense storage
// order, which is deterministic for a given operation sequence and is part
// of the simulation's cross-peer determinism contract.
package slotmap

const noDense = ^uint32(0)

// Key identifies a value across frames. The zero Key is never valid.
type Key struct {
	idx uint32
	gen uint32
}

// IsZero reports whether the key is the zero key.
func (k Key) IsZero() bool { return k.gen == 0 }

type slot struct {
	gen   uint32
	dense uint32 // index into dense storage, noDense when free
}

type entry[T any] struct {
	slot  uint32
	value T
}

// Map is a dense slot map.
type Map[T any] struct {
	slots []slot
	dense []entry[T]
	free  []uint32
}

// New returns an empty map.
func New[T any]() *Map[T] {
	return &Map[T]{}
}

// Len returns the number of live values.
func (m *Map[T]) Len() int { return len(m.dense) }

// Insert stores a value and returns its key.
func (m *Map[T]) Insert(value T) Key {
	var idx uint32
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		idx = uint32(len(m.slots))
		m.slots = append(m.slots, slot{})
	}
	m.slots[idx].gen++
	m.slots[idx].dense = uint32(len(m.dense))
	m.dense = append(m.dense, entry[T]{slot: idx, value: value})
	return Key{idx: idx, gen: m.slots[idx].gen}
}

func (m *Map[T]) lookup(k Key) (uint32, bool) {
	if k.gen == 0 || int(k.idx) >= len(m.slots) {
		return 0, false
	}
	s := m.slots[k.idx]
	if s.gen != k.gen || s.dense == noDense {
		return 0, false
	}
	return s.dense, true
}

// Get returns a pointer to the value for k, nil for stale or zero keys.
// The pointer is invalidated by the next Insert or Remove.
func (m *Map[T]) Get(k Key) *T {
	d, ok := m.lookup(k)
	if !ok {
		return nil
	}
	return &m.dense[d].value
}

// Contains reports whether k refers to a live value.
func (m *Map[T]) Contains(k Key) bool {
	_, ok := m.lookup(k)
	return ok
}

// Remove deletes the value for k, compacting storage. Stale keys are no-ops.
func (m *Map[T]) Remove(k Key) bool {
	d, ok := m.lookup(k)
	if !ok {
		return false
	}
	last := uint32(len(m.dense) - 1)
	if d != last {
		m.dense[d] = m.dense[last]
		m.slots[m.dense[d].slot].dense = d
	}
	m.dense = m.dense[:last]
	m.slots[k.idx].dense = noDense
	m.free = append(m.free, k.idx)
	return true
}

// Keys returns the live keys in storage order. The returned slice is a
// snapshot: removing entries while iterating it is safe.
func (m *Map[T]) Keys() []Key {
	keys := make([]Key, len(m.dense))
	for i := range m.dense {
		idx := m.dense[i].slot
		keys[i] = Key{idx: idx, gen: m.slots[idx].gen}
	}
	return keys
}

// ForEach visits live values in storage order. The map must not be mutated
// during the walk; use Keys for mutating iteration.
func (m *Map[T]) ForEach(fn func(Key, *T)) {
	for i := range m.dense {
		idx := m.dense[i].slot
		fn(Key{idx: idx, gen: m.slots[idx].gen}, &m.dense[i].value)
	}
}

// Clone copies the map, cloning each value through fn. Key identity and
// storage order are preserved, so clones iterate identically.
func (m *Map[T]) Clone(fn func(T) T) *Map[T] {
	out := &Map[T]{
		slots: make([]slot, len(m.slots)),
		dense: make([]entry[T], len(m.dense)),
		free:  make([]uint32, len(m.free)),
	}
	copy(out.slots, m.slots)
	copy(out.free, m.free)
	for i := range m.dense {
		out.dense[i] = entry[T]{slot: m.dense[i].slot, value: fn(m.dense[i].value)}
	}
	return out
}
