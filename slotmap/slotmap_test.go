package slotmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertGet(t *testing.T) {
	m := New[string]()
	a := m.Insert("a")
	b := m.Insert("b")

	require.NotNil(t, m.Get(a))
	assert.Equal(t, "a", *m.Get(a))
	assert.Equal(t, "b", *m.Get(b))
	assert.Equal(t, 2, m.Len())
}

func TestStaleKeyAfterRemove(t *testing.T) {
	m := New[int]()
	k := m.Insert(7)
	require.True(t, m.Remove(k))

	assert.Nil(t, m.Get(k))
	assert.False(t, m.Contains(k))
	assert.False(t, m.Remove(k), "double remove is a no-op")
}

func TestSlotReuseDoesNotAliasOldKey(t *testing.T) {
	m := New[int]()
	old := m.Insert(1)
	m.Remove(old)
	fresh := m.Insert(2)

	assert.Nil(t, m.Get(old), "a reused slot must not resurrect the old key")
	require.NotNil(t, m.Get(fresh))
	assert.Equal(t, 2, *m.Get(fresh))
}

func TestIterationOrderIsStorageOrder(t *testing.T) {
	m := New[int]()
	a := m.Insert(1)
	m.Insert(2)
	m.Insert(3)

	var got []int
	m.ForEach(func(_ Key, v *int) { got = append(got, *v) })
	assert.Equal(t, []int{1, 2, 3}, got)

	// removal compacts by swapping in the last element
	m.Remove(a)
	got = got[:0]
	m.ForEach(func(_ Key, v *int) { got = append(got, *v) })
	assert.Equal(t, []int{3, 2}, got)
}

func TestKeysSnapshotSafeForRemoval(t *testing.T) {
	m := New[int]()
	for i := 0; i < 5; i++ {
		m.Insert(i)
	}
	for _, k := range m.Keys() {
		if *m.Get(k)%2 == 0 {
			m.Remove(k)
		}
	}
	assert.Equal(t, 2, m.Len())
}

func TestClonePreservesKeysAndOrder(t *testing.T) {
	m := New[[]int]()
	a := m.Insert([]int{1})
	b := m.Insert([]int{2})

	clone := m.Clone(func(v []int) []int {
		out := make([]int, len(v))
		copy(out, v)
		return out
	})

	require.NotNil(t, clone.Get(a))
	require.NotNil(t, clone.Get(b))

	// mutating the clone's value must not touch the original
	(*clone.Get(a))[0] = 99
	assert.Equal(t, 1, (*m.Get(a))[0])

	assert.Equal(t, m.Keys(), clone.Keys())
}

func TestZeroKey(t *testing.T) {
	m := New[int]()
	m.Insert(1)
	var zero Key
	assert.True(t, zero.IsZero())
	assert.Nil(t, m.Get(zero))
}
