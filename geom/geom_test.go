package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name     string
		old, new P
		p1, p2   P
		want     bool
	}{
		{
			name: "falling path crosses floor",
			old:  P{X: 0, Y: 1}, new: P{X: 0, Y: -1},
			p1: P{X: -5, Y: 0}, p2: P{X: 5, Y: 0},
			want: true,
		},
		{
			name: "path stops above floor",
			old:  P{X: 0, Y: 3}, new: P{X: 0, Y: 1},
			p1: P{X: -5, Y: 0}, p2: P{X: 5, Y: 0},
			want: false,
		},
		{
			name: "path misses floor horizontally",
			old:  P{X: 10, Y: 1}, new: P{X: 10, Y: -1},
			p1: P{X: -5, Y: 0}, p2: P{X: 5, Y: 0},
			want: false,
		},
		{
			name: "diagonal crossing",
			old:  P{X: -1, Y: -1}, new: P{X: 1, Y: 1},
			p1: P{X: -1, Y: 1}, p2: P{X: 1, Y: -1},
			want: true,
		},
		{
			name: "parallel segments",
			old:  P{X: 0, Y: 1}, new: P{X: 5, Y: 1},
			p1: P{X: 0, Y: 0}, p2: P{X: 5, Y: 0},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentsIntersect(tt.old, tt.new, tt.p1, tt.p2)
			assert.Equal(t, tt.want, got)

			// symmetric under swapping the segment endpoints
			swapped := SegmentsIntersect(tt.old, tt.new, tt.p2, tt.p1)
			assert.Equal(t, got, swapped)
		})
	}
}

func TestRectAccessorsNormalize(t *testing.T) {
	r := Rect{X1: 5, Y1: 7, X2: -5, Y2: -7}
	assert.Equal(t, -5.0, r.Left())
	assert.Equal(t, 5.0, r.Right())
	assert.Equal(t, -7.0, r.Bot())
	assert.Equal(t, 7.0, r.Top())
}

func TestRectCollision(t *testing.T) {
	a := Rect{X1: 0, Y1: 0, X2: 4, Y2: 4}
	assert.True(t, a.Collision(Rect{X1: 2, Y1: 2, X2: 6, Y2: 6}))
	assert.True(t, a.Collision(Rect{X1: 6, Y1: 6, X2: 2, Y2: 2}), "corner order must not matter")
	assert.False(t, a.Collision(Rect{X1: 5, Y1: 5, X2: 8, Y2: 8}))
	assert.False(t, a.Collision(Rect{X1: 4, Y1: 0, X2: 8, Y2: 4}), "touching edges do not overlap")
}

func TestRectOffsetContains(t *testing.T) {
	r := Rect{X1: -1, Y1: -1, X2: 1, Y2: 1}.Offset(10, 20)
	assert.True(t, r.Contains(P{X: 10, Y: 20}))
	assert.False(t, r.Contains(P{X: 12, Y: 20}))
}
