package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 50}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin corner", Point{10, 10}, true},
		{"last pixel", Point{109, 59}, true},
		{"fractional inside far edge", Point{109.99, 59.99}, true},
		{"right edge", Point{110, 10}, false},
		{"bottom edge", Point{10, 60}, false},
		{"left of origin", Point{9.5, 20}, false},
		{"above origin", Point{20, 9}, false},
		{"centre", Point{60, 35}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.p))
		})
	}
}

func TestRect_ContainsNegativeOrigin(t *testing.T) {
	r := Rect{X: -40, Y: -20, Width: 50, Height: 30}

	assert.True(t, r.Contains(Point{-40, -20}))
	assert.True(t, r.Contains(Point{0, 0}))
	assert.False(t, r.Contains(Point{10, 0}))
	assert.False(t, r.Contains(Point{0, 10}))
}

func TestRect_EmptyContainsNothing(t *testing.T) {
	r := Rect{X: 5, Y: 5}
	assert.False(t, r.Contains(Point{5, 5}))
	assert.True(t, Rect{}.IsZero())
	assert.False(t, r.IsZero())
}

func TestRect_Edges(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	assert.Equal(t, 40.0, r.Right())
	assert.Equal(t, 60.0, r.Bottom())
	assert.Equal(t, "(10,20 30x40)", r.String())
}
