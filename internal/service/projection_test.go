package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func appendInt(v int) func([]int) []int {
	return func(cur []int) []int {
		next := make([]int, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, v)
	}
}

// TestProjectionOrdering тестирует порядок применения снимков и записей
func TestProjectionOrdering(t *testing.T) {
	t.Run("apply before load is skipped", func(t *testing.T) {
		var p Projection[[]int]
		assert.False(t, p.Apply(p.Mark(), appendInt(1)))
		assert.False(t, isLoaded(&p))
	})

	t.Run("older snapshot does not replace newer", func(t *testing.T) {
		var p Projection[[]int]
		older := p.Mark()
		newer := p.Mark()

		assert.True(t, p.Load(newer, []int{2}))
		assert.False(t, p.Load(older, []int{1}))

		v, _ := p.Get()
		assert.Equal(t, []int{2}, v)
	})

	t.Run("snapshot fetched before a write is dropped", func(t *testing.T) {
		var p Projection[[]int]
		p.Load(p.Mark(), []int{})

		stale := p.Mark()
		assert.True(t, p.Apply(p.Mark(), appendInt(7)))
		assert.False(t, p.Load(stale, []int{}))

		v, _ := p.Get()
		assert.Equal(t, []int{7}, v)
	})

	t.Run("write older than snapshot is skipped", func(t *testing.T) {
		var p Projection[[]int]
		p.Load(p.Mark(), []int{})

		write := p.Mark()
		assert.True(t, p.Load(p.Mark(), []int{7}))
		assert.False(t, p.Apply(write, appendInt(7)))

		v, _ := p.Get()
		assert.Equal(t, []int{7}, v)
	})

	t.Run("invalidate blocks in-flight loads", func(t *testing.T) {
		var p Projection[[]int]
		mark := p.Mark()
		p.Invalidate()

		assert.False(t, p.Load(mark, []int{1}))
		assert.True(t, p.Load(p.Mark(), []int{2}))
	})
}

func TestStateReset(t *testing.T) {
	s := NewState()
	s.Events.Load(s.Events.Mark(), nil)
	r := s.Roster("E1")
	r.Load(r.Mark(), roster("E1", nil, nil))

	s.Reset()

	assert.False(t, isLoaded(&s.Events))
	assert.False(t, isLoaded(r))
	assert.False(t, isLoaded(s.Roster("E1")))
}

func isLoaded[T any](p *Projection[T]) bool {
	_, ok := p.Get()
	return ok
}
