package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()

	assert.True(t, s.Toggle("e1"))
	assert.True(t, s.Toggle("e2"))
	assert.False(t, s.Toggle("e1"))

	assert.Equal(t, []string{"e2"}, s.IDs())
	assert.True(t, s.Has("e2"))
	assert.False(t, s.Has("e1"))
}

func TestSelection_ToggleAll(t *testing.T) {
	visible := []string{"e3", "e1", "e2"}

	t.Run("selects every visible id", func(t *testing.T) {
		s := NewSelection()
		s.Toggle("e1")

		s.ToggleAll(visible)
		assert.Equal(t, []string{"e1", "e2", "e3"}, s.IDs())
	})

	t.Run("clears when everything is selected", func(t *testing.T) {
		s := NewSelection()
		s.ToggleAll(visible)

		s.ToggleAll(visible)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("replaces ids outside the visible list", func(t *testing.T) {
		s := NewSelection()
		s.Toggle("gone")

		s.ToggleAll(visible)
		assert.False(t, s.Has("gone"))
		assert.Equal(t, 3, s.Len())
	})

	t.Run("empty visible list", func(t *testing.T) {
		s := NewSelection()
		s.ToggleAll(nil)
		assert.Equal(t, 0, s.Len())
	})
}

func TestSelection_Retain(t *testing.T) {
	s := NewSelection()
	s.ToggleAll([]string{"e1", "e2", "e3"})

	s.Retain([]string{"e2", "e4"})

	assert.Equal(t, []string{"e2"}, s.IDs())
}

func TestSelection_Clear(t *testing.T) {
	s := NewSelection()
	s.Toggle("e1")
	s.Clear()

	assert.Equal(t, []string{}, s.IDs())
}
