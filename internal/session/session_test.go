package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ZeroValueIsEmpty(t *testing.T) {
	var s Session

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestSession_SetDoesNotMutateReceiver(t *testing.T) {
	base := New().Set("a", 1)
	next := base.Set("b", 2)

	assert.Equal(t, []string{"a"}, base.Keys())
	assert.Equal(t, []string{"a", "b"}, next.Keys())

	_, ok := base.Get("b")
	assert.False(t, ok, "parent session must not see the child's key")
}

func TestSession_SiblingSetsDoNotShareStorage(t *testing.T) {
	parent := New().Set("a", 1).Set("b", 2)

	left := parent.Set("left", true)
	right := parent.Set("right", true)

	assert.Equal(t, []string{"a", "b", "left"}, left.Keys())
	assert.Equal(t, []string{"a", "b", "right"}, right.Keys())
}

func TestSession_SetKeepsLatestValueAndFirstPosition(t *testing.T) {
	s := New().Set("a", 1).Set("b", 2).Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, s.Keys())
	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestSession_Delete(t *testing.T) {
	s := New().Set("a", 1).Set("b", 2)

	d := s.Delete("a")
	assert.Equal(t, []string{"b"}, d.Keys())
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	assert.True(t, s.Delete("missing").Equal(s))
}

func TestSession_FromMapIsSorted(t *testing.T) {
	s := FromMap(map[string]any{"z": 1, "a": 2, "m": 3})

	assert.Equal(t, []string{"a", "m", "z"}, s.Keys())
}

func TestSession_Equal(t *testing.T) {
	a := New().Set("x", []any{1, "two"})
	b := New().Set("x", []any{1, "two"})
	c := New().Set("x", []any{1, "three"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(a.Set("y", 1)))
}

func TestSession_GetString(t *testing.T) {
	s := New().Set("name", "alice").Set("count", 42)

	name, ok := s.GetString("name")
	require.True(t, ok)
	assert.Equal(t, "alice", name)

	count, ok := s.GetString("count")
	require.True(t, ok)
	assert.Equal(t, "42", count)

	_, ok = s.GetString("missing")
	assert.False(t, ok)
}

func TestSession_String(t *testing.T) {
	s := New().Set("user", "alice").Set("total", 3)

	assert.Equal(t, "user -> alice\ntotal -> 3", s.String())
}

func TestSession_ToMapIsACopy(t *testing.T) {
	s := New().Set("a", 1)

	m := s.ToMap()
	m["a"] = 2

	v, _ := s.Get("a")
	assert.Equal(t, 1, v)
}

func TestSession_Pick(t *testing.T) {
	s := New().Set("a", 1).Set("b", 2).Set("c", 3)

	picked := s.Pick("c", "missing", "a")

	assert.Equal(t, []string{"c", "a"}, picked.Keys())
	assert.Equal(t, 3, s.Len(), "receiver unchanged")
}
