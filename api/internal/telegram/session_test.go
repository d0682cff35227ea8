package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vlsu-bot/api/internal/store"
)

func TestMemorySessions(t *testing.T) {
	s := NewMemorySessions()

	_, ok := s.Profile(1)
	assert.False(t, ok)

	p := Profile{InstituteID: "inst", GroupID: "g1", GroupName: "КП-125"}
	s.SetProfile(1, p)
	s.SetLists(1, BrowseLists{Groups: []store.GroupRow{{ID: "g1", Name: "КП-125"}}})

	got, ok := s.Profile(1)
	require.True(t, ok)
	assert.Equal(t, p, got)

	lists, ok := s.Lists(1)
	require.True(t, ok)
	require.Len(t, lists.Groups, 1)

	// чаты изолированы
	_, ok = s.Profile(2)
	assert.False(t, ok)

	s.Clear(1)
	_, ok = s.Profile(1)
	assert.False(t, ok)
	_, ok = s.Lists(1)
	assert.False(t, ok)
}
