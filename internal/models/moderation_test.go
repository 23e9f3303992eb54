package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateDerivedFromFlags(t *testing.T) {
	c := &Comment{}
	assert.Equal(t, StateActive, c.State())

	c.IsEdited = true
	assert.Equal(t, StateEdited, c.State())

	// Deleted wins even when the edited flag is still set.
	c.IsDeleted = true
	assert.Equal(t, StateDeleted, c.State())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    CommentState
		to      CommentState
		allowed bool
	}{
		{StateActive, StateEdited, true},
		{StateActive, StateDeleted, true},
		{StateEdited, StateEdited, true},
		{StateEdited, StateDeleted, true},
		{StateDeleted, StateEdited, false},
		{StateDeleted, StateActive, false},
		{StateDeleted, StateDeleted, false},
		{StateActive, StateActive, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanModerate(t *testing.T) {
	assert.False(t, AuthorStudent.CanModerate())
	assert.True(t, AuthorTeacher.CanModerate())
	assert.True(t, AuthorAdmin.CanModerate())
}
