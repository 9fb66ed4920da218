package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReferenceResolve(t *testing.T) {
	r := &Reference{
		RefID:     "ref-1",
		State:     RefStatePending,
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	before := r.UpdatedAt

	err := r.Resolve("target-1", "java/util/List.html#size()")
	assert.NoError(t, err)
	assert.Equal(t, RefStateResolved, r.State)
	assert.NotNil(t, r.TargetID)
	assert.Equal(t, "target-1", *r.TargetID)
	assert.Equal(t, "java/util/List.html#size()", r.Anchor)
	assert.True(t, r.UpdatedAt.After(before), "UpdatedAt should advance")
}

func TestReferenceSettledStatesAreSticky(t *testing.T) {
	tests := []struct {
		name   string
		settle func(r *Reference) error
		state  string
	}{
		{"resolved", func(r *Reference) error { return r.Resolve("t", "a") }, RefStateResolved},
		{"unresolved", func(r *Reference) error { return r.MarkUnresolved() }, RefStateUnresolved},
		{"ambiguous", func(r *Reference) error { return r.MarkAmbiguous() }, RefStateAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reference{State: RefStatePending}
			assert.NoError(t, tt.settle(r))
			assert.Equal(t, tt.state, r.State)

			// Every further transition attempt is rejected.
			assert.ErrorIs(t, r.Resolve("other", "other"), ErrInvalidTransition)
			assert.ErrorIs(t, r.MarkUnresolved(), ErrInvalidTransition)
			assert.ErrorIs(t, r.MarkAmbiguous(), ErrInvalidTransition)
			assert.Equal(t, tt.state, r.State, "state must not change after settling")
		})
	}
}

func TestReferenceSetState(t *testing.T) {
	r := &Reference{State: RefStatePending}

	assert.NoError(t, r.SetState(RefStateAmbiguous))
	assert.Equal(t, RefStateAmbiguous, r.State)

	// Hydration may set any recognized state, including back to pending.
	assert.NoError(t, r.SetState(RefStatePending))
	assert.Equal(t, RefStatePending, r.State)

	assert.ErrorIs(t, r.SetState("dangling"), ErrInvalidState)
	assert.ErrorIs(t, r.SetState(""), ErrInvalidState)
}

func TestIsValidRefTag(t *testing.T) {
	for _, tag := range []string{RefTagSee, RefTagLink, RefTagLinkplain, RefTagValue, RefTagThrows} {
		assert.True(t, IsValidRefTag(tag), tag)
	}
	assert.False(t, IsValidRefTag("param"))
	assert.False(t, IsValidRefTag(""))
}
