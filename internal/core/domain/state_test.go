package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateStatus_String(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "in_progress", StatusInProgress.String())
	assert.Equal(t, "succeeded", StatusSucceeded.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", StateStatus(99).String())
}

func TestOperationState_Constructors(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		s := IdleState()
		assert.Equal(t, StatusIdle, s.Status)
		assert.Empty(t, s.SessionID)
		assert.False(t, s.IsTerminal())
	})

	t.Run("in progress", func(t *testing.T) {
		s := InProgressState("s-1")
		assert.Equal(t, StatusInProgress, s.Status)
		assert.Equal(t, "s-1", s.SessionID)
		assert.False(t, s.IsTerminal())
	})

	t.Run("succeeded with nil recipes is empty not nil", func(t *testing.T) {
		s := SucceededState("s-1", nil)
		assert.Equal(t, StatusSucceeded, s.Status)
		assert.NotNil(t, s.Recipes)
		assert.Empty(t, s.Recipes)
		assert.True(t, s.IsTerminal())
	})

	t.Run("failed carries reason and no recipes", func(t *testing.T) {
		s := FailedState("s-1", ReasonRemoteFetchFailed)
		assert.Equal(t, StatusFailed, s.Status)
		assert.Equal(t, ReasonRemoteFetchFailed, s.Reason)
		assert.Nil(t, s.Recipes)
		assert.True(t, s.IsTerminal())
	})
}

func TestOperationState_String(t *testing.T) {
	assert.Equal(t, "idle", IdleState().String())
	assert.Equal(t, "in_progress", InProgressState("x").String())
	assert.Equal(t, "succeeded(2 recipes)", SucceededState("x", []Recipe{{ID: 1}, {ID: 2}}).String())
	assert.Equal(t, "failed(cache-unavailable)", FailedState("x", ReasonCacheUnavailable).String())
}

func TestFailureReason_Description(t *testing.T) {
	assert.Equal(t, "Refreshing recipes failed", ReasonRemoteFetchFailed.Description())
	assert.Equal(t, "Local recipe cache is unavailable", ReasonCacheUnavailable.Description())
	assert.Equal(t, "Unknown", FailureReason("other").Description())
}

func TestFailureReason_Err(t *testing.T) {
	assert.ErrorIs(t, ReasonRemoteFetchFailed.Err(), ErrRemoteFetch)
	assert.ErrorIs(t, ReasonCacheUnavailable.Err(), ErrCacheUnavailable)
	assert.Equal(t, ReasonCacheUnavailable, ReasonFor(ReasonCacheUnavailable.Err()))
}
