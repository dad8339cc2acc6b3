package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recipesync/internal/adapters/driving/tui"
)

func TestTUICmd_Use(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
	assert.Contains(t, tuiCmd.Long, "Refresh from the provider")
}

func TestTUICmd_RequiresSyncService(t *testing.T) {
	old := syncOrchestrator
	syncOrchestrator = nil
	defer func() { syncOrchestrator = old }()

	_, err := execute(t, "tui")

	require.Error(t, err)
	assert.ErrorIs(t, err, tui.ErrMissingSyncOrchestrator)
}
