package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache status",
	Long:  `Shows how many recipes are cached, when the cache was last replaced and where it lives.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := requireSync(); err != nil {
		return err
	}

	status, err := syncOrchestrator.Status(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("getting status: %w", err)
	}

	cmd.Printf("State:    %s\n", status.State)
	if status.Cache.Location != "" {
		cmd.Printf("Cache:    %s\n", status.Cache.Location)
	}
	cmd.Printf("Recipes:  %d\n", status.Cache.Count)
	cmd.Printf("Replaced: %s\n", formatReplacedAt(status.Cache))
	return nil
}

func formatReplacedAt(info domain.CacheInfo) string {
	if info.ReplacedAt.IsZero() {
		return "never"
	}
	ago := time.Since(info.ReplacedAt).Round(time.Second)
	return fmt.Sprintf("%s (%s ago)", info.ReplacedAt.Local().Format(time.DateTime), ago)
}
