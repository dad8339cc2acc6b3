package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

var errSettingsNotConfigured = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the provider, cache and sync settings.

Run without a subcommand to show the current settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Long: `Change a single setting. An empty VALUE clears optional settings.

Keys:
  provider.type      http, github or file
  provider.base_url  HTTP provider endpoint root
  provider.token     bearer or GitHub access token
  provider.path      file path (file) or path in the repository (github)
  provider.repo      owner/name (github)
  provider.ref       branch, tag or commit (github)
  provider.rate      requests per second, 0 disables throttling
  provider.timeout   per-request timeout, e.g. 30s
  cache.backend      sqlite or memory
  cache.dir          SQLite data directory
  sync.timeout       refresh fetch timeout, 0 disables it`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Set the provider token without echoing it",
	RunE:  runSettingsToken,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	p := settings.Provider
	cmd.Println("[Provider]")
	cmd.Printf("  Type: %s\n", p.Type.Description())
	switch p.Type {
	case domain.ProviderHTTP:
		cmd.Printf("  Base URL: %s\n", p.BaseURL)
		cmd.Printf("  Rate: %g requests/s\n", p.RequestsPerSecond)
	case domain.ProviderGitHub:
		cmd.Printf("  Repo: %s\n", p.Repo)
		cmd.Printf("  Path: %s\n", p.Path)
		cmd.Printf("  Ref: %s\n", valueOr(p.Ref, "(default branch)"))
	case domain.ProviderFile:
		cmd.Printf("  Path: %s\n", p.Path)
	}
	if p.Type != domain.ProviderFile {
		if p.Token != "" {
			cmd.Printf("  Token: %s\n", maskAPIKey(p.Token))
		} else {
			cmd.Printf("  Token: (not set)\n")
		}
		cmd.Printf("  Timeout: %s\n", p.Timeout)
	}
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Backend: %s\n", settings.Cache.Backend)
	if settings.Cache.Backend == domain.CacheSQLite {
		cmd.Printf("  Directory: %s\n", valueOr(settings.Cache.Dir, "(default)"))
	}
	cmd.Println()

	cmd.Println("[Sync]")
	if settings.Sync.RefreshTimeout > 0 {
		cmd.Printf("  Refresh timeout: %s\n", settings.Sync.RefreshTimeout)
	} else {
		cmd.Printf("  Refresh timeout: none\n")
	}
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if key == "provider.token" && value != "" {
		value = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, valueOr(value, "(cleared)"))
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	cmd.Print("Token: ")
	token := readPassword(cmd.InOrStdin())
	cmd.Println()

	if err := settingsService.Set("provider.token", token); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	if token == "" {
		cmd.Println("Token cleared.")
	} else {
		cmd.Println("Token saved.")
	}
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
