package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider/dto"
	"github.com/custodia-labs/recipesync/internal/adapters/driving/operation"
	"github.com/custodia-labs/recipesync/internal/core/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached recipes",
	Long: `Lists the recipes held in the local cache without contacting the provider.
Use --json to print them in the same format the HTTP provider accepts.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().Bool("json", false, "print recipes as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := requireSync(); err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("getting json flag: %w", err)
	}

	state, err := operation.Run(commandContext(cmd), syncOrchestrator, syncOrchestrator.LoadCached, nil)
	if err != nil {
		return err
	}
	if state.Status == domain.StatusFailed {
		return fmt.Errorf("loading cache: %w", state.Reason.Err())
	}

	if asJSON {
		return dto.Encode(cmd.OutOrStdout(), state.Recipes)
	}

	if len(state.Recipes) == 0 {
		cmd.Println("No cached recipes. Run 'recipesync refresh' to fetch them.")
		return nil
	}

	cmd.Println(recipeTable(state.Recipes))
	cmd.Printf("%d recipes\n", len(state.Recipes))
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func recipeTable(recipes []domain.Recipe) string {
	rows := make([][]string, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Cuisine,
			r.Difficulty,
			formatMinutes(r.TotalMinutes()),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CUISINE", "DIFFICULTY", "TIME").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
