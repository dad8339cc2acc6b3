// Package list provides the recipe list component for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/recipesync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recipesync/internal/core/domain"
)

// RecipeList displays recipes in a navigable list. The selected recipe
// can be expanded to show its details.
type RecipeList struct {
	recipes  []domain.Recipe
	selected int
	expanded bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecipeList creates a new recipe list component.
func NewRecipeList(s *styles.Styles) *RecipeList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecipeList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// Init initialises the recipe list.
func (r *RecipeList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecipeList) Update(msg tea.Msg) (*RecipeList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "enter":
			r.ToggleDetails()
		}
	}
	return r, nil
}

// View renders the recipe list.
func (r *RecipeList) View() string {
	if len(r.recipes) == 0 {
		return r.styles.Muted.Render("No recipes. Press r to refresh from the provider.")
	}

	visible := r.visibleCount()
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.recipes) {
		end = len(r.recipes)
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, &r.recipes[i]))
		if i == r.selected && r.expanded {
			lines = append(lines, r.renderDetails(&r.recipes[i]))
		}
	}
	return strings.Join(lines, "\n")
}

// visibleCount is how many rows fit, leaving room for expanded details.
func (r *RecipeList) visibleCount() int {
	h := r.height
	if r.expanded {
		h -= detailsHeight
	}
	if h < 1 {
		return 1
	}
	return h
}

const detailsHeight = 8

func (r *RecipeList) renderRow(index int, recipe *domain.Recipe) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	nameWidth := r.width - 32
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := truncate(recipe.Name, nameWidth)
	if name == "" {
		name = "(Untitled)"
	}

	row := fmt.Sprintf("%s%-*s  %-14s ", indicator, nameWidth, name, truncate(recipe.Cuisine, 14))
	difficulty := r.styles.Difficulty(recipe.Difficulty).Render(recipe.Difficulty)
	if index == r.selected {
		return r.styles.Selected.Render(row) + " " + difficulty
	}
	return r.styles.Normal.Render(row) + " " + difficulty
}

func (r *RecipeList) renderDetails(recipe *domain.Recipe) string {
	field := func(label, value string) string {
		return r.styles.Label.Render(label) + r.styles.Normal.Render(value)
	}

	lines := []string{
		field("Time", fmt.Sprintf("%d min prep, %d min cook", recipe.PrepTimeMinutes, recipe.CookTimeMinutes)),
		field("Ingredients", summarise(recipe.Ingredients, r.width-20)),
		field("Steps", fmt.Sprintf("%d", len(recipe.Instructions))),
	}
	if len(recipe.Tags) > 0 {
		lines = append(lines, field("Tags", strings.Join(recipe.Tags, ", ")))
	}
	if len(recipe.Instructions) > 0 {
		lines = append(lines, field("First step", truncate(recipe.Instructions[0], r.width-20)))
	}
	return r.styles.Border.Render(strings.Join(lines, "\n"))
}

func summarise(items []string, width int) string {
	if len(items) == 0 {
		return "-"
	}
	return truncate(strings.Join(items, ", "), width)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width < 4 || len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// SetRecipes replaces the list contents. The selection is kept when the
// previously selected recipe is still present.
func (r *RecipeList) SetRecipes(recipes []domain.Recipe) {
	var selectedID int64
	hadSelection := false
	if sel := r.SelectedRecipe(); sel != nil {
		selectedID, hadSelection = sel.ID, true
	}

	r.recipes = recipes
	r.selected = 0
	if !hadSelection {
		r.expanded = false
		return
	}
	for i := range recipes {
		if recipes[i].ID == selectedID {
			r.selected = i
			return
		}
	}
	r.expanded = false
}

// Recipes returns the current recipes.
func (r *RecipeList) Recipes() []domain.Recipe {
	return r.recipes
}

// Selected returns the index of the selected recipe.
func (r *RecipeList) Selected() int {
	return r.selected
}

// SelectedRecipe returns the selected recipe, or nil if the list is empty.
func (r *RecipeList) SelectedRecipe() *domain.Recipe {
	if len(r.recipes) == 0 || r.selected < 0 || r.selected >= len(r.recipes) {
		return nil
	}
	return &r.recipes[r.selected]
}

// MoveUp moves selection up.
func (r *RecipeList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecipeList) MoveDown() {
	if r.selected < len(r.recipes)-1 {
		r.selected++
	}
}

// ToggleDetails expands or collapses the selected recipe.
func (r *RecipeList) ToggleDetails() {
	if len(r.recipes) == 0 {
		r.expanded = false
		return
	}
	r.expanded = !r.expanded
}

// CollapseDetails hides the details of the selected recipe.
func (r *RecipeList) CollapseDetails() {
	r.expanded = false
}

// Expanded reports whether details are shown.
func (r *RecipeList) Expanded() bool {
	return r.expanded
}

// SetDimensions sets the component dimensions.
func (r *RecipeList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of recipes.
func (r *RecipeList) Count() int {
	return len(r.recipes)
}

// IsEmpty returns whether the list is empty.
func (r *RecipeList) IsEmpty() bool {
	return len(r.recipes) == 0
}
