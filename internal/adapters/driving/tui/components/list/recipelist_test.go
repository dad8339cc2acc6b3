package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

func testRecipes() []domain.Recipe {
	return []domain.Recipe{
		{ID: 1, Name: "Margherita Pizza", Cuisine: "Italian", Difficulty: "Easy",
			Ingredients: []string{"Dough", "Tomato", "Mozzarella"}, Instructions: []string{"Bake it."},
			Tags: []string{"Pizza"}, PrepTimeMinutes: 20, CookTimeMinutes: 15},
		{ID: 2, Name: "Chicken Biryani", Cuisine: "Pakistani", Difficulty: "Medium"},
		{ID: 3, Name: "Beef Wellington", Cuisine: "British", Difficulty: "Hard"},
	}
}

func TestNewRecipeList(t *testing.T) {
	l := NewRecipeList(nil)

	require.NotNil(t, l)
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedRecipe())
	assert.Nil(t, l.Init())
}

func TestRecipeList_View_Empty(t *testing.T) {
	l := NewRecipeList(nil)

	assert.Contains(t, l.View(), "No recipes")
}

func TestRecipeList_View_ShowsListFields(t *testing.T) {
	l := NewRecipeList(nil)
	l.SetRecipes(testRecipes())

	view := l.View()

	assert.Contains(t, view, "Margherita Pizza")
	assert.Contains(t, view, "Pakistani")
	assert.Contains(t, view, "Hard")
	assert.Contains(t, view, "> Margherita Pizza")
}

func TestRecipeList_Navigation(t *testing.T) {
	l := NewRecipeList(nil)
	l.SetRecipes(testRecipes())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 2, l.Selected())

	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 1, l.Selected())
	assert.Equal(t, int64(2), l.SelectedRecipe().ID)
}

func TestRecipeList_ToggleDetails(t *testing.T) {
	l := NewRecipeList(nil)
	l.SetRecipes(testRecipes())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.True(t, l.Expanded())
	view := l.View()
	assert.Contains(t, view, "20 min prep, 15 min cook")
	assert.Contains(t, view, "Dough, Tomato, Mozzarella")
	assert.Contains(t, view, "Bake it.")

	l.ToggleDetails()
	assert.False(t, l.Expanded())
}

func TestRecipeList_ToggleDetails_EmptyList(t *testing.T) {
	l := NewRecipeList(nil)

	l.ToggleDetails()

	assert.False(t, l.Expanded())
}

func TestRecipeList_SetRecipes_KeepsSelection(t *testing.T) {
	l := NewRecipeList(nil)
	l.SetRecipes(testRecipes())
	l.MoveDown()
	l.MoveDown()
	l.ToggleDetails()

	reordered := []domain.Recipe{testRecipes()[2], testRecipes()[0]}
	l.SetRecipes(reordered)

	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, int64(3), l.SelectedRecipe().ID)
	assert.True(t, l.Expanded())
}

func TestRecipeList_SetRecipes_SelectionGone(t *testing.T) {
	l := NewRecipeList(nil)
	l.SetRecipes(testRecipes())
	l.MoveDown()
	l.ToggleDetails()

	l.SetRecipes([]domain.Recipe{{ID: 9, Name: "Other"}})

	assert.Equal(t, 0, l.Selected())
	assert.False(t, l.Expanded())
}

func TestRecipeList_View_ScrollsToSelection(t *testing.T) {
	l := NewRecipeList(nil)
	l.SetDimensions(80, 2)
	l.SetRecipes(testRecipes())
	l.MoveDown()
	l.MoveDown()

	view := l.View()

	assert.NotContains(t, view, "Margherita Pizza")
	assert.Contains(t, view, "Beef Wellington")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "tiny", truncate("tiny", 2))
}
