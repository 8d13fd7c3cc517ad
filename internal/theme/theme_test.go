package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectEmptySettingsKeepsDefaults(t *testing.T) {
	tokens, unknown := Project(nil)
	assert.Equal(t, Defaults(), tokens)
	assert.Empty(t, unknown)
}

func TestProjectShallowMerge(t *testing.T) {
	tokens, unknown := Project(map[string]interface{}{
		"primaryColor": "#ff0000",
		"fontFamily":   "Playfair Display, serif",
	})

	assert.Empty(t, unknown)
	assert.Equal(t, "#ff0000", tokens.PrimaryColor)
	assert.Equal(t, "Playfair Display, serif", tokens.FontFamily)
	// Unspecified tokens keep their default value.
	assert.Equal(t, Defaults().BackgroundColor, tokens.BackgroundColor)
	assert.Equal(t, Defaults().BorderRadius, tokens.BorderRadius)
}

func TestProjectIgnoresUnknownTokens(t *testing.T) {
	tokens, unknown := Project(map[string]interface{}{
		"primaryColor":  "#00ff00",
		"glitterAmount": "maximum",
		"cursorStyle":   "pointer",
	})

	assert.ElementsMatch(t, []string{"glitterAmount", "cursorStyle"}, unknown)
	assert.Equal(t, "#00ff00", tokens.PrimaryColor)
}

func TestProjectSkipsNonStringValues(t *testing.T) {
	tokens, _ := Project(map[string]interface{}{
		"primaryColor": 42,
		"accentColor":  "",
	})

	assert.Equal(t, Defaults().PrimaryColor, tokens.PrimaryColor)
	assert.Equal(t, Defaults().AccentColor, tokens.AccentColor)
}

func TestRegistryFallsBackToDefaults(t *testing.T) {
	registry := NewRegistry(nil)
	assert.Equal(t, Defaults(), registry.Tokens("unknown-cafe"))
}

func TestRegistryApplyAndReplace(t *testing.T) {
	registry := NewRegistry(nil)

	registry.Apply("mikail-cafe", map[string]interface{}{"primaryColor": "#111111"})
	assert.Equal(t, "#111111", registry.Tokens("mikail-cafe").PrimaryColor)

	// A later apply without the token reverts it to the default: partial
	// payloads never leave stale values behind.
	registry.Apply("mikail-cafe", map[string]interface{}{"accentColor": "#222222"})
	assert.Equal(t, Defaults().PrimaryColor, registry.Tokens("mikail-cafe").PrimaryColor)
	assert.Equal(t, "#222222", registry.Tokens("mikail-cafe").AccentColor)
}
