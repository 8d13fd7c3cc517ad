// Package theme projects a tenant's open-ended theme settings mapping onto
// the fixed token table the storefront styles itself with.
package theme

import (
	"sync"

	"go.uber.org/zap"
)

// Tokens is the full set of recognized style tokens with concrete values.
type Tokens struct {
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	AccentColor     string `json:"accent_color"`
	BackgroundColor string `json:"background_color"`
	SurfaceColor    string `json:"surface_color"`
	TextColor       string `json:"text_color"`
	MutedTextColor  string `json:"muted_text_color"`
	FontFamily      string `json:"font_family"`
	HeadingFont     string `json:"heading_font"`
	BorderRadius    string `json:"border_radius"`
	LogoURL         string `json:"logo_url"`
}

// Defaults returns the built-in token set used before a tenant theme loads
// and for every token the tenant leaves unspecified.
func Defaults() Tokens {
	return Tokens{
		PrimaryColor:    "#1f2937",
		SecondaryColor:  "#6b7280",
		AccentColor:     "#f59e0b",
		BackgroundColor: "#ffffff",
		SurfaceColor:    "#f9fafb",
		TextColor:       "#111827",
		MutedTextColor:  "#9ca3af",
		FontFamily:      "Inter, sans-serif",
		HeadingFont:     "Inter, sans-serif",
		BorderRadius:    "12px",
		LogoURL:         "",
	}
}

// Project shallow-merges the settings mapping over the defaults. Unspecified
// tokens keep their default value; unrecognized token names are returned so
// the caller can log them, and otherwise ignored.
func Project(settings map[string]interface{}) (Tokens, []string) {
	tokens := Defaults()
	var unknown []string

	for name, value := range settings {
		str, ok := value.(string)
		if !ok || str == "" {
			continue
		}
		switch name {
		case "primaryColor":
			tokens.PrimaryColor = str
		case "secondaryColor":
			tokens.SecondaryColor = str
		case "accentColor":
			tokens.AccentColor = str
		case "backgroundColor":
			tokens.BackgroundColor = str
		case "surfaceColor":
			tokens.SurfaceColor = str
		case "textColor":
			tokens.TextColor = str
		case "mutedTextColor":
			tokens.MutedTextColor = str
		case "fontFamily":
			tokens.FontFamily = str
		case "headingFont":
			tokens.HeadingFont = str
		case "borderRadius":
			tokens.BorderRadius = str
		case "logoUrl":
			tokens.LogoURL = str
		default:
			unknown = append(unknown, name)
		}
	}

	return tokens, unknown
}

// Registry keeps the current projected token set per tenant slug. The store
// wiring refreshes it whenever a business record changes after loading.
type Registry struct {
	log *zap.Logger

	mu     sync.RWMutex
	tokens map[string]Tokens
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log, tokens: make(map[string]Tokens)}
}

// Apply projects settings for slug and stores the result.
func (r *Registry) Apply(slug string, settings map[string]interface{}) {
	tokens, unknown := Project(settings)
	if len(unknown) > 0 {
		r.log.Debug("ignoring unknown theme tokens",
			zap.String("slug", slug), zap.Strings("tokens", unknown))
	}

	r.mu.Lock()
	r.tokens[slug] = tokens
	r.mu.Unlock()
}

// Tokens returns the current token set for slug, defaults when the tenant's
// theme has not been applied yet.
func (r *Registry) Tokens(slug string) Tokens {
	r.mu.RLock()
	tokens, ok := r.tokens[slug]
	r.mu.RUnlock()
	if !ok {
		return Defaults()
	}
	return tokens
}
