package tui

import (
	"github.com/charmbracelet/lipgloss"
	theme "github.com/goliatone/go-theme"
)

// Token keys the renderer looks up in a theme manifest.
const (
	tokenHeading = "color.heading"
	tokenAccent  = "color.accent"
	tokenMuted   = "color.muted"
	tokenError   = "color.error"
	tokenSuccess = "color.success"
)

// Theme holds the resolved terminal styles for one wizard run.
type Theme struct {
	Banner  lipgloss.Style
	Heading lipgloss.Style
	Help    lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// DefaultManifest is the built-in theme, with a dark variant that softens the
// accent colors.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "intake",
		Version: "1.0.0",
		Tokens: map[string]string{
			tokenHeading: "#7D56F4",
			tokenAccent:  "#04B575",
			tokenMuted:   "#626262",
			tokenError:   "#E84855",
			tokenSuccess: "#04B575",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					tokenHeading: "#A78BFA",
					tokenMuted:   "#9CA3AF",
				},
			},
		},
	}
}

// ResolveTheme merges the manifest's base tokens with the named variant and
// materializes lipgloss styles. Unknown variants fall back to the base
// tokens; missing tokens fall back to the defaults.
func ResolveTheme(manifest *theme.Manifest, variant string) Theme {
	tokens := map[string]string{}
	for key, value := range DefaultManifest().Tokens {
		tokens[key] = value
	}
	if manifest != nil {
		for key, value := range manifest.Tokens {
			tokens[key] = value
		}
		if v, ok := manifest.Variants[variant]; ok {
			for key, value := range v.Tokens {
				tokens[key] = value
			}
		}
	}
	return Theme{
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(tokens[tokenHeading])).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(tokens[tokenAccent])).
			Padding(0, 2),
		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tokens[tokenHeading])),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color(tokens[tokenMuted])),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tokens[tokenError])),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(tokens[tokenSuccess])),
	}
}
