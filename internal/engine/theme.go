package engine

import "github.com/geonotify/notify-backend/internal/models"

// DefaultTheme returns the token set applied when a template configures
// nothing.
func DefaultTheme() models.Theme {
	return models.Theme{
		PrimaryColor:      "#1f6feb",
		SecondaryColor:    "#f6f8fa",
		AccentColor:       "#2da44e",
		TextColor:         "#1f2328",
		MutedTextColor:    "#656d76",
		BackgroundColor:   "#ffffff",
		BorderColor:       "#d0d7de",
		FontFamily:        "Arial, Helvetica, sans-serif",
		FontSize:          "14px",
		HeaderFontSize:    "24px",
		SubHeaderFontSize: "18px",
		BorderRadius:      "6px",
	}
}

// MergeTheme overlays configured tokens on the defaults so every token is
// set at render time.
func MergeTheme(theme models.Theme) models.Theme {
	merged := DefaultTheme()
	if theme.PrimaryColor != "" {
		merged.PrimaryColor = theme.PrimaryColor
	}
	if theme.SecondaryColor != "" {
		merged.SecondaryColor = theme.SecondaryColor
	}
	if theme.AccentColor != "" {
		merged.AccentColor = theme.AccentColor
	}
	if theme.TextColor != "" {
		merged.TextColor = theme.TextColor
	}
	if theme.MutedTextColor != "" {
		merged.MutedTextColor = theme.MutedTextColor
	}
	if theme.BackgroundColor != "" {
		merged.BackgroundColor = theme.BackgroundColor
	}
	if theme.BorderColor != "" {
		merged.BorderColor = theme.BorderColor
	}
	if theme.FontFamily != "" {
		merged.FontFamily = theme.FontFamily
	}
	if theme.FontSize != "" {
		merged.FontSize = theme.FontSize
	}
	if theme.HeaderFontSize != "" {
		merged.HeaderFontSize = theme.HeaderFontSize
	}
	if theme.SubHeaderFontSize != "" {
		merged.SubHeaderFontSize = theme.SubHeaderFontSize
	}
	if theme.BorderRadius != "" {
		merged.BorderRadius = theme.BorderRadius
	}
	return merged
}
