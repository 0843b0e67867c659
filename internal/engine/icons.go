package engine

import (
	"fmt"

	"github.com/geonotify/notify-backend/internal/models"
)

// iconRegistry is the static name→path table for the icon and row elements.
// Paths are 24×24 viewBox outlines. Cosmetic only; nothing in the data
// pipeline depends on this table.
var iconRegistry = map[string]string{
	"alert":    "M12 2 1 21h22L12 2zm0 6 7.5 13h-15L12 8zm-1 4v4h2v-4h-2zm0 5v2h2v-2h-2z",
	"bell":     "M12 22a2 2 0 0 0 2-2h-4a2 2 0 0 0 2 2zm6-6V11a6 6 0 0 0-5-5.9V4a1 1 0 1 0-2 0v1.1A6 6 0 0 0 6 11v5l-2 2v1h16v-1l-2-2z",
	"calendar": "M19 4h-1V2h-2v2H8V2H6v2H5a2 2 0 0 0-2 2v14a2 2 0 0 0 2 2h14a2 2 0 0 0 2-2V6a2 2 0 0 0-2-2zm0 16H5V10h14v10zM5 8V6h14v2H5z",
	"chart":    "M4 20V10h3v10H4zm6.5 0V4h3v16h-3zM17 20v-7h3v7h-3z",
	"check":    "M9 16.2 4.8 12l-1.4 1.4L9 19 21 7l-1.4-1.4L9 16.2z",
	"clock":    "M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20zm0 18a8 8 0 1 1 0-16 8 8 0 0 1 0 16zm.5-13H11v6l5.2 3.1.8-1.2-4.5-2.7V7z",
	"info":     "M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20zm1 15h-2v-6h2v6zm0-8h-2V7h2v2z",
	"mail":     "M20 4H4a2 2 0 0 0-2 2v12a2 2 0 0 0 2 2h16a2 2 0 0 0 2-2V6a2 2 0 0 0-2-2zm0 4-8 5-8-5V6l8 5 8-5v2z",
	"map-pin":  "M12 2a7 7 0 0 0-7 7c0 5.2 7 13 7 13s7-7.8 7-13a7 7 0 0 0-7-7zm0 9.5A2.5 2.5 0 1 1 12 6.5a2.5 2.5 0 0 1 0 5z",
	"star":     "m12 17.3 6.2 3.7-1.6-7L22 9.2l-7.2-.6L12 2 9.2 8.6 2 9.2l5.4 4.8-1.6 7z",
	"user":     "M12 12a5 5 0 1 0 0-10 5 5 0 0 0 0 10zm0 2c-3.3 0-10 1.7-10 5v3h20v-3c0-3.3-6.7-5-10-5z",
	"warning":  "M1 21h22L12 2 1 21zm12-3h-2v-2h2v2zm0-4h-2v-4h2v4z",
}

const fallbackIcon = "info"

// RenderIcon renders a named registry icon as inline SVG at the given pixel
// size. Unknown names render the fallback rather than nothing, so a typo in
// configuration stays visible in the preview.
func RenderIcon(name string, size int, color string, theme models.Theme) string {
	if size <= 0 {
		size = 24
	}
	if color == "" {
		color = theme.PrimaryColor
	}
	path, ok := iconRegistry[name]
	if !ok {
		path = iconRegistry[fallbackIcon]
	}
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 24 24"><path d="%s" fill="%s"/></svg>`,
		size, size, path, color)
}

// KnownIcon reports whether a name exists in the registry, for validation.
func KnownIcon(name string) bool {
	_, ok := iconRegistry[name]
	return ok
}
