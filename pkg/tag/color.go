package tag

import (
	"strings"

	"github.com/fatih/color"
)

var palette = map[string]color.Attribute{
	"tag-red":    color.FgRed,
	"tag-blue":   color.FgBlue,
	"tag-yellow": color.FgYellow,
	"tag-green":  color.FgGreen,
	"tag-purple": color.FgMagenta,
	"tag-pink":   color.FgHiMagenta,
	"tag-orange": color.FgHiYellow,
	"tag-teal":   color.FgCyan,
	"tag-gray":   color.FgHiBlack,
}

// Older data stored these names instead of palette tokens.
var legacy = map[string]string{
	"personal": "tag-red",
	"work":     "tag-blue",
	"default":  "tag-yellow",
}

// Palette returns the known color tokens.
func Palette() []string {
	return []string{
		"tag-red", "tag-blue", "tag-yellow", "tag-green", "tag-purple",
		"tag-pink", "tag-orange", "tag-teal", "tag-gray",
	}
}

// Token normalizes a stored color to a palette token. Literal colors that are
// neither tokens nor legacy names are returned as-is.
func Token(c string) string {
	c = strings.TrimSpace(c)
	if t, ok := legacy[strings.ToLower(c)]; ok {
		return t
	}
	return c
}

// Attribute maps the tag color to a terminal foreground color.
func (t Tag) Attribute() color.Attribute {
	if a, ok := palette[Token(t.Color)]; ok {
		return a
	}
	return color.FgWhite
}

// Colorize renders s in the tag's color.
func (t Tag) Colorize(s string) string {
	return color.New(t.Attribute()).Sprint(s)
}
