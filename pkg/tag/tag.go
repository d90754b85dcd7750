// Package tag defines task tags (lists), the fixed built-in set, and the
// registry that owns user-defined tags.
package tag

import (
	"regexp"
	"strings"
)

// Tag labels a task. Tasks hold a copy of the tag taken at assignment time.
type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

const (
	// PersonalName is the built-in personal tag.
	PersonalName = "Personal"
	// WorkName is the built-in work tag.
	WorkName = "Work"
	// DefaultName is the built-in tag orphaned tasks are reassigned to.
	DefaultName = "Default"

	// DefaultColor is used when a new tag is added without a color.
	DefaultColor = "tag-blue"
)

var builtIns = []Tag{
	{Name: PersonalName, Color: "tag-red"},
	{Name: WorkName, Color: "tag-blue"},
	{Name: DefaultName, Color: "tag-yellow"},
}

// BuiltIns returns the permanent tags in display order.
func BuiltIns() []Tag {
	out := make([]Tag, len(builtIns))
	copy(out, builtIns)
	return out
}

// Default returns the current value of the Default built-in tag.
func Default() Tag {
	return builtIns[2]
}

// IsBuiltIn reports whether name matches a built-in tag, ignoring case.
func IsBuiltIn(name string) bool {
	for _, t := range builtIns {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// Is reports whether the tag carries the given name, ignoring case.
func (t Tag) Is(name string) bool {
	return strings.EqualFold(t.Name, strings.TrimSpace(name))
}

// Slug returns the tag's URL form.
func (t Tag) Slug() string {
	return Slug(t.Name)
}

func (t Tag) String() string {
	return t.Name
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug lowercases name and replaces whitespace runs with a single hyphen.
func Slug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}

// FromSlug returns the name of the first tag in tags whose slug matches.
// Unknown slugs are returned unchanged so routed views always have a title.
func FromSlug(tags []Tag, slug string) string {
	want := strings.ToLower(slug)
	for _, t := range tags {
		if Slug(t.Name) == want {
			return t.Name
		}
	}
	return slug
}

// Find returns the tag in tags matching name, ignoring case.
func Find(tags []Tag, name string) (Tag, bool) {
	for _, t := range tags {
		if t.Is(name) {
			return t, true
		}
	}
	return Tag{}, false
}
