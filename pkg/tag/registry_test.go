package tag

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	tags  []Tag
	saves int
	err   error
}

func (m *memoryStore) LoadTags(context.Context) []Tag {
	return append([]Tag(nil), m.tags...)
}

func (m *memoryStore) SaveTags(_ context.Context, tags []Tag) error {
	m.saves++
	if m.err != nil {
		return m.err
	}
	m.tags = append([]Tag(nil), tags...)
	return nil
}

func TestListOrdersBuiltInsFirst(t *testing.T) {
	ms := &memoryStore{tags: []Tag{{Name: "Errands", Color: "tag-green"}, {Name: "Books", Color: "tag-red"}}}
	r := NewRegistry(context.Background(), ms, nil)

	got := r.List()
	names := make([]string, 0, len(got))
	for _, tg := range got {
		names = append(names, tg.Name)
	}
	assert.Equal(t, []string{"Personal", "Work", "Default", "Errands", "Books"}, names)
}

func TestReloadSkipsPersistedBuiltIns(t *testing.T) {
	ms := &memoryStore{tags: []Tag{{Name: "work", Color: "tag-green"}, {Name: " "}, {Name: "Gym", Color: "tag-teal"}}}
	r := NewRegistry(context.Background(), ms, nil)
	assert.Equal(t, []Tag{{Name: "Gym", Color: "tag-teal"}}, r.Custom())
}

func TestReloadDropsCaseDuplicates(t *testing.T) {
	var logs bytes.Buffer
	ms := &memoryStore{tags: []Tag{
		{Name: "Home", Color: "tag-green"},
		{Name: "home", Color: "tag-red"},
		{Name: "Gym", Color: "tag-teal"},
		{Name: "HOME", Color: "tag-blue"},
	}}
	r := NewRegistry(context.Background(), ms, log.New(&logs, "", 0))

	assert.Equal(t, []Tag{{Name: "Home", Color: "tag-green"}, {Name: "Gym", Color: "tag-teal"}}, r.Custom())
	assert.Equal(t, 2, strings.Count(logs.String(), "dropping stored tag"))

	_, err := r.Add(context.Background(), "hOmE", "")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestAddRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	ms := &memoryStore{}
	r := NewRegistry(ctx, ms, nil)

	_, err := r.Add(ctx, "Groceries", "tag-green")
	require.NoError(t, err)
	before := r.List()

	for _, name := range []string{"Work", "work", "WORK", "groceries", "  Groceries  "} {
		_, err := r.Add(ctx, name, "tag-blue")
		assert.ErrorIs(t, err, ErrDuplicateName, name)
	}
	assert.Equal(t, before, r.List())
	assert.Equal(t, 1, ms.saves)
}

func TestAddDefaultsColorAndTrims(t *testing.T) {
	ctx := context.Background()
	ms := &memoryStore{}
	r := NewRegistry(ctx, ms, nil)

	got, err := r.Add(ctx, "  Home Projects ", "")
	require.NoError(t, err)
	assert.Equal(t, Tag{Name: "Home Projects", Color: DefaultColor}, got)
	assert.Equal(t, []Tag{got}, ms.tags)

	_, err = r.Add(ctx, "   ", "tag-red")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	ms := &memoryStore{tags: []Tag{{Name: "A", Color: "tag-red"}, {Name: "B", Color: "tag-blue"}}}
	r := NewRegistry(ctx, ms, nil)

	removed, err := r.Remove(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", removed.Name)
	assert.Equal(t, []Tag{{Name: "B", Color: "tag-blue"}}, ms.tags)

	_, err = r.Remove(ctx, "A")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, name := range []string{"Personal", "work", "Default"} {
		_, err := r.Remove(ctx, name)
		assert.ErrorIs(t, err, ErrProtected, name)
	}
	assert.Len(t, r.List(), 4)
}

func TestSaveFailureIsLoggedAndKept(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	ms := &memoryStore{err: errors.New("quota exceeded")}
	r := NewRegistry(ctx, ms, log.New(&buf, "", 0))

	_, err := r.Add(ctx, "Later", "tag-gray")
	require.NoError(t, err)
	_, ok := r.Lookup("later")
	assert.True(t, ok)
	assert.True(t, strings.Contains(buf.String(), "quota exceeded"), buf.String())
	assert.Empty(t, ms.tags)
	assert.EqualError(t, r.SaveErr(), "quota exceeded")

	ms.err = nil
	_, err = r.Add(ctx, "Sooner", "")
	require.NoError(t, err)
	assert.NoError(t, r.SaveErr())
	assert.Len(t, ms.tags, 2)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Home Projects":    "home-projects",
		"Work":             "work",
		"a  b\tc":          "a-b-c",
		"Already-slugged":  "already-slugged",
		"Trailing Space  ": "trailing-space-",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestFromSlugRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(ctx, &memoryStore{tags: []Tag{{Name: "Home Projects", Color: "tag-teal"}}}, nil)

	slug := Slug("Home Projects")
	assert.Equal(t, "home-projects", slug)
	assert.Equal(t, "Home Projects", r.FromSlug(slug))
	assert.Equal(t, "Personal", r.FromSlug("PERSONAL"))
	assert.Equal(t, "no-such-list", r.FromSlug("no-such-list"))
}

func TestColorTokens(t *testing.T) {
	assert.Equal(t, "tag-red", Token("personal"))
	assert.Equal(t, "tag-yellow", Token("Default"))
	assert.Equal(t, "#ff0000", Token("#ff0000"))
	assert.Equal(t, Tag{Name: "x", Color: "tag-red"}.Attribute(), Tag{Name: "y", Color: "personal"}.Attribute())
}
