package apidoc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// UngroupedKey is the group key used for endpoints without a tag.
const UngroupedKey = "ungrouped"

// Group is a named bucket of endpoints derived from a tag.
type Group struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// NewGroup derives a group from a tag: "@user_management" has key
// "user_management" and name "User management".
func NewGroup(tag string) *Group {
	key := strings.ReplaceAll(tag, "@", "")
	return &Group{Key: key, Name: capitalize(strings.ReplaceAll(key, "_", " "))}
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// GroupRegistry memoizes groups by tag so the same tag always yields the
// same *Group. A registry lives for one generation run.
type GroupRegistry struct {
	groups map[string]*Group
}

// NewGroupRegistry creates an empty registry.
func NewGroupRegistry() *GroupRegistry {
	return &GroupRegistry{groups: make(map[string]*Group)}
}

// ForTag returns the group for tag, creating it on first use.
func (r *GroupRegistry) ForTag(tag string) *Group {
	if g, ok := r.groups[tag]; ok {
		return g
	}
	g := NewGroup(tag)
	r.groups[tag] = g
	return g
}
