package deps

import (
	"cmp"
	"fmt"
	"strings"
)

// Key identifies a package version.
// The zero value is not a valid key; Name and Version must both be set.
type Key struct {
	Name    string
	Version string
}

// String returns the display id "name-version".
func (k Key) String() string { return k.Name + "-" + k.Version }

// Label returns "name@version".
func (k Key) Label() string { return k.Name + "@" + k.Version }

// IsZero reports whether k has neither name nor version.
func (k Key) IsZero() bool { return k.Name == "" && k.Version == "" }

// Compare orders keys by name, then version.
func Compare(a, b Key) int {
	return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.Version, b.Version))
}

// ParseKey parses "name@version". A leading "@" belongs to the name, so scoped
// npm packages such as "@types/node@20.1.0" parse as expected.
func ParseKey(s string) (Key, error) {
	i := strings.LastIndex(s, "@")
	if i <= 0 || i == len(s)-1 {
		return Key{}, fmt.Errorf("invalid package key %q: want name@version", s)
	}
	return Key{Name: s[:i], Version: s[i+1:]}, nil
}
