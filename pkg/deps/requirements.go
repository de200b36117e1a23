package deps

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Requirement is one entry of a dependency mapping.
type Requirement struct {
	Name    string
	Version string
}

// Key returns the requirement's identity.
func (r Requirement) Key() Key { return Key{Name: r.Name, Version: r.Version} }

// Requirements is an insertion-ordered mapping from dependency name to
// version string. A nil *Requirements is valid and empty.
type Requirements struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewRequirements returns a mapping holding reqs in order. A repeated name
// keeps its first position and takes the last version.
func NewRequirements(reqs ...Requirement) *Requirements {
	r := &Requirements{m: orderedmap.New[string, string]()}
	for _, req := range reqs {
		r.m.Set(req.Name, req.Version)
	}
	return r
}

// Requires is shorthand for NewRequirements over name/version pairs:
//
//	deps.Requires("object-assign", "4.1.1", "loose-envify", "1.4.0")
//
// It panics on an odd number of arguments.
func Requires(pairs ...string) *Requirements {
	if len(pairs)%2 != 0 {
		panic("deps.Requires: odd number of arguments")
	}
	r := NewRequirements()
	for i := 0; i < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Set adds or updates a dependency. Updating keeps the original position.
func (r *Requirements) Set(name, version string) {
	if r.m == nil {
		r.m = orderedmap.New[string, string]()
	}
	r.m.Set(name, version)
}

// Get returns the version required for name.
func (r *Requirements) Get(name string) (string, bool) {
	if r == nil || r.m == nil {
		return "", false
	}
	return r.m.Get(name)
}

// Len returns the number of dependencies.
func (r *Requirements) Len() int {
	if r == nil || r.m == nil {
		return 0
	}
	return r.m.Len()
}

// All returns the dependencies in insertion order.
func (r *Requirements) All() []Requirement {
	if r == nil || r.m == nil {
		return nil
	}
	out := make([]Requirement, 0, r.m.Len())
	for p := r.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, Requirement{Name: p.Key, Version: p.Value})
	}
	return out
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (r *Requirements) MarshalJSON() ([]byte, error) {
	if r == nil || r.m == nil {
		return []byte("{}"), nil
	}
	return r.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping the order of its members.
func (r *Requirements) UnmarshalJSON(data []byte) error {
	r.m = orderedmap.New[string, string]()
	return r.m.UnmarshalJSON(data)
}

// MarshalYAML encodes the mapping as a YAML mapping in insertion order.
func (r *Requirements) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, req := range r.All() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: req.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: req.Version},
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping, keeping the order of its keys.
// Unquoted numeric versions such as 2.0 are read as their literal text.
func (r *Requirements) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: dependencies must be a mapping", node.Line)
	}
	r.m = orderedmap.New[string, string]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: dependency entries must be name: version", k.Line)
		}
		r.m.Set(k.Value, v.Value)
	}
	return nil
}
