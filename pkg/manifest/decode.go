// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const nullTag = "!!null"

type pair struct {
	key   string
	value *yaml.Node
}

// UnmarshalYAML keeps the scalar's source text. A null scalar leaves the field absent.
func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.Tag == nullTag {
		*t = Text{}
		return nil
	}
	v, err := scalarValue(node, "value")
	if err != nil {
		return err
	}
	*t = Some(v)
	return nil
}

// UnmarshalYAML decodes the name as written. Validation happens after decoding.
func (n *PackageName) UnmarshalYAML(node *yaml.Node) error {
	v, err := scalarValue(resolveAlias(node), "name")
	if err != nil {
		return err
	}
	*n = PackageName(v)
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == nullTag {
			*l = nil
			return nil
		}
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		out := make(StringList, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := scalarValue(resolveAlias(item), "list item")
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// UnmarshalYAML decodes {git: url, branch: name}.
func (s *SourceRef) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := mappingPairs(node, "source")
	if err != nil {
		return err
	}
	var out SourceRef
	for _, p := range pairs {
		v, err := scalarValue(p.value, p.key)
		if err != nil {
			return err
		}
		switch p.key {
		case "git":
			out.Git = v
		case "branch":
			out.Branch = v
		default:
			return fmt.Errorf("line %d: unknown source field %q", p.value.Line, p.key)
		}
	}
	*s = out
	return nil
}

// UnmarshalYAML decodes {provides: name} or {conflicts: name}.
func (r *Relationship) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := mappingPairs(node, "relationship")
	if err != nil {
		return err
	}
	var out Relationship
	for _, p := range pairs {
		v, err := scalarValue(p.value, p.key)
		if err != nil {
			return err
		}
		if out.Role == "" {
			out.Role, out.Name = RelationshipRole(p.key), v
			continue
		}
		out.extra = append(out.extra, p.key)
	}
	*r = out
	return nil
}

// UnmarshalYAML decodes per package manager names plus the build and required flags.
func (d *Dependency) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := mappingPairs(node, "dependency")
	if err != nil {
		return err
	}
	out := Dependency{Names: make(map[PackageManagerKey]string, len(pairs))}
	for _, p := range pairs {
		switch p.key {
		case "build", "required":
			var b bool
			if err := p.value.Decode(&b); err != nil {
				return fmt.Errorf("line %d: %s must be true or false", p.value.Line, p.key)
			}
			if p.key == "build" {
				out.Build = &b
			} else {
				out.Required = &b
			}
		default:
			key := PackageManagerKey(p.key)
			if key.Validate() != nil {
				out.unknown = append(out.unknown, p.key)
				continue
			}
			v, err := scalarValue(p.value, p.key)
			if err != nil {
				return err
			}
			out.Names[key] = v
		}
	}
	*d = out
	return nil
}

// UnmarshalYAML decodes {<source>: <destination>, chmod: mode, chown: owner}.
func (m *Movement) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := mappingPairs(node, "movement")
	if err != nil {
		return err
	}
	var out Movement
	seen := false
	for _, p := range pairs {
		v, err := scalarValue(p.value, p.key)
		if err != nil {
			return err
		}
		switch p.key {
		case "chmod":
			out.Mode = FileMode(v)
		case "chown":
			out.Owner = Owner(v)
		default:
			if seen {
				out.extra = append(out.extra, p.key)
				continue
			}
			out.Source, out.Destination, seen = p.key, v, true
		}
	}
	*m = out
	return nil
}

// UnmarshalYAML decodes {<hook>: <path>}.
func (s *ScriptRef) UnmarshalYAML(node *yaml.Node) error {
	pairs, err := mappingPairs(node, "script")
	if err != nil {
		return err
	}
	var out ScriptRef
	for _, p := range pairs {
		v, err := scalarValue(p.value, p.key)
		if err != nil {
			return err
		}
		if out.Hook == "" {
			out.Hook, out.Path = HookName(p.key), v
			continue
		}
		out.extra = append(out.extra, p.key)
	}
	*s = out
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func scalarValue(node *yaml.Node, field string) (string, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: %s must be a single value", node.Line, field)
	}
	return node.Value, nil
}

func mappingPairs(node *yaml.Node, what string) ([]pair, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: each %s must be a mapping", node.Line, what)
	}
	pairs := make([]pair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, pair{key: node.Content[i].Value, value: node.Content[i+1]})
	}
	return pairs, nil
}
