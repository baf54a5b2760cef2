// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cuelang.org/go/cue/literal"
	"gopkg.in/yaml.v3"
)

// GenerateYAML renders m as a YAML manifest that ParseBytes reads back into
// an equal Manifest. Absent fields and empty lists are omitted.
func GenerateYAML(m *Manifest) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	addScalar := func(key string, t Text) {
		if t.IsSet() {
			root.Content = append(root.Content, keyNode(key), textNode(t.String()))
		}
	}
	addList := func(key string, items []*yaml.Node) {
		if len(items) > 0 {
			root.Content = append(root.Content, keyNode(key), &yaml.Node{Kind: yaml.SequenceNode, Content: items})
		}
	}

	addScalar("name", Some(string(m.Name)))
	for _, f := range m.scalarFields() {
		addScalar(f.key, f.value)
	}
	switch len(m.License) {
	case 0:
	case 1:
		addScalar("license", Some(m.License[0]))
	default:
		items := make([]*yaml.Node, 0, len(m.License))
		for _, l := range m.License {
			items = append(items, textNode(l))
		}
		addList("license", items)
	}

	addList("sources", mapItems(m.Sources, func(s SourceRef) []string {
		kv := []string{"git", s.Git}
		if s.Branch != "" {
			kv = append(kv, "branch", s.Branch)
		}
		return kv
	}))
	addList("relationships", mapItems(m.Relationships, func(r Relationship) []string {
		return []string{string(r.Role), r.Name}
	}))
	addList("dependencies", dependencyNodes(m.Dependencies))
	addList("movements", mapItems(m.Movements, func(mv Movement) []string {
		kv := []string{mv.Source, mv.Destination}
		if mv.Owner != "" {
			kv = append(kv, "chown", string(mv.Owner))
		}
		if mv.Mode != "" {
			kv = append(kv, "chmod", string(mv.Mode))
		}
		return kv
	}))
	addList("scripts", mapItems(m.Scripts, func(s ScriptRef) []string {
		return []string{string(s.Hook), s.Path}
	}))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateCUE renders m as a CUE manifest. Scalars are always written as
// strings so that version numbers keep their exact text.
func GenerateCUE(m *Manifest) string {
	var sb strings.Builder
	sb.WriteString("// lazypkg package manifest\n\n")
	fmt.Fprintf(&sb, "name: %s\n", quoteCUE(string(m.Name)))
	for _, f := range m.scalarFields() {
		if f.value.IsSet() {
			fmt.Fprintf(&sb, "%s: %s\n", f.key, quoteCUE(f.value.String()))
		}
	}
	if len(m.License) > 0 {
		quoted := make([]string, len(m.License))
		for i, l := range m.License {
			quoted[i] = quoteCUE(l)
		}
		fmt.Fprintf(&sb, "license: [%s]\n", strings.Join(quoted, ", "))
	}

	writeList := func(key string, rows [][]string) {
		if len(rows) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n%s: [\n", key)
		for _, kv := range rows {
			fields := make([]string, 0, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				fields = append(fields, cueLabel(kv[i])+": "+kv[i+1])
			}
			fmt.Fprintf(&sb, "\t{%s},\n", strings.Join(fields, ", "))
		}
		sb.WriteString("]\n")
	}

	var rows [][]string
	for _, s := range m.Sources {
		kv := []string{"git", quoteCUE(s.Git)}
		if s.Branch != "" {
			kv = append(kv, "branch", quoteCUE(s.Branch))
		}
		rows = append(rows, kv)
	}
	writeList("sources", rows)

	rows = nil
	for _, r := range m.Relationships {
		rows = append(rows, []string{string(r.Role), quoteCUE(r.Name)})
	}
	writeList("relationships", rows)

	rows = nil
	for _, d := range m.Dependencies {
		var kv []string
		for _, key := range PackageManagerKeys() {
			if name, ok := d.Names[key]; ok {
				kv = append(kv, string(key), quoteCUE(name))
			}
		}
		if d.Build != nil {
			kv = append(kv, "build", strconv.FormatBool(*d.Build))
		}
		if d.Required != nil {
			kv = append(kv, "required", strconv.FormatBool(*d.Required))
		}
		rows = append(rows, kv)
	}
	writeList("dependencies", rows)

	rows = nil
	for _, mv := range m.Movements {
		kv := []string{mv.Source, quoteCUE(mv.Destination)}
		if mv.Owner != "" {
			kv = append(kv, "chown", quoteCUE(string(mv.Owner)))
		}
		if mv.Mode != "" {
			kv = append(kv, "chmod", quoteCUE(string(mv.Mode)))
		}
		rows = append(rows, kv)
	}
	writeList("movements", rows)

	rows = nil
	for _, s := range m.Scripts {
		rows = append(rows, []string{string(s.Hook), quoteCUE(s.Path)})
	}
	writeList("scripts", rows)

	return sb.String()
}

type scalarField struct {
	key   string
	value Text
}

// scalarFields lists the optional scalars in the order they are written out.
func (m *Manifest) scalarFields() []scalarField {
	return []scalarField{
		{"version", m.Version},
		{"release", m.Release},
		{"group", m.Group},
		{"summary", m.Summary},
		{"description", m.Description},
		{"website", m.Website},
		{"contact", m.Contact},
		{"maintainer", m.Maintainer},
		{"author", m.Author},
	}
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

// textNode writes numbers plain and quotes anything else YAML would not read
// back as the same string.
func textNode(v string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		n.Tag = ""
	}
	return n
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func mapItems[T any](items []T, pairs func(T) []string) []*yaml.Node {
	out := make([]*yaml.Node, 0, len(items))
	for _, item := range items {
		kv := pairs(item)
		n := &yaml.Node{Kind: yaml.MappingNode}
		for i := 0; i+1 < len(kv); i += 2 {
			n.Content = append(n.Content, keyNode(kv[i]), textNode(kv[i+1]))
		}
		out = append(out, n)
	}
	return out
}

func dependencyNodes(deps []Dependency) []*yaml.Node {
	out := make([]*yaml.Node, 0, len(deps))
	for _, d := range deps {
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range PackageManagerKeys() {
			if name, ok := d.Names[key]; ok {
				n.Content = append(n.Content, keyNode(string(key)), textNode(name))
			}
		}
		if d.Build != nil {
			n.Content = append(n.Content, keyNode("build"), boolNode(*d.Build))
		}
		if d.Required != nil {
			n.Content = append(n.Content, keyNode("required"), boolNode(*d.Required))
		}
		out = append(out, n)
	}
	return out
}

var (
	cueIdentPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	cueKeywords     = map[string]bool{
		"if": true, "for": true, "in": true, "let": true, "import": true,
		"package": true, "true": true, "false": true, "null": true, "func": true,
	}
)

func quoteCUE(s string) string { return literal.String.Quote(s) }

// cueLabel quotes labels that are not plain lower-case identifiers, such as movement paths.
func cueLabel(s string) string {
	if !cueIdentPattern.MatchString(s) || cueKeywords[s] {
		return quoteCUE(s)
	}
	return s
}
