package taxonomy

import "strings"

// Leaf is a child category of a Group.
type Leaf struct {
	Name string `koanf:"name" json:"name"`
}

// Group is a named collection of leaf categories. A group without children
// is its own leaf.
type Group struct {
	Name     string `koanf:"name"     json:"name"`
	Children []Leaf `koanf:"children" json:"children,omitempty"`
}

// GroupLabels is a group together with the stored labels it expands to.
type GroupLabels struct {
	Name   string   `json:"name"`
	Labels []string `json:"labels"`
}

// Table maps normalized group names to the leaf labels stored on listings.
// It is immutable after NewTable returns and safe for concurrent reads.
type Table struct {
	groups []GroupLabels
	byKey  map[string][]string
}

// NewTable builds the expansion table. Groups whose names normalize to the
// same key keep the first declaration. Blank group and leaf names are skipped.
func NewTable(groups []Group) *Table {
	t := &Table{byKey: make(map[string][]string, len(groups))}
	for _, g := range groups {
		name := DisplayLabel(g.Name)
		key := Normalize(name)
		if key == "" {
			continue
		}
		if _, dup := t.byKey[key]; dup {
			continue
		}
		labels := leafLabels(name, g.Children)
		t.byKey[key] = labels
		t.groups = append(t.groups, GroupLabels{Name: name, Labels: labels})
	}
	return t
}

func leafLabels(group string, children []Leaf) []string {
	seen := make(map[string]struct{}, len(children))
	labels := make([]string, 0, len(children))
	for _, c := range children {
		child := DisplayLabel(c.Name)
		if child == "" {
			continue
		}
		label := group + displayDash + child
		k := Normalize(label)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		labels = append(labels, label)
	}
	if len(labels) == 0 {
		return []string{group}
	}
	return labels
}

// Expand returns the labels matched by one category filter value. A value
// naming a group expands to every leaf of that group, so a group wins over a
// leaf with the same name. Anything else is treated as a literal leaf label.
// Blank values expand to nothing.
func (t *Table) Expand(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if labels, ok := t.byKey[Normalize(raw)]; ok {
		out := make([]string, len(labels))
		copy(out, labels)
		return out
	}
	return []string{DisplayLabel(raw)}
}

// ExpandAll expands each value and removes duplicates, keeping first-seen order.
func (t *Table) ExpandAll(raw []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range raw {
		for _, label := range t.Expand(v) {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
		}
	}
	return out
}

// Groups returns the groups in declaration order.
func (t *Table) Groups() []GroupLabels {
	out := make([]GroupLabels, len(t.groups))
	for i, g := range t.groups {
		out[i] = GroupLabels{Name: g.Name, Labels: append([]string(nil), g.Labels...)}
	}
	return out
}

// Len reports the number of distinct groups.
func (t *Table) Len() int { return len(t.groups) }
