package jsontree

import "strconv"

const (
	NotApplicable = "N/A"
	None          = "None"
)

// Node is one label/value pair of a rendered tree. Exactly one of Text,
// Items or Group is meaningful, selected by the shape of the source value.
type Node struct {
	Label     string
	Level     int
	Separator bool

	Text        string
	Placeholder bool

	IsList bool
	Items  []Item

	IsGroup bool
	Group   []Node
}

// Item is one element of a rendered list.
type Item struct {
	Text        string
	Placeholder bool
	Group       []Node
}

// Render builds the presentation tree for v. Objects and lists at the top
// yield one node per entry; a top-level scalar yields a single unlabeled node.
func Render(v Value) []Node {
	switch v.Kind {
	case KindObject, KindList:
		return renderEntries(v, 0)
	default:
		return []Node{scalarNode("", v, 0)}
	}
}

func renderEntries(v Value, level int) []Node {
	var nodes []Node
	if v.Kind == KindList {
		nodes = make([]Node, 0, len(v.Items))
		for i, item := range v.Items {
			nodes = append(nodes, renderNode(strconv.Itoa(i+1), item, level))
		}
	} else {
		nodes = make([]Node, 0, len(v.Fields))
		for _, f := range v.Fields {
			nodes = append(nodes, renderNode(Label(f.Key), f.Value, level))
		}
	}
	if level == 0 {
		for i := 0; i < len(nodes)-1; i++ {
			nodes[i].Separator = true
		}
	}
	return nodes
}

func renderNode(label string, v Value, level int) Node {
	switch v.Kind {
	case KindObject:
		return Node{Label: label, Level: level, IsGroup: true, Group: renderEntries(v, level+1)}
	case KindList:
		n := Node{Label: label, Level: level, IsList: true}
		if len(v.Items) == 0 {
			n.Items = []Item{{Text: None, Placeholder: true}}
			return n
		}
		n.Items = make([]Item, 0, len(v.Items))
		for _, item := range v.Items {
			n.Items = append(n.Items, renderItem(item, level))
		}
		return n
	default:
		return scalarNode(label, v, level)
	}
}

func renderItem(v Value, level int) Item {
	switch {
	case v.Kind == KindObject || v.Kind == KindList:
		return Item{Group: renderEntries(v, level+1)}
	case v.IsBlank():
		return Item{Text: NotApplicable, Placeholder: true}
	default:
		return Item{Text: v.Text()}
	}
}

func scalarNode(label string, v Value, level int) Node {
	if v.IsBlank() {
		return Node{Label: label, Level: level, Text: NotApplicable, Placeholder: true}
	}
	return Node{Label: label, Level: level, Text: v.Text()}
}
