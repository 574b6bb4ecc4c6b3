package jsontree

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const indentUnit = "  "

var (
	treeLabelStyle       = lipgloss.NewStyle().Bold(true)
	treePlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	treeSeparatorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	treeNoticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Text renders nodes as indented lines. width sets the separator length;
// zero or less picks a default.
func Text(nodes []Node, width int) string {
	if width <= 0 {
		width = 40
	}
	var b strings.Builder
	writeNodes(&b, nodes, "", width)
	return strings.TrimRight(b.String(), "\n")
}

func writeNodes(b *strings.Builder, nodes []Node, indent string, width int) {
	for _, n := range nodes {
		writeNode(b, n, indent, width)
		if n.Separator {
			b.WriteString(treeSeparatorStyle.Render(strings.Repeat("─", width)))
			b.WriteByte('\n')
		}
	}
}

func writeNode(b *strings.Builder, n Node, indent string, width int) {
	label := ""
	if n.Label != "" {
		label = treeLabelStyle.Render(n.Label+":") + " "
	}
	switch {
	case n.IsGroup:
		b.WriteString(indent + strings.TrimRight(label, " ") + "\n")
		writeNodes(b, n.Group, indent+indentUnit, width)
	case n.IsList:
		if len(n.Items) == 1 && n.Items[0].Placeholder && n.Items[0].Group == nil && n.Items[0].Text == None {
			b.WriteString(indent + label + treePlaceholderStyle.Render(None) + "\n")
			return
		}
		b.WriteString(indent + strings.TrimRight(label, " ") + "\n")
		for _, item := range n.Items {
			writeItem(b, item, indent+indentUnit, width)
		}
	default:
		b.WriteString(indent + label + scalarText(n.Text, n.Placeholder) + "\n")
	}
}

func writeItem(b *strings.Builder, item Item, indent string, width int) {
	if item.Group == nil {
		b.WriteString(indent + "- " + scalarText(item.Text, item.Placeholder) + "\n")
		return
	}
	var nested strings.Builder
	writeNodes(&nested, item.Group, "", width)
	lines := strings.Split(strings.TrimRight(nested.String(), "\n"), "\n")
	for i, line := range lines {
		prefix := indentUnit
		if i == 0 {
			prefix = "- "
		}
		b.WriteString(indent + prefix + line + "\n")
	}
}

func scalarText(text string, placeholder bool) string {
	if placeholder {
		return treePlaceholderStyle.Render(text)
	}
	return text
}
