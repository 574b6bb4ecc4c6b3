package jsontree

import (
	"strings"

	"github.com/sirupsen/logrus"

	"recruit-console/internal/logging"
)

// ParseNotice is shown under the raw text when stored JSON cannot be parsed.
const ParseNotice = "Could not parse stored JSON data for display."

// Display is one region showing stored JSON. It always holds either a
// rendered tree or the raw text with a single ParseNotice.
type Display struct {
	name  string
	width int
	log   *logrus.Logger

	content  string
	nodes    []Node
	fallback bool
}

func NewDisplay(name string, width int, log *logrus.Logger) *Display {
	if log == nil {
		log = logging.Discard()
	}
	return &Display{name: name, width: width, log: log}
}

// Apply renders raw into the display. Empty input leaves the display as it
// was. It reports whether raw parsed.
func (d *Display) Apply(raw string) bool {
	if raw == "" {
		d.log.WithField("display", d.name).Debug("no stored JSON to render")
		return false
	}
	v, err := Parse(raw)
	if err != nil {
		d.log.WithField("display", d.name).WithError(err).Error("failed to parse stored JSON for display")
		d.nodes = nil
		d.fallback = true
		d.content = raw
		return false
	}
	d.nodes = Render(v)
	d.fallback = false
	d.content = Text(d.nodes, d.width)
	return true
}

func (d *Display) SetWidth(width int) {
	d.width = width
	if d.nodes != nil {
		d.content = Text(d.nodes, d.width)
	}
}

func (d *Display) Nodes() []Node { return d.nodes }

// Failed reports whether the display is showing the raw-text fallback.
func (d *Display) Failed() bool { return d.fallback }

func (d *Display) String() string {
	if !d.fallback {
		return d.content
	}
	return strings.TrimRight(d.content, "\n") + "\n" + treeNoticeStyle.Render(ParseNotice)
}
