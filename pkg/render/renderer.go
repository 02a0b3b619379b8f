package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/recon/pkg/host/memhost"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// NodeIDs adds a data-node attribute carrying each element's memhost
	// ID, so output can be matched against a mutation journal.
	NodeIDs bool

	// SkipRoot renders only the children of the node passed in.
	SkipRoot bool
}

// Renderer serializes memhost trees.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders n and its descendants.
func (r *Renderer) RenderToString(n *memhost.Node) string {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail.
	_ = r.RenderToWriter(&buf, n)
	return buf.String()
}

// RenderToWriter streams n and its descendants to w.
func (r *Renderer) RenderToWriter(w io.Writer, n *memhost.Node) error {
	if n == nil {
		return nil
	}
	if r.config.SkipRoot {
		for _, c := range n.Children() {
			if err := r.renderNode(w, c, 0); err != nil {
				return err
			}
		}
		return nil
	}
	return r.renderNode(w, n, 0)
}

// HTML renders n with the default configuration.
func HTML(n *memhost.Node) string {
	return NewRenderer(RendererConfig{}).RenderToString(n)
}

// InnerHTML renders n's children with the default configuration.
func InnerHTML(n *memhost.Node) string {
	return NewRenderer(RendererConfig{SkipRoot: true}).RenderToString(n)
}

func (r *Renderer) renderNode(w io.Writer, n *memhost.Node, depth int) error {
	if n.IsText() {
		_, err := io.WriteString(w, escapeHTML(n.Text()))
		return err
	}
	return r.renderElement(w, n, depth)
}

func (r *Renderer) renderElement(w io.Writer, n *memhost.Node, depth int) error {
	tag := n.Tag()
	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, n); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if isVoidElement(tag) {
		if r.config.Pretty {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}

	children := n.Children()
	block := r.config.Pretty && len(children) > 0 && !isInlineElement(tag) && !onlyText(children)
	if block {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	for _, c := range children {
		if block && c.IsText() {
			r.writeIndent(w, depth+1)
		}
		if err := r.renderNode(w, c, depth+1); err != nil {
			return err
		}
		if block && c.IsText() {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	if block {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// renderAttributes writes attributes, then fields, style, and listener
// markers, each in sorted order.
func (r *Renderer) renderAttributes(w io.Writer, n *memhost.Node) error {
	var b strings.Builder
	if r.config.NodeIDs {
		fmt.Fprintf(&b, ` data-node="%d"`, n.ID())
	}

	names := n.AttrNames()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
		value, _ := n.Attr(name)
		writeAttr(&b, name, value)
	}

	for _, field := range []string{"checked", "value"} {
		if seen[field] {
			continue
		}
		v := n.Field(field)
		if v == nil {
			continue
		}
		writeAttr(&b, field, fmt.Sprint(v))
	}

	if styles := n.StyleNames(); len(styles) > 0 && !seen["style"] {
		parts := make([]string, 0, len(styles))
		for _, k := range styles {
			parts = append(parts, k+": "+n.Style(k))
		}
		writeAttr(&b, "style", strings.Join(parts, "; "))
	}

	for _, event := range n.ListenerNames() {
		fmt.Fprintf(&b, ` data-on-%s="true"`, event)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeAttr(b *strings.Builder, name, value string) {
	if isBooleanAttr(name) {
		switch value {
		case "false":
			return
		case "", "true", name:
			b.WriteString(" " + name)
			return
		}
	}
	fmt.Fprintf(b, ` %s="%s"`, name, escapeAttr(value))
}

func onlyText(children []*memhost.Node) bool {
	for _, c := range children {
		if !c.IsText() {
			return false
		}
	}
	return true
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	_, _ = io.WriteString(w, strings.Repeat(r.config.Indent, depth))
}
