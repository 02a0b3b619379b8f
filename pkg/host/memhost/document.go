package memhost

import (
	"fmt"

	"github.com/vango-dev/recon/internal/errors"
	"github.com/vango-dev/recon/pkg/host"
)

// Document owns a tree of nodes rooted at a body element.
type Document struct {
	nextID  uint64
	body    *Node
	focused *Node
	journal *Journal
}

// Option configures a Document.
type Option func(*Document)

// WithJournal uses j instead of an unbounded journal.
func WithJournal(j *Journal) Option {
	return func(d *Document) {
		d.journal = j
	}
}

// NewDocument creates an empty document.
func NewDocument(opts ...Option) *Document {
	d := &Document{}
	for _, opt := range opts {
		opt(d)
	}
	if d.journal == nil {
		d.journal = NewJournal(0)
	}
	d.body = d.newNode(false, "body", "")
	return d
}

var _ host.Adapter = (*Document)(nil)

// Body returns the document's root element.
func (d *Document) Body() *Node { return d.body }

// Journal returns the mutation journal.
func (d *Document) Journal() *Journal { return d.journal }

// Connected reports whether n is attached under the body.
func (d *Document) Connected(n *Node) bool {
	return n != nil && d.body.contains(n)
}

func (d *Document) newNode(text bool, tag, content string) *Node {
	d.nextID++
	return &Node{id: d.nextID, doc: d, text: text, tag: tag, content: content}
}

// node resolves a handle owned by this document.
func (d *Document) node(h host.Node) *Node {
	n, ok := h.(*Node)
	if !ok || n == nil || n.doc != d {
		return nil
	}
	return n
}

func (d *Document) record(op host.Op, n *Node, name, value string) {
	m := host.Mutation{Op: op, Name: name, Value: value}
	if n != nil {
		m.Node = n.id
	}
	d.journal.Record(m)
}

func foreign(h host.Node) error {
	return errors.New("R020").WithDetail(fmt.Sprintf("%T", h))
}

// CreateElement implements host.Adapter.
func (d *Document) CreateElement(tag string) host.Node {
	n := d.newNode(false, tag, "")
	d.record(host.OpCreateElement, n, tag, "")
	return n
}

// CreateText implements host.Adapter.
func (d *Document) CreateText(text string) host.Node {
	n := d.newNode(true, "", text)
	d.record(host.OpCreateText, n, "", text)
	return n
}

// AppendChild implements host.Adapter.
func (d *Document) AppendChild(parent, child host.Node) error {
	return d.InsertBefore(parent, child, nil)
}

// InsertBefore implements host.Adapter.
func (d *Document) InsertBefore(parent, child, ref host.Node) error {
	p, c := d.node(parent), d.node(child)
	if p == nil {
		return foreign(parent)
	}
	if c == nil {
		return foreign(child)
	}
	if p.text || c.contains(p) {
		return errors.New("R022")
	}
	var r *Node
	if ref != nil {
		if r = d.node(ref); r == nil {
			return foreign(ref)
		}
		if r.parent != p {
			return errors.New("R021")
		}
		if r == c {
			return nil
		}
	}

	c.detach()
	if r == nil {
		p.children = append(p.children, c)
	} else {
		i := r.Index()
		p.children = append(p.children, nil)
		copy(p.children[i+1:], p.children[i:])
		p.children[i] = c
	}
	c.parent = p

	m := host.Mutation{Op: host.OpAppend, Node: c.id, Parent: p.id}
	if r != nil {
		m.Op = host.OpInsert
		m.Ref = r.id
	}
	d.journal.Record(m)
	return nil
}

// ReplaceChild implements host.Adapter.
func (d *Document) ReplaceChild(parent, newChild, oldChild host.Node) error {
	p, nc, oc := d.node(parent), d.node(newChild), d.node(oldChild)
	if p == nil || nc == nil || oc == nil {
		return foreign(parent)
	}
	if oc.parent != p {
		return errors.New("R021")
	}
	if nc == oc {
		return nil
	}
	if p.text || nc.contains(p) {
		return errors.New("R022")
	}

	nc.detach()
	i := oc.Index()
	p.children[i] = nc
	nc.parent = p
	oc.parent = nil

	d.journal.Record(host.Mutation{Op: host.OpReplace, Node: nc.id, Parent: p.id, Ref: oc.id})
	return nil
}

// RemoveChild implements host.Adapter.
func (d *Document) RemoveChild(parent, child host.Node) error {
	p, c := d.node(parent), d.node(child)
	if p == nil || c == nil {
		return foreign(child)
	}
	if c.parent != p {
		return errors.New("R021")
	}
	c.detach()
	d.journal.Record(host.Mutation{Op: host.OpRemove, Node: c.id, Parent: p.id})
	return nil
}

// Parent implements host.Adapter.
func (d *Document) Parent(node host.Node) host.Node {
	n := d.node(node)
	if n == nil || n.parent == nil {
		return nil
	}
	return n.parent
}

// Children implements host.Adapter.
func (d *Document) Children(node host.Node) []host.Node {
	n := d.node(node)
	if n == nil {
		return nil
	}
	out := make([]host.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// IsText implements host.Adapter.
func (d *Document) IsText(node host.Node) bool {
	n := d.node(node)
	return n != nil && n.text
}

// Text implements host.Adapter.
func (d *Document) Text(node host.Node) string {
	if n := d.node(node); n != nil {
		return n.content
	}
	return ""
}

// Tag implements host.Adapter.
func (d *Document) Tag(node host.Node) string {
	if n := d.node(node); n != nil {
		return n.tag
	}
	return ""
}

// Attributes implements host.Adapter.
func (d *Document) Attributes(node host.Node) []string {
	if n := d.node(node); n != nil {
		return n.AttrNames()
	}
	return nil
}

// Attribute implements host.Adapter.
func (d *Document) Attribute(node host.Node, name string) (string, bool) {
	if n := d.node(node); n != nil {
		return n.Attr(name)
	}
	return "", false
}

// SetAttribute implements host.Adapter.
func (d *Document) SetAttribute(node host.Node, name, value string) {
	n := d.node(node)
	if n == nil || n.text {
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	d.record(host.OpSetAttr, n, name, value)
}

// RemoveAttribute implements host.Adapter.
func (d *Document) RemoveAttribute(node host.Node, name string) {
	n := d.node(node)
	if n == nil {
		return
	}
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	d.record(host.OpRemoveAttr, n, name, "")
}

// SetField implements host.Adapter. className reflects to the class
// attribute; other fields are node properties.
func (d *Document) SetField(node host.Node, field string, value any) {
	n := d.node(node)
	if n == nil || n.text {
		return
	}
	if field == "className" {
		if n.attrs == nil {
			n.attrs = make(map[string]string)
		}
		n.attrs["class"] = fmt.Sprint(value)
	} else {
		if n.fields == nil {
			n.fields = make(map[string]any)
		}
		n.fields[field] = value
	}
	d.record(host.OpSetField, n, field, fmt.Sprint(value))
}

// MergeStyle implements host.Adapter.
func (d *Document) MergeStyle(node host.Node, style map[string]string) {
	n := d.node(node)
	if n == nil || n.text {
		return
	}
	if n.style == nil {
		n.style = make(map[string]string)
	}
	for k, v := range style {
		n.style[k] = v
		d.record(host.OpSetStyle, n, k, v)
	}
}

// AddEventListener implements host.Adapter.
func (d *Document) AddEventListener(node host.Node, event string, handler any) {
	n := d.node(node)
	if n == nil || n.text {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string]any)
	}
	n.listeners[event] = handler
	d.record(host.OpListen, n, event, "")
}

// RemoveEventListener implements host.Adapter.
func (d *Document) RemoveEventListener(node host.Node, event string) {
	n := d.node(node)
	if n == nil {
		return
	}
	if _, ok := n.listeners[event]; !ok {
		return
	}
	delete(n.listeners, event)
	d.record(host.OpUnlisten, n, event, "")
}

// Focused implements host.Adapter. A focused node that has been detached
// no longer counts as focused.
func (d *Document) Focused() host.Node {
	if d.focused == nil || !d.Connected(d.focused) {
		return nil
	}
	return d.focused
}

// Focus implements host.Adapter.
func (d *Document) Focus(node host.Node) {
	n := d.node(node)
	if n == nil {
		return
	}
	d.focused = n
	d.record(host.OpFocus, n, "", "")
}
