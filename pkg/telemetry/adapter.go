package telemetry

import "github.com/vango-dev/recon/pkg/host"

// Adapter wraps a host adapter so every mutation it performs is counted.
// Reads pass through uncounted.
func (m *Metrics) Adapter(a host.Adapter) host.Adapter {
	return &countingAdapter{Adapter: a, m: m}
}

type countingAdapter struct {
	host.Adapter
	m *Metrics
}

func (c *countingAdapter) count(op host.Op) {
	c.m.mutations.WithLabelValues(op.String()).Inc()
}

// countOK counts structural ops that succeeded.
func (c *countingAdapter) countOK(op host.Op, err error) error {
	if err == nil {
		c.count(op)
	}
	return err
}

func (c *countingAdapter) CreateElement(tag string) host.Node {
	c.count(host.OpCreateElement)
	return c.Adapter.CreateElement(tag)
}

func (c *countingAdapter) CreateText(text string) host.Node {
	c.count(host.OpCreateText)
	return c.Adapter.CreateText(text)
}

func (c *countingAdapter) AppendChild(parent, child host.Node) error {
	return c.countOK(host.OpAppend, c.Adapter.AppendChild(parent, child))
}

func (c *countingAdapter) InsertBefore(parent, child, ref host.Node) error {
	return c.countOK(host.OpInsert, c.Adapter.InsertBefore(parent, child, ref))
}

func (c *countingAdapter) ReplaceChild(parent, newChild, oldChild host.Node) error {
	return c.countOK(host.OpReplace, c.Adapter.ReplaceChild(parent, newChild, oldChild))
}

func (c *countingAdapter) RemoveChild(parent, child host.Node) error {
	return c.countOK(host.OpRemove, c.Adapter.RemoveChild(parent, child))
}

func (c *countingAdapter) SetAttribute(node host.Node, name, value string) {
	c.count(host.OpSetAttr)
	c.Adapter.SetAttribute(node, name, value)
}

func (c *countingAdapter) RemoveAttribute(node host.Node, name string) {
	c.count(host.OpRemoveAttr)
	c.Adapter.RemoveAttribute(node, name)
}

func (c *countingAdapter) SetField(node host.Node, field string, value any) {
	c.count(host.OpSetField)
	c.Adapter.SetField(node, field, value)
}

func (c *countingAdapter) MergeStyle(node host.Node, style map[string]string) {
	c.count(host.OpSetStyle)
	c.Adapter.MergeStyle(node, style)
}

func (c *countingAdapter) AddEventListener(node host.Node, event string, handler any) {
	c.count(host.OpListen)
	c.Adapter.AddEventListener(node, event, handler)
}

func (c *countingAdapter) RemoveEventListener(node host.Node, event string) {
	c.count(host.OpUnlisten)
	c.Adapter.RemoveEventListener(node, event)
}

func (c *countingAdapter) Focus(node host.Node) {
	c.count(host.OpFocus)
	c.Adapter.Focus(node)
}
