package reconcile

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/host/memhost"
	"github.com/vango-dev/recon/pkg/vdom"
)

func labels(d *memhost.Document, parent host.Node) []string {
	var out []string
	for _, c := range d.Children(parent) {
		out = append(out, c.(*memhost.Node).TextContent())
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKeyedReorderKeepsInstances(t *testing.T) {
	e, d := newEngine(t)
	h := &hooks{}
	typ := itemType(h)
	ul := mustRender(t, e, itemList(typ, "1", "2", "3"), d.Body())

	before := map[string]*Instance{}
	for _, c := range d.Children(ul) {
		k, _ := e.Key(c)
		before[k] = e.Owner(c)
	}

	if out := mustPatch(t, e, ul, itemList(typ, "3", "1", "2")); out != ul {
		t.Fatal("list element was replaced")
	}
	if got := labels(d, ul); !equal(got, []string{"3", "1", "2"}) {
		t.Fatalf("order = %v", got)
	}
	for _, c := range d.Children(ul) {
		k, _ := e.Key(c)
		if inst := e.Owner(c); inst == nil || inst != before[k] {
			t.Errorf("key %s: instance changed across reorder", k)
		}
	}
	if n := h.count("willUnmount"); n != 0 {
		t.Errorf("reorder unmounted %d instances", n)
	}
	if n := h.count("didMount"); n != 3 {
		t.Errorf("didMount fired %d times, want 3", n)
	}
}

func TestStaleChildUnmountedOnce(t *testing.T) {
	e, d := newEngine(t)
	h := &hooks{}
	typ := itemType(h)
	ul := mustRender(t, e, itemList(typ, "1", "2"), d.Body())
	b := e.Owner(d.Children(ul)[1])
	seq := d.Journal().Seq()

	mustPatch(t, e, ul, itemList(typ, "1"))

	if n := h.count("willUnmount:2"); n != 1 {
		t.Errorf("willUnmount:2 fired %d times, want 1", n)
	}
	if n := h.count("willUnmount:1"); n != 0 {
		t.Errorf("kept item was unmounted")
	}
	removed := 0
	for _, m := range d.Journal().Since(seq) {
		if m.Op == host.OpRemove {
			removed++
		}
	}
	if removed != 1 {
		t.Errorf("removed %d nodes, want 1", removed)
	}
	if b.Lifecycle() != Unmounted || b.Base() != nil {
		t.Errorf("stale instance: lifecycle=%v base=%v", b.Lifecycle(), b.Base())
	}
	if got := labels(d, ul); !equal(got, []string{"1"}) {
		t.Errorf("children = %v", got)
	}
}

func TestKeyedInsertAndRemove(t *testing.T) {
	e, d := newEngine(t)
	h := &hooks{}
	typ := itemType(h)
	ul := mustRender(t, e, itemList(typ, "a", "b", "c"), d.Body())
	orig := d.Children(ul)

	mustPatch(t, e, ul, itemList(typ, "c", "x", "a"))

	kids := d.Children(ul)
	if got := labels(d, ul); !equal(got, []string{"c", "x", "a"}) {
		t.Fatalf("order = %v", got)
	}
	if kids[0] != orig[2] || kids[2] != orig[0] {
		t.Error("kept nodes were not reused")
	}
	if h.count("willUnmount:b") != 1 || h.count("didMount:x") != 1 {
		t.Errorf("hooks = %v", h.log)
	}
}

func TestPositionalKeysFollowIndex(t *testing.T) {
	e, d := newEngine(t)
	ul := mustRender(t, e, vdom.H("ul", nil,
		vdom.H("li", nil, "a"),
		vdom.H("li", nil, "b"),
	), d.Body())
	first := d.Children(ul)[0]

	mustPatch(t, e, ul, vdom.H("ul", nil,
		vdom.H("li", nil, "b"),
	))

	kids := d.Children(ul)
	if len(kids) != 1 || kids[0] != first {
		t.Fatal("unkeyed children should match by position")
	}
	if got := kids[0].(*memhost.Node).TextContent(); got != "b" {
		t.Errorf("content = %q", got)
	}
}

func TestKeyCollisionLastWins(t *testing.T) {
	e, d := newEngine(t)
	ul := mustRender(t, e, vdom.H("ul", nil,
		vdom.H("li", vdom.Props{"key": "a"}, "1"),
		vdom.H("li", vdom.Props{"key": "b"}, "2"),
	), d.Body())
	a := d.Children(ul)[0]

	mustPatch(t, e, ul, vdom.H("ul", nil,
		vdom.H("li", vdom.Props{"key": "a"}, "x"),
		vdom.H("li", vdom.Props{"key": "a"}, "y"),
	))

	kids := d.Children(ul)
	if got := labels(d, ul); !equal(got, []string{"x", "y"}) {
		t.Fatalf("children = %v", got)
	}
	if kids[0] != a {
		t.Error("first duplicate should reuse the keyed node")
	}
}

func TestKeyCollisionError(t *testing.T) {
	e, d := newEngine(t, WithKeyCollision(KeyCollisionError))
	ul := mustRender(t, e, vdom.H("ul", nil,
		vdom.H("li", vdom.Props{"key": 1}, "1"),
		vdom.H("li", vdom.Props{"key": 2}, "2"),
	), d.Body())
	seq := d.Journal().Seq()

	_, err := e.Patch(ul, vdom.H("ul", nil,
		vdom.H("li", vdom.Props{"key": 1}, "x"),
		vdom.H("li", vdom.Props{"key": "1"}, "y"),
	), nil)
	if !stderrors.Is(err, ErrKeyCollision) {
		t.Fatalf("err = %v, want ErrKeyCollision", err)
	}
	if got := d.Journal().Since(seq); len(got) != 0 {
		t.Errorf("failed patch recorded %d mutations", len(got))
	}
}

func TestComponentToElementReleasesInstance(t *testing.T) {
	e, d := newEngine(t)
	h := &hooks{}
	typ := itemType(h)
	ul := mustRender(t, e, itemList(typ, "1"), d.Body())
	li := d.Children(ul)[0]
	inst := e.Owner(li)

	mustPatch(t, e, ul, vdom.H("ul", nil, vdom.H("li", vdom.Props{"key": "1"}, "plain")))

	if got := d.Children(ul)[0]; got != li {
		t.Error("same-tag element should reuse the component's node")
	}
	if e.Owner(li) != nil {
		t.Error("node still owned by the old instance")
	}
	if inst.Lifecycle() != Unmounted || h.count("willUnmount:1") != 1 {
		t.Errorf("instance lifecycle = %v, hooks = %v", inst.Lifecycle(), h.log)
	}
}

func TestComponentTypeChangeReplaces(t *testing.T) {
	e, d := newEngine(t)
	h := &hooks{}
	typ := itemType(h)
	other := vdom.Define("Other", func(self vdom.Instance) vdom.Component {
		return &item{self: self, h: h}
	})
	ul := mustRender(t, e, itemList(typ, "1"), d.Body())
	old := d.Children(ul)[0]
	oldInst := e.Owner(old)

	mustPatch(t, e, ul, vdom.H("ul", nil, vdom.H(other, vdom.Props{"key": "1", "label": "n"})))

	now := d.Children(ul)[0]
	if now == old {
		t.Fatal("different component type should render a fresh node")
	}
	if inst := e.Owner(now); inst == nil || inst.Type() != other {
		t.Errorf("owner = %v", inst)
	}
	if oldInst.Lifecycle() != Unmounted {
		t.Errorf("old lifecycle = %v", oldInst.Lifecycle())
	}
	if k, _ := e.Key(now); k != "1" {
		t.Errorf("key = %q", k)
	}
}

func TestPatchPassesPropsToInstance(t *testing.T) {
	e, d := newEngine(t)
	h := &hooks{}
	typ := itemType(h)
	ul := mustRender(t, e, vdom.H("ul", nil, vdom.H(typ, vdom.Props{"key": "k", "label": "old"})), d.Body())
	inst := e.Owner(d.Children(ul)[0])

	mustPatch(t, e, ul, vdom.H("ul", nil, vdom.H(typ, vdom.Props{"key": "k", "label": "new"})))

	if e.Owner(d.Children(ul)[0]) != inst {
		t.Fatal("instance was not reused")
	}
	if inst.Props().String("label") != "new" || h.count("receive:new") != 1 {
		t.Errorf("props = %v, hooks = %v", inst.Props(), h.log)
	}
	if got := labels(d, ul); !equal(got, []string{"new"}) {
		t.Errorf("children = %v", got)
	}
}

func TestMoveTo(t *testing.T) {
	a, b, c := &memhost.Node{}, &memhost.Node{}, &memhost.Node{}
	got := moveTo([]host.Node{a, b, c}, c, 0)
	if len(got) != 3 || got[0] != c || got[1] != a || got[2] != b {
		t.Errorf("moveTo existing = %v", got)
	}
	d := &memhost.Node{}
	got = moveTo([]host.Node{a, b}, d, 5)
	if len(got) != 3 || got[2] != d {
		t.Errorf("moveTo new = %v", got)
	}
}
