// Package demo is the sample application the CLI mounts: a counter and a
// keyed, reorderable list.
package demo

import (
	"fmt"

	"github.com/vango-dev/recon/pkg/host/memhost"
	"github.com/vango-dev/recon/pkg/reconcile"
	"github.com/vango-dev/recon/pkg/vdom"
)

type counter struct {
	self vdom.Instance
}

func (c *counter) InitialState() any { return map[string]any{"n": 0} }

func (c *counter) Render() *vdom.VNode {
	n := c.self.State().(map[string]any)["n"].(int)
	set := func(v int) func() error {
		return func() error { return c.self.SetState(map[string]any{"n": v}) }
	}
	return vdom.H("section", vdom.Props{"id": "counter"},
		vdom.H("p", vdom.Props{"class": "count"}, fmt.Sprintf("count: %d", n)),
		vdom.H("button", vdom.Props{"id": "inc", "onClick": set(n + 1)}, "+"),
		vdom.H("button", vdom.Props{"id": "dec", "onClick": set(n - 1), "disabled": n == 0}, "-"),
	)
}

// Counter is an increment/decrement counter.
var Counter = vdom.Define("Counter", func(self vdom.Instance) vdom.Component {
	return &counter{self: self}
})

type todos struct {
	self vdom.Instance
}

func (c *todos) InitialState() any {
	items, _ := c.self.Props().Get("items").([]string)
	return map[string]any{
		"items": append([]string(nil), items...),
		"next":  len(items) + 1,
	}
}

func (c *todos) items() ([]string, int) {
	st := c.self.State().(map[string]any)
	return st["items"].([]string), st["next"].(int)
}

func (c *todos) add() error {
	items, next := c.items()
	grown := append(append([]string(nil), items...), fmt.Sprintf("item %d", next))
	return c.self.SetState(map[string]any{"items": grown, "next": next + 1})
}

func (c *todos) reverse() error {
	items, _ := c.items()
	rev := make([]string, len(items))
	for i, it := range items {
		rev[len(items)-1-i] = it
	}
	return c.self.SetState(map[string]any{"items": rev})
}

func (c *todos) drop() error {
	items, _ := c.items()
	if len(items) == 0 {
		return nil
	}
	return c.self.SetState(map[string]any{"items": append([]string(nil), items[1:]...)})
}

func (c *todos) Render() *vdom.VNode {
	items, _ := c.items()
	rows := make([]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, vdom.H("li", vdom.Props{"key": it}, it))
	}
	return vdom.H("section", vdom.Props{"id": "todos"},
		vdom.H("button", vdom.Props{"id": "add", "onClick": c.add}, "add"),
		vdom.H("button", vdom.Props{"id": "reverse", "onClick": c.reverse}, "reverse"),
		vdom.H("button", vdom.Props{"id": "drop", "onClick": c.drop}, "drop"),
		vdom.H("ul", nil, rows...),
	)
}

// Todos is a keyed list. Its "items" prop seeds the list.
var Todos = vdom.Define("Todos", func(self vdom.Instance) vdom.Component {
	return &todos{self: self}
})

// App composes the counter and the list.
func App(props vdom.Props) *vdom.VNode {
	items, _ := props.Get("items").([]string)
	return vdom.H("main", vdom.Props{"id": "app"},
		vdom.H("h1", nil, "recon demo"),
		vdom.Class(Counter, nil),
		vdom.Class(Todos, vdom.Props{"items": items}),
	)
}

// Tree returns the demo's root virtual node.
func Tree() *vdom.VNode {
	return vdom.Func(App, vdom.Props{"items": []string{"alpha", "beta", "gamma"}})
}

// Step is one scripted interaction.
type Step struct {
	Name   string
	Target string
	Event  string
}

// Script exercises every demo path: state merges, keyed moves, inserts
// and removals.
var Script = []Step{
	{"increment", "inc", "click"},
	{"increment", "inc", "click"},
	{"decrement", "dec", "click"},
	{"add item", "add", "click"},
	{"reverse list", "reverse", "click"},
	{"drop first", "drop", "click"},
}

// Play fires step's event under root's lock.
func Play(root *reconcile.Root, doc *memhost.Document, step Step) error {
	return root.Run(func() error {
		n := memhost.Find(doc.Body(), "id", step.Target)
		if n == nil {
			return fmt.Errorf("demo: no element #%s", step.Target)
		}
		fired, err := doc.Dispatch(n, step.Event, nil)
		if err != nil {
			return err
		}
		if !fired {
			return fmt.Errorf("demo: no %s listener on #%s", step.Event, step.Target)
		}
		return nil
	})
}
