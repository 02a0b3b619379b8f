package demo

import (
	"testing"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/host/memhost"
	"github.com/vango-dev/recon/pkg/vtest"
)

func listItems(h *vtest.Harness) []string {
	var out []string
	for _, li := range memhost.FindTag(h.Doc.Body(), "li") {
		out = append(out, li.TextContent())
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

func play(t *testing.T, h *vtest.Harness, step Step) {
	t.Helper()
	if err := Play(h.Root, h.Doc, step); err != nil {
		t.Fatalf("%s: %v", step.Name, err)
	}
}

func TestInitialTree(t *testing.T) {
	h := vtest.Mount(t, Tree())
	h.ExpectContains(`<h1>recon demo</h1>`)
	h.ExpectContains(`<p class="count">count: 0</p>`)
	h.ExpectContains(`<button id="inc" data-on-click="true">+</button>`)
	if got := listItems(h); !equal(got, []string{"alpha", "beta", "gamma"}) {
		t.Errorf("items = %v", got)
	}
}

func TestScript(t *testing.T) {
	h := vtest.Mount(t, Tree())
	for _, step := range Script {
		play(t, h, step)
	}
	h.ExpectContains("count: 1")
	if got := listItems(h); !equal(got, []string{"gamma", "beta", "alpha"}) {
		t.Errorf("items = %v", got)
	}
}

func TestReverseMovesNodes(t *testing.T) {
	h := vtest.Mount(t, Tree())
	before := memhost.FindTag(h.Doc.Body(), "li")

	h.Reset()
	play(t, h, Step{"reverse", "reverse", "click"})

	if n := h.Count(host.OpCreateElement); n != 0 {
		t.Errorf("reverse created %d elements, want 0", n)
	}
	after := memhost.FindTag(h.Doc.Body(), "li")
	for i := range before {
		if after[len(after)-1-i] != before[i] {
			t.Errorf("li %d was not reused", i)
		}
	}
}

func TestDropUntilEmpty(t *testing.T) {
	h := vtest.Mount(t, Tree())
	for i := 0; i < 4; i++ {
		play(t, h, Step{"drop", "drop", "click"})
	}
	if got := listItems(h); len(got) != 0 {
		t.Errorf("items = %v, want none", got)
	}
	h.ExpectContains("<ul></ul>")
}

func TestPlayUnknownTarget(t *testing.T) {
	h := vtest.Mount(t, Tree())
	if err := Play(h.Root, h.Doc, Step{"missing", "nope", "click"}); err == nil {
		t.Error("expected an error for a missing element")
	}
	if err := Play(h.Root, h.Doc, Step{"no listener", "app", "click"}); err == nil {
		t.Error("expected an error for an element without the listener")
	}
}
