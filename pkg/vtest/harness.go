package vtest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/host/memhost"
	"github.com/vango-dev/recon/pkg/reconcile"
	"github.com/vango-dev/recon/pkg/render"
	"github.com/vango-dev/recon/pkg/vdom"
)

// Harness is a mounted tree under test.
type Harness struct {
	t    testing.TB
	Doc  *memhost.Document
	Root *reconcile.Root
}

// Mount renders v into a new document body. Engine logging is
// discarded unless opts set a logger.
func Mount(t testing.TB, v *vdom.VNode, opts ...reconcile.Option) *Harness {
	t.Helper()
	doc := memhost.NewDocument()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]reconcile.Option{reconcile.WithLogger(quiet)}, opts...)

	root, err := reconcile.New(doc, opts...).Mount(v, doc.Body())
	if err != nil {
		t.Fatalf("vtest: mount: %v", err)
	}
	h := &Harness{t: t, Doc: doc, Root: root}
	t.Cleanup(func() { root.Unmount() })
	return h
}

// HTML returns the serialized body content.
func (h *Harness) HTML() string {
	return render.InnerHTML(h.Doc.Body())
}

// Node returns the mounted root node.
func (h *Harness) Node() *memhost.Node {
	n, _ := h.Root.Node().(*memhost.Node)
	return n
}

// Instance returns the root component instance, or nil.
func (h *Harness) Instance() *reconcile.Instance {
	return h.Root.Instance()
}

// Update patches the root against v and fails the test on error.
func (h *Harness) Update(v *vdom.VNode) {
	h.t.Helper()
	if err := h.Root.Update(v); err != nil {
		h.t.Fatalf("vtest: update: %v", err)
	}
}

// Fire dispatches event on the first element with the given tag, or
// with a matching id when target starts with '#'.
func (h *Harness) Fire(target, event string, payload any) {
	h.t.Helper()
	n := h.Find(target)
	if n == nil {
		h.t.Fatalf("vtest: no element matches %q", target)
	}
	var fired bool
	err := h.Root.Run(func() error {
		var err error
		fired, err = h.Doc.Dispatch(n, event, payload)
		return err
	})
	if err != nil {
		h.t.Fatalf("vtest: %s on %s: %v", event, target, err)
	}
	if !fired {
		h.t.Fatalf("vtest: no %s listener on %s", event, target)
	}
}

// Find returns the first element matching target, or nil.
func (h *Harness) Find(target string) *memhost.Node {
	if id, ok := strings.CutPrefix(target, "#"); ok {
		return memhost.Find(h.Doc.Body(), "id", id)
	}
	if ns := memhost.FindTag(h.Doc.Body(), target); len(ns) > 0 {
		return ns[0]
	}
	return nil
}

// Reset clears the journal.
func (h *Harness) Reset() {
	h.Doc.Journal().Reset()
}

// Count returns how many mutations of op were recorded since Reset.
func (h *Harness) Count(op host.Op) int {
	return h.Doc.Journal().Count(op)
}

// Mutations returns the mutations recorded since Reset.
func (h *Harness) Mutations() []host.Mutation {
	return h.Doc.Journal().Mutations()
}

// ExpectHTML fails the test unless the body serializes to want.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("html:\n got  %s\n want %s", got, want)
	}
}

// ExpectContains fails the test unless the body HTML contains s.
func (h *Harness) ExpectContains(s string) {
	h.t.Helper()
	if got := h.HTML(); !strings.Contains(got, s) {
		h.t.Errorf("expected html to contain %q, got:\n%s", s, truncate(got, 500))
	}
}

// ExpectNotContains fails the test if the body HTML contains s.
func (h *Harness) ExpectNotContains(s string) {
	h.t.Helper()
	if got := h.HTML(); strings.Contains(got, s) {
		h.t.Errorf("expected html to not contain %q, got:\n%s", s, truncate(got, 500))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
