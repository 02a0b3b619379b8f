package render

import (
	"bytes"
	"testing"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/host/memhost"
)

func appendAll(t *testing.T, d *memhost.Document, parent host.Node, children ...host.Node) {
	t.Helper()
	for _, c := range children {
		if err := d.AppendChild(parent, c); err != nil {
			t.Fatalf("AppendChild: %v", err)
		}
	}
}

func TestRenderElementTree(t *testing.T) {
	d := memhost.NewDocument()
	div := d.CreateElement("div")
	d.SetAttribute(div, "id", `a"b`)

	input := d.CreateElement("input")
	d.SetField(input, "value", "v")
	d.SetField(input, "checked", true)

	span := d.CreateElement("span")
	d.MergeStyle(span, map[string]string{"margin": "0", "color": "red"})
	d.AddEventListener(span, "click", func() {})
	d.SetAttribute(span, "disabled", "false")

	appendAll(t, d, div, d.CreateText("x & y"), input, span)

	want := `<div id="a&quot;b">x &amp; y<input checked value="v">` +
		`<span style="color: red; margin: 0" data-on-click="true"></span></div>`
	if got := HTML(div.(*memhost.Node)); got != want {
		t.Errorf("HTML =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderClassFromField(t *testing.T) {
	d := memhost.NewDocument()
	p := d.CreateElement("p")
	d.SetField(p, "className", "lead")

	if got := HTML(p.(*memhost.Node)); got != `<p class="lead"></p>` {
		t.Errorf("HTML = %s", got)
	}
}

func TestInnerHTML(t *testing.T) {
	d := memhost.NewDocument()
	p := d.CreateElement("p")
	appendAll(t, d, p, d.CreateText("hi"))
	appendAll(t, d, d.Body(), p)

	if got := InnerHTML(d.Body()); got != "<p>hi</p>" {
		t.Errorf("InnerHTML = %q", got)
	}
	if got := HTML(d.Body()); got != "<body><p>hi</p></body>" {
		t.Errorf("HTML = %q", got)
	}
}

func TestRenderPretty(t *testing.T) {
	d := memhost.NewDocument()
	ul := d.CreateElement("ul")
	a, b := d.CreateElement("li"), d.CreateElement("li")
	appendAll(t, d, a, d.CreateText("a"))
	appendAll(t, d, b, d.CreateText("b"))
	appendAll(t, d, ul, a, b)

	r := NewRenderer(RendererConfig{Pretty: true})
	want := "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>\n"
	if got := r.RenderToString(ul.(*memhost.Node)); got != want {
		t.Errorf("pretty =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderNodeIDs(t *testing.T) {
	d := memhost.NewDocument()
	p := d.CreateElement("p").(*memhost.Node)

	var buf bytes.Buffer
	r := NewRenderer(RendererConfig{NodeIDs: true})
	if err := r.RenderToWriter(&buf, p); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), `<p data-node="2"></p>`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestRenderNil(t *testing.T) {
	if got := HTML(nil); got != "" {
		t.Errorf("HTML(nil) = %q", got)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, text, attr string
	}{
		{"plain", "plain", "plain"},
		{"<b>&", "&lt;b&gt;&amp;", "&lt;b&gt;&amp;"},
		{`"q" 'a'`, "&quot;q&quot; &#39;a&#39;", "&quot;q&quot; &#39;a&#39;"},
		{"a\nb\tc", "a\nb\tc", "a&#10;b&#9;c"},
	}
	for _, tt := range tests {
		if got := escapeHTML(tt.in); got != tt.text {
			t.Errorf("escapeHTML(%q) = %q, want %q", tt.in, got, tt.text)
		}
		if got := escapeAttr(tt.in); got != tt.attr {
			t.Errorf("escapeAttr(%q) = %q, want %q", tt.in, got, tt.attr)
		}
	}
}

func TestBooleanAttr(t *testing.T) {
	d := memhost.NewDocument()
	btn := d.CreateElement("button")
	d.SetAttribute(btn, "disabled", "true")
	d.SetAttribute(btn, "hidden", "")

	if got := HTML(btn.(*memhost.Node)); got != "<button disabled hidden></button>" {
		t.Errorf("HTML = %s", got)
	}
}
