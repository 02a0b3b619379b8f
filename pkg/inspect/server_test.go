package inspect

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/host/memhost"
	"github.com/vango-dev/recon/pkg/protocol"
	"github.com/vango-dev/recon/pkg/reconcile"
	"github.com/vango-dev/recon/pkg/vdom"
)

type fixture struct {
	server *Server
	doc    *memhost.Document
	root   *reconcile.Root
	reg    *prometheus.Registry
	clicks int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{doc: memhost.NewDocument(), reg: prometheus.NewRegistry()}

	e := reconcile.New(f.doc, reconcile.WithLogger(quiet))
	root, err := e.Mount(vdom.H("div", vdom.Props{"id": "app"},
		vdom.H("button", vdom.Props{"onClick": func() { f.clicks++ }}, "go"),
	), f.doc.Body())
	if err != nil {
		t.Fatal(err)
	}
	f.root = root
	f.server = New(f.doc, WithRunner(root), WithGatherer(f.reg), WithLogger(quiet))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) button() *memhost.Node {
	return memhost.FindTag(f.doc.Body(), "button")[0]
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, "GET", "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestTree(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, "GET", "/tree", nil)

	want := `<div id="app"><button data-on-click="true">go</button></div>`
	if rec.Body.String() != want {
		t.Errorf("tree = %s\nwant   %s", rec.Body.String(), want)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestJournalJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, "GET", "/journal", nil)
	var ms []host.Mutation
	if err := json.NewDecoder(rec.Body).Decode(&ms); err != nil {
		t.Fatal(err)
	}
	if len(ms) != f.doc.Journal().Len() || len(ms) == 0 {
		t.Errorf("journal = %d mutations, want %d", len(ms), f.doc.Journal().Len())
	}

	rec = f.do(t, "GET", "/journal?since="+strconv.FormatUint(f.doc.Journal().Seq(), 10), nil)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("journal since latest = %s", got)
	}

	if rec := f.do(t, "GET", "/journal?since=x", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad since = %d", rec.Code)
	}
}

func TestJournalBinary(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, "GET", "/journal?format=binary", nil)

	frame, err := protocol.ReadFrame(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	ms, err := protocol.DecodeMutations(frame.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != f.doc.Journal().Len() {
		t.Errorf("decoded %d mutations, want %d", len(ms), f.doc.Journal().Len())
	}
}

func TestEventDispatch(t *testing.T) {
	f := newFixture(t)
	id := strconv.FormatUint(f.button().ID(), 10)

	tests := []struct {
		name   string
		target string
		body   string
		code   int
	}{
		{"fires", "/events/" + id + "/click", "", http.StatusNoContent},
		{"with payload", "/events/" + id + "/click", `{"x":1}`, http.StatusNoContent},
		{"no listener", "/events/" + id + "/keydown", "", http.StatusNotFound},
		{"unknown node", "/events/999999/click", "", http.StatusNotFound},
		{"bad id", "/events/abc/click", "", http.StatusBadRequest},
		{"bad payload", "/events/" + id + "/click", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			if rec := f.do(t, "POST", tt.target, body); rec.Code != tt.code {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.code, rec.Body.String())
			}
		})
	}
	if f.clicks != 2 {
		t.Errorf("clicks = %d, want 2", f.clicks)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	promauto.With(f.reg).NewCounter(prometheus.CounterOpts{Name: "inspect_test_total", Help: "test"}).Inc()

	rec := f.do(t, "GET", "/metrics", nil)
	if !strings.Contains(rec.Body.String(), "inspect_test_total 1") {
		t.Errorf("metrics body missing counter:\n%s", rec.Body.String())
	}
}

func TestLiveStream(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.server.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.server.Hub().Run(ctx)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for f.server.Hub().ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	div := f.root.Node()
	f.root.Run(func() error {
		f.doc.SetAttribute(div, "title", "live")
		return nil
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d", kind)
	}
	frame, err := protocol.DecodeFrame(data)
	if err != nil || frame.Type != protocol.FrameMutations {
		t.Fatalf("frame = %+v, %v", frame, err)
	}
	ms, err := protocol.DecodeMutations(frame.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 1 || ms[0].Op != host.OpSetAttr || ms[0].Name != "title" || ms[0].Value != "live" {
		t.Errorf("streamed %+v", ms)
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	h := NewHub(1, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Publish(host.Mutation{Seq: 1})
	h.Publish(host.Mutation{Seq: 2})
	if h.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", h.Dropped())
	}
}
