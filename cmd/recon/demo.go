package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/recon/internal/config"
	"github.com/vango-dev/recon/internal/demo"
	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/host/memhost"
	"github.com/vango-dev/recon/pkg/reconcile"
	"github.com/vango-dev/recon/pkg/render"
)

// session is a mounted demo application.
type session struct {
	doc  *memhost.Document
	root *reconcile.Root
}

// mountDemo mounts the demo into a fresh document. The adapter wraps the
// document when non-nil.
func mountDemo(cfg *config.Config, w io.Writer, wrap func(host.Adapter) host.Adapter, extra ...reconcile.Option) (*session, error) {
	doc := memhost.NewDocument()
	var adapter host.Adapter = doc
	if wrap != nil {
		adapter = wrap(doc)
	}

	opts := append(cfg.EngineOptions(), reconcile.WithLogger(newLogger(cfg, w).With("component", "reconcile")))
	opts = append(opts, extra...)

	root, err := reconcile.New(adapter, opts...).Mount(demo.Tree(), doc.Body())
	if err != nil {
		return nil, err
	}
	return &session{doc: doc, root: root}, nil
}

// html serializes the body under the root's lock.
func (s *session) html(pretty bool) string {
	var out string
	s.root.Run(func() error {
		out = render.NewRenderer(render.RendererConfig{Pretty: pretty, SkipRoot: true}).
			RenderToString(s.doc.Body())
		return nil
	})
	return out
}

func demoCmd(g *globals) *cobra.Command {
	var (
		pretty bool
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted demo and print each tree",
		Long: `Mount the demo application (a counter and a keyed list) into an
in-memory document, play the scripted interactions, and print the HTML
after each step along with the mutations it caused.

Examples:
  recon demo
  recon demo --pretty --stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			return runDemo(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, pretty, stats)
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the printed HTML")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print mutation counts by type")

	return cmd
}

func runDemo(out, logs io.Writer, cfg *config.Config, pretty, stats bool) error {
	start := time.Now()
	s, err := mountDemo(cfg, logs, nil)
	if err != nil {
		return err
	}
	defer s.root.Unmount()

	journal := s.doc.Journal()
	fmt.Fprintf(out, "# mount (%d mutations)\n%s\n", journal.Len(), s.html(pretty))

	for _, step := range demo.Script {
		seq := journal.Seq()
		if err := demo.Play(s.root, s.doc, step); err != nil {
			return err
		}
		fmt.Fprintf(out, "# %s (%d mutations)\n%s\n", step.Name, len(journal.Since(seq)), s.html(pretty))
	}

	if stats {
		fmt.Fprintln(out, "# mutations by type")
		for _, op := range host.Ops {
			if n := journal.Count(op); n > 0 {
				fmt.Fprintf(out, "  %-14s %d\n", op, n)
			}
		}
	}
	success(out, "Played %d steps in %s", len(demo.Script), time.Since(start).Round(time.Microsecond))
	return nil
}
