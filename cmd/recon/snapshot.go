package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/recon/internal/config"
	"github.com/vango-dev/recon/internal/demo"
	"github.com/vango-dev/recon/internal/snapshot"
)

type snapshotFlags struct {
	bucket   string
	prefix   string
	region   string
	endpoint string
	timeout  time.Duration
}

func (f *snapshotFlags) store(cfg *config.Config) (*snapshot.Store, error) {
	if f.bucket != "" {
		cfg.Snapshot.Bucket = f.bucket
	}
	if f.prefix != "" {
		cfg.Snapshot.Prefix = f.prefix
	}
	if f.region != "" {
		cfg.Snapshot.Region = f.region
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := snapshot.NewClient(cfg.Snapshot.Region, f.endpoint)
	return snapshot.NewStore(client, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix)
}

func snapshotCmd(g *globals) *cobra.Command {
	f := &snapshotFlags{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Upload or list demo snapshots in S3",
		Long: `Snapshots hold the rendered tree (tree.html) and the binary
mutation journal (journal.bin). Credentials come from AWS_ACCESS_KEY_ID,
AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.

Examples:
  recon snapshot push --bucket=my-snaps --region=us-east-1
  recon snapshot list --endpoint=http://localhost:9000`,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&f.bucket, "bucket", "", "S3 bucket (default from recon.json)")
	flags.StringVar(&f.prefix, "prefix", "", "Key prefix (default from recon.json)")
	flags.StringVar(&f.region, "region", "", "AWS region (default from recon.json)")
	flags.StringVar(&f.endpoint, "endpoint", "", "S3-compatible endpoint URL")
	flags.DurationVar(&f.timeout, "timeout", 30*time.Second, "Request timeout")

	cmd.AddCommand(snapshotPushCmd(g, f), snapshotListCmd(g, f))
	return cmd
}

func snapshotPushCmd(g *globals, f *snapshotFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Play the demo script and upload the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			store, err := f.store(cfg)
			if err != nil {
				return err
			}

			s, err := mountDemo(cfg, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			defer s.root.Unmount()
			for _, step := range demo.Script {
				if err := demo.Play(s.root, s.doc, step); err != nil {
					return err
				}
			}

			var snap *snapshot.Snapshot
			s.root.Run(func() error {
				snap = snapshot.Capture(s.doc)
				return nil
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
			defer cancel()
			id, err := store.Upload(ctx, snap)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Uploaded snapshot %s (%d mutations)", id, len(snap.Mutations))
			return nil
		},
	}
}

func snapshotListCmd(g *globals, f *snapshotFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			store, err := f.store(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
			defer cancel()
			ids, err := store.List(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				info(cmd.OutOrStdout(), "%s", id)
			}
			return nil
		},
	}
}
