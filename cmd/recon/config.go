package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/recon/internal/config"
	"github.com/vango-dev/recon/internal/errors"
)

func configCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or show recon.json",
	}
	cmd.AddCommand(configInitCmd(), configShowCmd(g))
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a recon.json with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path := filepath.Join(dir, config.ConfigFileName)
			if !force && config.Exists(dir) {
				return errors.New("E120").
					WithDetail(path + " already exists").
					WithSuggestion("Pass --force to overwrite it")
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.New("E120").Wrap(err)
			}
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing recon.json")

	return cmd
}

func configShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}
