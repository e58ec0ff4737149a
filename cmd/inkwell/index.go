package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/eringen/inkwell/index"
)

func newIndexCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the post index from the front matter of every page",
		Long: `index scans <content_dir>/<pages_dir> for Markdown files, reads their
front matter, and rewrites <content_dir>/<index_name> newest first. The file
is replaced atomically, so a running server never reads a partial index.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.ContentURL != "" {
				return fmt.Errorf("content_url is set; the index can only be built for a local content_dir")
			}

			idx, err := index.Build(os.DirFS(cfg.ContentDir), cfg.PagesDir)
			if err != nil {
				return fmt.Errorf("build index: %w", err)
			}

			var buf bytes.Buffer
			if err := index.Encode(&buf, idx); err != nil {
				return err
			}
			if dryRun {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			out := filepath.Join(cfg.ContentDir, cfg.IndexName)
			if err := atomic.WriteFile(out, &buf); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d posts to %s\n", len(idx), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the index instead of writing it")
	return cmd
}
