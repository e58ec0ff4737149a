package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell/scaffold"
)

func newNewCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "new <dir>",
		Short: "Create a new inkwell site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Creating new inkwell site: %s\n\n", dir)
			if err := scaffold.Generate(dir, scaffold.NewData(dir, lang, time.Now()), out); err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Done! Next steps:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  cd %s\n", dir)
			fmt.Fprintln(out, "  inkwell serve")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Set session_secret in inkwell.yml (or INKWELL_SESSION_SECRET) for production.")
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "ko", "site language (ko or en)")
	return cmd
}

func newPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <title>",
		Short: "Create a new Markdown post in the pages directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path, err := scaffold.NewPost(filepath.Join(cfg.ContentDir, cfg.PagesDir), args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\nRun 'inkwell index' after editing to publish it.\n", path)
			return nil
		},
	}
}
