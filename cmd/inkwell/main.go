package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "inkwell",
		Short: "inkwell - a Markdown blog server with search, tags, themes, and comments",
		Long: `inkwell serves a static post index (posts.json) and Markdown pages as a
searchable, tag-filtered blog with server-side syntax highlighting, a
light/dark theme, and giscus comments.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", inkwell.EnvOr("INKWELL_CONFIG", "inkwell.yml"), "config file")

	root.AddCommand(
		newServeCmd(),
		newIndexCmd(),
		newThemeCmd(),
		newNewCmd(),
		newPostCmd(),
		newVersionCmd(),
	)
	return root
}

func loadConfig() (inkwell.SiteConfig, error) {
	cfg, err := inkwell.LoadConfig(cfgFile)
	if err != nil {
		return inkwell.SiteConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return inkwell.SiteConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inkwell version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell %s\n", version)
		},
	}
}
