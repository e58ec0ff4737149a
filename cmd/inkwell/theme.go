package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell"
	"github.com/eringen/inkwell/theme"
)

// stderrLogger adapts the standard logger to theme.Logger.
type stderrLogger struct{}

func (stderrLogger) Warnf(format string, args ...interface{}) {
	log.Printf("warning: "+format, args...)
}

func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the site-wide default theme",
		Long: `The site default applies to visitors who have not chosen a theme and whose
browser does not report a color-scheme preference.`,
	}

	// withManager opens the settings store and hands a theme manager for the
	// site default to fn.
	withManager := func(cmd *cobra.Command, fn func(*theme.Manager) error) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := inkwell.NewStore(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		fallback, _ := theme.Parse(cfg.DefaultTheme)
		m := theme.NewManager(cmd.Context(), inkwell.SettingStore{Store: store, Key: theme.Key}, fallback, stderrLogger{})
		return fn(m)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the site default theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(m *theme.Manager) error {
				fmt.Fprintln(cmd.OutOrStdout(), m.Current())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set light|dark",
		Short:     "Set the site default theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(theme.Light), string(theme.Dark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := theme.Parse(args[0])
			if !ok {
				return fmt.Errorf("theme must be light or dark, got %q", args[0])
			}
			return withManager(cmd, func(m *theme.Manager) error {
				if err := m.Set(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Flip the site default theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(m *theme.Manager) error {
				next, err := m.Toggle(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), next)
				return nil
			})
		},
	})
	return cmd
}
