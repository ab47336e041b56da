package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/hardbound/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	testCmd := &cobra.Command{
		Use:   "test [path]",
		Short: "Validate configuration file",
		Long:  "Validates config.toml syntax, environment variable substitution and settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if len(args) > 0 {
				path = args[0]
			}
			return runConfigTest(cmd.OutOrStdout(), path)
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) > 0 {
				path = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	cmd.AddCommand(testCmd, initCmd)
	return cmd
}

func runConfigTest(out io.Writer, path string) error {
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	_, _ = fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	_, _ = fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(out io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		_, _ = fmt.Fprintln(out, "Missing environment variables:")
		for _, m := range e.Missing {
			_, _ = fmt.Fprintf(out, "  - %s\n", m)
		}
		_, _ = fmt.Fprintln(out)
	}

	if len(e.Errors) > 0 {
		_, _ = fmt.Fprintln(out, "Validation errors:")
		for _, err := range e.Errors {
			_, _ = fmt.Fprintf(out, "  - %s\n", err)
		}
		_, _ = fmt.Fprintln(out)
	}
}

func printConfigSummary(out io.Writer, cfg *config.Config) {
	history := cfg.Paths.HistoryDB
	if history == "" {
		history = "(disabled)"
	}
	_, _ = fmt.Fprintln(out, "Configuration Summary:")
	_, _ = fmt.Fprintf(out, "  Library:    %s\n", cfg.Paths.Library)
	_, _ = fmt.Fprintf(out, "  Torrent:    %s\n", cfg.Paths.Torrent)
	_, _ = fmt.Fprintf(out, "  History:    %s\n", history)
	_, _ = fmt.Fprintf(out, "  Path cap:   %d\n", cfg.Link.PathCap)
	_, _ = fmt.Fprintf(out, "  Link:       zero_pad=%t also_cover=%t force=%t preflight=%t\n",
		cfg.Link.ZeroPad, cfg.Link.AlsoCover, cfg.Link.Force, cfg.Link.Preflight)
	_, _ = fmt.Fprintf(out, "  Excluded:   %v %v\n", cfg.Link.ExcludeNames, cfg.Link.ExcludeExts)
	if cfg.Ownership.SetPermissions {
		_, _ = fmt.Fprintf(out, "  Ownership:  files %s, dirs %s, user %q, group %q\n",
			cfg.Ownership.FileMode, cfg.Ownership.DirMode, cfg.Ownership.User, cfg.Ownership.Group)
	}
	_, _ = fmt.Fprintf(out, "  Log level:  %s\n", cfg.Log.Level)
}
