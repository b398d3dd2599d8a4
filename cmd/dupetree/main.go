package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	dupetree "github.com/mattkeenan/dupetree/pkg"
	"github.com/spf13/cobra"
)

var version = "dev"

// cliFlags holds every flag of the root command and its subcommands
type cliFlags struct {
	force  bool
	silent bool
	debug  bool

	format     string
	exclude    []string
	overrides  []string
	verbose    int
	debugFlags string
	configPath string

	save bool
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:   "dupetree TARGET [CONTEXT]",
		Short: "Find files elsewhere that duplicate the files in a target directory",
		Long: `dupetree lists files under CONTEXT whose content duplicates a file under TARGET.

TARGET is the directory holding the originals. Its files are never removed.
CONTEXT is searched for duplicates and defaults to the current directory.
Files inside TARGET are never reported as duplicates of themselves, even when
CONTEXT contains TARGET.

Files are compared by length and a hash of their first and last 8 MiB.`,
		Args:          cobra.RangeArgs(1, 2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDupetree(cmd, args, flags)
		},
	}

	f := rootCmd.Flags()
	f.BoolVarP(&flags.force, "force", "f", false, "Remove duplicates")
	f.BoolVarP(&flags.silent, "silent", "s", false, "Do not report deleted files")
	f.BoolVarP(&flags.debug, "debug", "d", false, "Debug delete process: report the kept file instead of deleting")
	f.StringVar(&flags.format, "format", "", "Output format: human, fdupes, json, yaml")
	f.StringArrayVar(&flags.exclude, "exclude", nil, "Glob of paths to skip, relative to each root (repeatable)")
	f.StringArrayVar(&flags.overrides, "set", nil, "Override a config value, key:value (repeatable)")
	f.CountVarP(&flags.verbose, "verbose", "v", "Increase verbosity (repeatable)")
	f.StringVar(&flags.debugFlags, "debug-flags", "", "Comma separated debug flags: walk, hash, match, remove")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/dupetree/config)")

	rootCmd.AddCommand(newConfigCmd(flags))
	return rootCmd
}

// loadConfig reads the config file and applies --set and --format on top
func loadConfig(flags *cliFlags) (*dupetree.Config, error) {
	configPath := flags.configPath
	if configPath == "" {
		var err error
		if configPath, err = dupetree.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := dupetree.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	overrides := append([]string{}, flags.overrides...)
	if flags.format != "" {
		overrides = append(overrides, "format:"+flags.format)
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Path(), err)
	}
	return cfg, nil
}

func runDupetree(cmd *cobra.Command, args []string, flags *cliFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	verboseConfig := cfg.GetVerboseConfig()
	dupetree.SetVerboseLevel(max(flags.verbose, verboseConfig.Level))
	if flags.debugFlags != "" {
		dupetree.SetDebugFlags(flags.debugFlags)
	} else {
		dupetree.SetDebugFlags(verboseConfig.Debug)
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	opts := dupetree.Options{
		Target:     args[0],
		WorkingDir: workingDir,
		Force:      flags.force,
		Silent:     flags.silent,
		Debug:      flags.debug,
	}
	if len(args) > 1 {
		opts.Context = args[1]
	}

	opts.Ignore, err = dupetree.NewIgnoreManager(flags.exclude...)
	if err != nil {
		return err
	}
	if err := opts.ApplyConfig(cfg); err != nil {
		return err
	}

	contextName := opts.Context
	if contextName == "" {
		contextName = "."
	}
	rw, err := dupetree.NewReportWriter(cmd.OutOrStdout(), cfg.GetOutputConfig().Format, opts.Target, contextName)
	if err != nil {
		return err
	}

	dupetree.VerboseLog(1, "run %s: target %s, context %s", rw.RunID(), opts.Target, contextName)
	result, err := dupetree.Run(opts, rw)
	if err != nil {
		return err
	}
	if result != nil {
		dupetree.VerboseLog(1, "%d duplicates matched, %d deleted, %s reclaimed",
			result.Matched, result.Deleted, dupetree.FormatHumanSize(result.BytesReclaimed))
	}
	return nil
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}
