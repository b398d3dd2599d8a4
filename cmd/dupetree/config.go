package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(flags *cliFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after defaults, the config file and --set overrides
have been applied. With --save the result is written back to the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			if flags.save {
				if err := cfg.Save(); err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", cfg.Path())
			}

			_, err = cfg.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	configCmd.Flags().StringArrayVar(&flags.overrides, "set", nil, "Override a config value, key:value (repeatable)")
	configCmd.Flags().BoolVar(&flags.save, "save", false, "Write the effective configuration to the config file")
	return configCmd
}
