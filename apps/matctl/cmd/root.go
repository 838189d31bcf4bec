package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsight/matsight/apps/matctl/internal/cliconfig"
)

type contextKey string

const configContextKey contextKey = "matsightconfig"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "matctl",
		Short: "CLI for operating the MatSight services (models, storage, probes)",
		Long: `matctl is a small command-line tool for operating the MatSight
calculator and detection services. It uploads model weights to the object
store, verifies what is deployed, and probes a running API to confirm the
endpoints and the persistence path behave.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliconfig.LoadConfig(cfgFile)
			if err != nil {
				return err
			}

			if err := cfg.Viper().BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
			cmd.SetContext(ctx)

			return nil
		},
	}
)

// GetConfig retrieves the Config from the command context
func GetConfig(cmd *cobra.Command) (*cliconfig.Config, error) {
	ctx := cmd.Context()
	cfg, ok := ctx.Value(configContextKey).(*cliconfig.Config)
	if !ok {
		return nil, errors.New("no config in context")
	}
	return cfg, nil
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML). Searches: matsight.yaml, .matsight/config.yaml")
	rootCmd.PersistentFlags().String("base-url", "", "Base URL for the MatSight API (overrides config)")
}
