package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsight/matsight/apps/matctl/internal/cliconfig"
	"github.com/matsight/matsight/apps/matctl/internal/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe a running MatSight API",
	Long:  "Hits the calculator endpoints, the divide-by-zero error path and the persistence status on a running API and reports per-check results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}

		baseURL := cfg.GetString("base-url")
		if baseURL == "" {
			baseURL = cfg.GetString(cliconfig.BaseUrlKey)
		}

		cmd.Printf("🔎 probing %s\n", baseURL)
		results := probe.NewRunner(baseURL).Run(cmd.Context())

		for _, res := range results {
			mark := "✓"
			if !res.OK {
				mark = "❌"
			}
			cmd.Printf("  %s %-16s %s\n", mark, res.Name, res.Detail)
		}

		if !probe.Passed(results) {
			return fmt.Errorf("probe failed")
		}
		cmd.Printf("✓ all %d checks passed\n", len(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
