package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dialdesk-systems/dialdesk-stack/cli/internal/seeder"
	"github.com/dialdesk-systems/dialdesk-stack/cli/pkg/output"
)

var (
	seedCfgFile     string
	seedOffices     int
	seedLines       int
	seedEnterprises int
	seedRecords     int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seeder commands",
	Long:  "Generate realistic offices, lines, enterprises, and history records for development",
}

var seedRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the data seeder",
	Long: `Generate synthetic data and send it to the records service.

Configuration cascade (priority order):
  1. Command-line flags
  2. ./seeder.yaml (project directory)
  3. ~/.ddesk/seeder.yaml (user directory)
  4. Built-in defaults

Examples:
  # Seed with defaults
  ddesk seed run

  # A bigger data set
  ddesk seed run --offices 10 --records 200`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := seeder.LoadConfig(seedCfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Flags().Changed("offices") {
			config.Offices = seedOffices
		}
		if cmd.Flags().Changed("lines") {
			config.LinesPerOffice = seedLines
		}
		if cmd.Flags().Changed("enterprises") {
			config.EnterprisesPerOffice = seedEnterprises
		}
		if cmd.Flags().Changed("records") {
			config.RecordsPerEnterprise = seedRecords
		}

		c, err := apiClient(cmd)
		if err != nil {
			return err
		}

		output.Info("Seeding %s: %d offices, %d lines and %d enterprises each, %d records per enterprise",
			config.ServerURL, config.Offices, config.LinesPerOffice,
			config.EnterprisesPerOffice, config.RecordsPerEnterprise)

		stats, err := seeder.NewRunner(config, c).Run()
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}

		output.Success("Seeding complete")
		output.Info("  Offices:     %d", stats.Offices)
		output.Info("  Lines:       %d", stats.Lines)
		output.Info("  Enterprises: %d", stats.Enterprises)
		output.Info("  Records:     %d", stats.Records)
		if stats.Failed > 0 {
			output.Warn("  Failed:      %d", stats.Failed)
		}
		return nil
	},
}

var seedValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate seeder configuration",
	Long:  "Check if the seeder configuration file is valid without running the seeder",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := seeder.LoadConfig(seedCfgFile)
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		fmt.Println("Configuration is valid:")
		fmt.Printf("  Server URL: %s\n", config.ServerURL)
		fmt.Printf("  Offices: %d\n", config.Offices)
		fmt.Printf("  Lines per office: %d\n", config.LinesPerOffice)
		fmt.Printf("  Enterprises per office: %d\n", config.EnterprisesPerOffice)
		fmt.Printf("  Records per enterprise: %d\n", config.RecordsPerEnterprise)
		fmt.Printf("  Time spread: %v\n", config.TimeSpread)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedRunCmd)
	seedCmd.AddCommand(seedValidateCmd)

	seedCmd.PersistentFlags().StringVar(&seedCfgFile, "seeder-config", "", "seeder config file (default: ./seeder.yaml or ~/.ddesk/seeder.yaml)")

	seedRunCmd.Flags().IntVar(&seedOffices, "offices", 0, "number of offices to create")
	seedRunCmd.Flags().IntVar(&seedLines, "lines", 0, "lines per office")
	seedRunCmd.Flags().IntVar(&seedEnterprises, "enterprises", 0, "enterprises per office")
	seedRunCmd.Flags().IntVar(&seedRecords, "records", 0, "records per enterprise")
}
