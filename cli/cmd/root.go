package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dialdesk-systems/dialdesk-stack/cli/internal/client"
	"github.com/dialdesk-systems/dialdesk-stack/cli/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ddesk",
	Short: "DialDesk CLI",
	Long: `ddesk is the command-line interface for the DialDesk records service.

Manage authentication, list office lines, browse enterprise history,
ingest records, and seed development environments from your terminal.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ddesk/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "default", "profile to use")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}

// apiClient builds a client authenticated with the tokens saved for the
// command's profile.
func apiClient(cmd *cobra.Command) (*client.Client, error) {
	profile, _ := cmd.Flags().GetString("profile")
	p, err := cfg.GetProfile(profile)
	if err != nil {
		return nil, fmt.Errorf("not logged in: %w (run 'ddesk auth login')", err)
	}
	return client.New(p.ServerURL).WithToken(p.AccessToken), nil
}
