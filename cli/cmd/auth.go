package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dialdesk-systems/dialdesk-stack/cli/internal/client"
	"github.com/dialdesk-systems/dialdesk-stack/cli/pkg/output"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage authentication with the DialDesk records service",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to DialDesk",
	Long:  "Authenticate with the records service and save credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		serverURL, _ := cmd.Flags().GetString("server-url")
		profile, _ := cmd.Flags().GetString("profile")

		if serverURL == "" || !cmd.Flags().Changed("server-url") {
			serverURL = cfg.GetServerURL(profile)
		}

		if username == "" {
			return fmt.Errorf("username is required")
		}
		if password == "" {
			return fmt.Errorf("password is required")
		}

		resp, err := client.New(serverURL).Login(username, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		if err := cfg.SaveProfile(profile, serverURL, resp.AccessToken, resp.RefreshToken); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}

		output.Success("Successfully logged in as %s", username)
		output.Info("Profile '%s' saved to ~/.ddesk/config.yaml", profile)
		return nil
	},
}

var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the access token",
	Long:  "Exchange the saved refresh token for a fresh access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")
		p, err := cfg.GetProfile(profile)
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		resp, err := client.New(p.ServerURL).Refresh(p.RefreshToken)
		if err != nil {
			return fmt.Errorf("refresh failed, please run 'ddesk auth login': %w", err)
		}

		if err := cfg.SaveProfile(profile, p.ServerURL, resp.AccessToken, resp.RefreshToken); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}

		output.Success("Access token refreshed for profile '%s'", profile)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from DialDesk",
	Long:  "Remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")

		if err := cfg.RemoveProfile(profile); err != nil {
			return err
		}

		output.Success("Successfully logged out from profile '%s'", profile)
		return nil
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display current user information",
	Long:  "Show information about the currently authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")
		p, err := cfg.GetProfile(profile)
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		valid, err := client.New(p.ServerURL).Validate(p.AccessToken)
		if err != nil || !valid.Valid {
			return fmt.Errorf("token invalid or expired, please run 'ddesk auth login'")
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(valid)
		}

		output.Info("User ID: %s", valid.UserID)
		output.Info("Roles:   %s", strings.Join(valid.Roles, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)

	authLoginCmd.Flags().StringP("username", "u", "", "username")
	authLoginCmd.Flags().StringP("password", "p", "", "password")
	authLoginCmd.Flags().String("server-url", "", "records service URL (default: http://localhost:8084)")
}
