package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dialdesk-systems/dialdesk-stack/cli/pkg/output"
)

var officesCmd = &cobra.Command{
	Use:   "offices",
	Short: "Office commands",
}

var officesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an office",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adminID, _ := cmd.Flags().GetString("admin-id")

		c, err := apiClient(cmd)
		if err != nil {
			return err
		}

		office, err := c.CreateOffice(args[0], adminID)
		if err != nil {
			return err
		}

		output.Success("Created office %s", office.Name)
		output.Info("Office ID: %s", office.ID)
		output.Info("Admin:     %s", office.AdminID)
		return nil
	},
}

var enterprisesCmd = &cobra.Command{
	Use:   "enterprises",
	Short: "Enterprise commands",
}

var enterprisesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an enterprise in an office",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		officeID, _ := cmd.Flags().GetString("office-id")
		if officeID == "" {
			return fmt.Errorf("--office-id is required")
		}

		c, err := apiClient(cmd)
		if err != nil {
			return err
		}

		ent, err := c.CreateEnterprise(officeID, args[0])
		if err != nil {
			return err
		}

		output.Success("Created enterprise %s in office %s", ent.Name, ent.OfficeID)
		output.Info("Enterprise ID: %s", ent.ID)
		return nil
	},
}

var grantsCmd = &cobra.Command{
	Use:   "grants",
	Short: "Access grant commands",
}

var grantsCreateCmd = &cobra.Command{
	Use:   "create <office-id>",
	Short: "Grant a user access to a line",
	Long: `Grant a user access to a resource within an office.

A grant with level zero confers nothing; the resource stays invisible
to the user.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user-id")
		resourceID, _ := cmd.Flags().GetString("resource-id")
		resourceKind, _ := cmd.Flags().GetString("resource-kind")
		level, _ := cmd.Flags().GetInt("level")

		if userID == "" {
			return fmt.Errorf("--user-id is required")
		}
		if resourceID == "" {
			return fmt.Errorf("--resource-id is required")
		}

		c, err := apiClient(cmd)
		if err != nil {
			return err
		}

		grant, err := c.CreateGrant(args[0], userID, resourceKind, resourceID, level)
		if err != nil {
			return err
		}

		output.Success("Granted user %s level %d on %s %s", grant.UserID, grant.Level, grant.ResourceKind, grant.ResourceID)
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "User commands",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		superuser, _ := cmd.Flags().GetBool("superuser")
		rolesCSV, _ := cmd.Flags().GetString("roles")

		if password == "" {
			return fmt.Errorf("--password is required")
		}

		var roles []string
		if rolesCSV != "" {
			roles = strings.Split(rolesCSV, ",")
		}

		c, err := apiClient(cmd)
		if err != nil {
			return err
		}

		user, err := c.CreateUser(args[0], email, password, superuser, roles)
		if err != nil {
			return err
		}

		output.Success("Created user %s", user.Username)
		output.Info("User ID: %s", user.ID)
		output.Info("Roles:   %s", strings.Join(user.Roles, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(officesCmd)
	officesCmd.AddCommand(officesCreateCmd)
	officesCreateCmd.Flags().String("admin-id", "", "office administrator user ID (default: caller)")

	rootCmd.AddCommand(enterprisesCmd)
	enterprisesCmd.AddCommand(enterprisesCreateCmd)
	enterprisesCreateCmd.Flags().String("office-id", "", "owning office ID")

	rootCmd.AddCommand(grantsCmd)
	grantsCmd.AddCommand(grantsCreateCmd)
	grantsCreateCmd.Flags().String("user-id", "", "user to grant access to")
	grantsCreateCmd.Flags().String("resource-id", "", "resource (line) ID")
	grantsCreateCmd.Flags().String("resource-kind", "line", "resource kind")
	grantsCreateCmd.Flags().Int("level", 1, "permission level (0 revokes visibility)")

	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCreateCmd.Flags().String("email", "", "email address")
	usersCreateCmd.Flags().StringP("password", "p", "", "password")
	usersCreateCmd.Flags().Bool("superuser", false, "create as superuser")
	usersCreateCmd.Flags().String("roles", "", "comma-separated roles (default: viewer)")
}
