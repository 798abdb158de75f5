package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dialdesk-systems/dialdesk-stack/cli/pkg/output"
)

var linesCmd = &cobra.Command{
	Use:   "lines",
	Short: "Office line commands",
	Long:  "List and create phone lines within an office",
}

var linesListCmd = &cobra.Command{
	Use:   "list <office-id>",
	Short: "List the lines of an office",
	Long: `List the lines of an office visible to the current user.

Superusers and the office administrator see every line; other users see
only the lines they hold an active access grant for.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient(cmd)
		if err != nil {
			return err
		}

		resp, err := c.ListLines(args[0])
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(resp)
		}

		if len(resp.Lines) == 0 {
			output.Info("No lines visible in office %s", resp.OfficeID)
			return nil
		}

		table := output.NewTable([]string{"ID", "NAME", "NUMBER", "CREATED"})
		for _, line := range resp.Lines {
			table.AddRow([]string{line.ID, line.Name, line.Number, line.CreatedAt.Format(time.RFC3339)})
		}
		table.Render()
		return nil
	},
}

var linesCreateCmd = &cobra.Command{
	Use:   "create <office-id>",
	Short: "Create a line in an office",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		number, _ := cmd.Flags().GetString("number")

		if name == "" {
			return fmt.Errorf("--name is required")
		}
		if number == "" {
			return fmt.Errorf("--number is required")
		}

		c, err := apiClient(cmd)
		if err != nil {
			return err
		}

		line, err := c.CreateLine(args[0], name, number)
		if err != nil {
			return err
		}

		output.Success("Created line %s (%s) in office %s", line.Name, line.Number, line.OfficeID)
		output.Info("Line ID: %s", line.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linesCmd)
	linesCmd.AddCommand(linesListCmd)
	linesCmd.AddCommand(linesCreateCmd)

	linesCreateCmd.Flags().StringP("name", "n", "", "line name")
	linesCreateCmd.Flags().String("number", "", "phone number")
}
