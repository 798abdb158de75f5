package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dialdesk-systems/dialdesk-stack/cli/internal/client"
	"github.com/dialdesk-systems/dialdesk-stack/cli/pkg/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Enterprise history commands",
	Long:  "Browse and ingest enterprise history records",
}

var historyGetCmd = &cobra.Command{
	Use:   "get <enterprise-id>",
	Short: "Fetch the history feed of an enterprise",
	Long: `Fetch the merged history feed of an enterprise, newest first.

The feed combines calls, messages, and their v2 session variants. The
date window only applies when both --from and --to are given; a single
bound is ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		c, err := apiClient(cmd)
		if err != nil {
			return err
		}

		resp, err := c.History(args[0], from, to)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(resp)
		}

		if resp.Count == 0 {
			output.Info("No history for enterprise %s", resp.EnterpriseID)
			return nil
		}

		table := output.NewTable([]string{"KIND", "ID", "CREATED", "SUMMARY"})
		for _, item := range resp.History {
			kind := item.Kind()
			fields := item[kind]
			table.AddRow([]string{
				kind,
				stringField(fields, "id"),
				stringField(fields, "created_at"),
				summarize(kind, fields),
			})
		}
		table.Render()
		output.Info("\n%d items", resp.Count)
		return nil
	},
}

var historyIngestCmd = &cobra.Command{
	Use:   "ingest <enterprise-id>",
	Short: "Ingest a history record",
	Long: `Ingest one history record for an enterprise.

The record is passed as JSON in the single-key wrapper form, either
inline via --record or through stdin:

  ddesk history ingest ent-1 --record '{"call":{"caller":"+15550100","callee":"+15550200","status":"completed"}}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("record")
		if raw == "" {
			return fmt.Errorf("--record is required")
		}

		var record client.IngestRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return fmt.Errorf("invalid record JSON: %w", err)
		}

		c, err := apiClient(cmd)
		if err != nil {
			return err
		}

		item, err := c.Ingest(args[0], &record)
		if err != nil {
			return err
		}

		output.Success("Ingested %s record %s", item.Kind(), stringField(item[item.Kind()], "id"))
		return nil
	},
}

func stringField(fields map[string]interface{}, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}

// summarize renders a one-line description of a history item for table
// output, by kind.
func summarize(kind string, fields map[string]interface{}) string {
	switch kind {
	case "call", "call_v2":
		return fmt.Sprintf("%s → %s", stringField(fields, "caller"), stringField(fields, "callee"))
	case "message", "message_v2":
		body := stringField(fields, "body")
		if len(body) > 40 {
			body = body[:37] + "..."
		}
		return fmt.Sprintf("%s → %s: %s", stringField(fields, "sender"), stringField(fields, "recipient"), body)
	}
	return ""
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyGetCmd)
	historyCmd.AddCommand(historyIngestCmd)

	historyGetCmd.Flags().String("from", "", "window start (e.g. 2024-01-01 or RFC3339)")
	historyGetCmd.Flags().String("to", "", "window end, inclusive")
	historyIngestCmd.Flags().StringP("record", "r", "", "record JSON in single-key wrapper form")
}
