package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

var (
	processSender string
	processOutput string
)

// Lane heading styles for text output.
var (
	laneApprovedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	laneStandardStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	laneUrgentStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Extract and route tasks from an email",
	Long: `Extract tasks from an email, score each extraction, and route every task
into a review queue.

Reads the email body from the given file, or from stdin when no file is
given. Output defaults to a human-readable report; use --output json or
--output yaml for machine-readable batch results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Pipeline == nil {
			return fmt.Errorf("pipeline not initialized")
		}

		content, err := readEmail(args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(content) == "" {
			return fmt.Errorf("email content is empty")
		}

		result := Pipeline.ProcessEmail(cmd.Context(), content, processSender)

		switch processOutput {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
		case "yaml":
			data, err := yaml.Marshal(result)
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
		case "text":
			renderBatchResult(cmd.OutOrStdout(), result)
		default:
			return fmt.Errorf("unknown output format %q (use text, json, or yaml)", processOutput)
		}

		if !result.Success {
			return fmt.Errorf("processing email: %s", result.Error)
		}
		return nil
	},
}

// readEmail reads the email body from the file argument or stdin.
func readEmail(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading email file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading email from stdin: %w", err)
	}
	return string(data), nil
}

// renderBatchResult prints the human-readable report: a summary line and
// one section per non-empty lane, in trust order.
func renderBatchResult(w io.Writer, result *models.BatchResult) {
	if !result.Success {
		fmt.Fprintf(w, "Extraction failed: %s\n", result.Error)
		return
	}

	s := result.QueueSummary
	fmt.Fprintf(w, "Processed %d task(s): %d auto-approved, %d standard review, %d high-priority review\n\n",
		s.TotalTasks, s.AutoApproved, s.StandardReview, s.HighPriorityReview)

	printLane(w, laneApprovedStyle.Render("AUTO-APPROVED"), result.AutoApprovedTasks)

	var standard, urgent []models.RoutedTask
	for _, t := range result.ReviewTasks {
		if t.Lane == models.LaneHighPriorityReview {
			urgent = append(urgent, t)
		} else {
			standard = append(standard, t)
		}
	}
	printLane(w, laneUrgentStyle.Render("HIGH-PRIORITY REVIEW"), urgent)
	printLane(w, laneStandardStyle.Render("STANDARD REVIEW"), standard)
}

// printLane prints one queue section as a table of tasks.
func printLane(w io.Writer, heading string, tasks []models.RoutedTask) {
	if len(tasks) == 0 {
		return
	}

	fmt.Fprintf(w, "== %s (%d) ==\n", heading, len(tasks))
	for _, t := range tasks {
		deadline := "none"
		if t.Task.Deadline != nil {
			deadline = *t.Task.Deadline
		}
		fmt.Fprintf(w, "  %.2f  %-8s  %-20s  %s\n",
			t.Metrics.FinalConfidence, t.Task.Priority, truncate(t.Task.Assignee, 20), t.Task.Description)
		fmt.Fprintf(w, "        %s\n", dimStyle.Render(fmt.Sprintf("deadline: %s", deadline)))
		for _, adj := range t.Metrics.Adjustments {
			fmt.Fprintf(w, "        %s\n", dimStyle.Render(adj))
		}
	}
	fmt.Fprintln(w)
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func init() {
	processCmd.Flags().StringVar(&processSender, "sender", "", "Email sender, used as extraction context")
	processCmd.Flags().StringVar(&processOutput, "output", "text", "Output format (text, json, yaml)")
	rootCmd.AddCommand(processCmd)
}
