package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

var reviewSender string

// Review UI styles.
var (
	reviewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	approvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	urgentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	standardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	reviewHelp    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// reviewModel is the bubbletea model for the interactive review worklist.
// Tasks arrive urgent-first and keep that order.
type reviewModel struct {
	tasks    []models.RoutedTask
	cursor   int
	approved map[int]bool
}

func newReviewModel(tasks []models.RoutedTask) reviewModel {
	return reviewModel{
		tasks:    tasks,
		approved: make(map[int]bool),
	}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.approved[m.cursor] = !m.approved[m.cursor]
		}
	}
	return m, nil
}

func (m reviewModel) View() string {
	var b strings.Builder

	b.WriteString(reviewTitleStyle.Render("Review Queue"))
	b.WriteString("\n\n")

	for i, t := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		mark := "[ ]"
		if m.approved[i] {
			mark = approvedStyle.Render("[x]")
		}

		lane := standardStyle.Render("standard")
		if t.Lane == models.LaneHighPriorityReview {
			lane = urgentStyle.Render("urgent  ")
		}

		fmt.Fprintf(&b, "%s%s %s %.2f  %s\n", cursor, mark, lane, t.Metrics.FinalConfidence, truncate(t.Task.Description, 60))
	}

	b.WriteString("\n")
	b.WriteString(reviewHelp.Render("j/k: move • enter: toggle approve • q: done"))
	b.WriteString("\n")

	return b.String()
}

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Work an email's review queue interactively",
	Long: `Process an email and open an interactive worklist over the tasks that
need human review, high-priority items first. Toggle tasks as approved,
then quit to print the approval decisions.

Reads the email body from the given file, or from stdin when no file is
given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Pipeline == nil {
			return fmt.Errorf("pipeline not initialized")
		}

		content, err := readEmail(args)
		if err != nil {
			return err
		}

		result := Pipeline.ProcessEmail(cmd.Context(), content, reviewSender)
		if !result.Success {
			return fmt.Errorf("processing email: %s", result.Error)
		}

		if len(result.ReviewTasks) == 0 {
			fmt.Printf("No tasks need review (%d auto-approved).\n", result.QueueSummary.AutoApproved)
			return nil
		}

		p := tea.NewProgram(newReviewModel(result.ReviewTasks))
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("running review UI: %w", err)
		}

		m, ok := final.(reviewModel)
		if !ok {
			return nil
		}

		var approved int
		for i, t := range m.tasks {
			if m.approved[i] {
				approved++
				fmt.Printf("approved: %s\n", t.Task.Description)
			}
		}
		fmt.Printf("%d of %d review task(s) approved.\n", approved, len(m.tasks))

		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewSender, "sender", "", "Email sender, used as extraction context")
	rootCmd.AddCommand(reviewCmd)
}
