package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deptiers/pkg/layout"
	"github.com/matzehuels/deptiers/pkg/pipeline"
)

// viewCommand creates the view command, an interactive tier browser.
func (c *CLI) viewCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "view [records-file|package.json|-]",
		Short: "Browse a dependency layout tier by tier",
		Long: `Browse a dependency layout tier by tier in the terminal.

Tiers are listed in drawing order. Move with the arrow keys (or j/k); the
panel below the list shows what the selected package depends on and what
depends on it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.PipelineOptions())
			if err := setInput(&opts, args, cmd.InOrStdin()); err != nil {
				return err
			}
			if opts.Input == "-" {
				return fmt.Errorf("view reads the terminal; pass a file instead of stdin")
			}
			opts.Logger = c.Logger

			runner, err := c.newRunner(cmd.Context(), flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			records, err := pipeline.Load(opts)
			if err != nil {
				return err
			}
			res, err := runner.Layout(cmd.Context(), records, opts)
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(newViewModel(res, inputArg(opts)), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.bindInput(cmd)
	flags.bindLayout(cmd)

	return cmd
}

// =============================================================================
// viewModel - tier browser
// =============================================================================

var (
	viewTierStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	viewPanelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// viewRow is one line of the list: a tier header or a node.
type viewRow struct {
	tier int
	node int // index into res.Nodes, -1 for a tier header
}

type viewModel struct {
	res    *layout.Result
	title  string
	rows   []viewRow
	cursor int // index into rows, always on a node row
	offset int
	height int

	dependsOn  map[int][]int
	requiredBy map[int][]int
}

func newViewModel(res *layout.Result, title string) viewModel {
	m := viewModel{
		res:        res,
		title:      title,
		height:     15,
		dependsOn:  make(map[int][]int),
		requiredBy: make(map[int][]int),
	}
	for _, t := range res.DrawOrder() {
		m.rows = append(m.rows, viewRow{tier: t, node: -1})
		for _, idx := range res.Order(t) {
			m.rows = append(m.rows, viewRow{tier: t, node: idx})
		}
	}
	for _, e := range res.Edges {
		m.dependsOn[e.From] = append(m.dependsOn[e.From], e.To)
		m.requiredBy[e.To] = append(m.requiredBy[e.To], e.From)
	}
	m.cursor = m.step(-1, 1)
	return m
}

// step returns the next node row from i in direction dir, or i if none.
func (m viewModel) step(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(m.rows); j += dir {
		if m.rows[j].node >= 0 {
			return j
		}
	}
	if i < 0 {
		return 0
	}
	return i
}

// selected returns the node index under the cursor, or -1.
func (m viewModel) selected() int {
	if m.cursor < len(m.rows) {
		return m.rows[m.cursor].node
	}
	return -1
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.cursor = m.step(m.cursor, -1)
		case "down", "j":
			m.cursor = m.step(m.cursor, 1)
		case "home", "g":
			m.cursor = m.step(-1, 1)
		case "end", "G":
			m.cursor = m.step(len(m.rows), -1)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-12, 5)
	}

	if m.cursor < m.offset+1 {
		m.offset = max(m.cursor-1, 0)
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m, nil
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d packages · %d edges · %d tiers", len(m.res.Nodes), len(m.res.Edges), m.res.TierCount())))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if m.res.Empty() {
		b.WriteString(StyleWarning.Render("No dependencies to display."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		if row.node < 0 {
			b.WriteString(viewTierStyle.Render(fmt.Sprintf("tier %d", row.tier)))
			b.WriteString(StyleDim.Render(fmt.Sprintf("  (%d)", m.res.Counts[row.tier])))
			b.WriteString("\n")
			continue
		}
		label := m.res.Nodes[row.node].Label
		if i == m.cursor {
			b.WriteString(viewSelectedStyle.Render("  ▸ " + label))
		} else {
			b.WriteString(viewNormalStyle.Render("    " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(viewPanelStyle.Render(m.details()))
	b.WriteString("\n")
	return b.String()
}

// details describes the selected node.
func (m viewModel) details() string {
	idx := m.selected()
	if idx < 0 {
		return ""
	}
	n := m.res.Nodes[idx]

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.Key.Label()))
	fmt.Fprintf(&b, "\n%s %d   %s %s",
		StyleDim.Render("tier"), n.Tier,
		StyleDim.Render("position"), fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y))
	b.WriteString("\n" + StyleDim.Render("depends on  ") + m.labels(m.dependsOn[idx]))
	b.WriteString("\n" + StyleDim.Render("required by ") + m.labels(m.requiredBy[idx]))
	return b.String()
}

func (m viewModel) labels(idxs []int) string {
	if len(idxs) == 0 {
		return StyleDim.Render("none")
	}
	parts := make([]string, len(idxs))
	for i, idx := range idxs {
		parts[i] = m.res.Nodes[idx].Key.Label()
	}
	return strings.Join(parts, ", ")
}
