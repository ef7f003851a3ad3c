package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Example is a built-in declaration snippet for teaching.
type Example struct {
	Name    string
	Summary string
	Source  string
}

// examples are the built-in snippets, ordered from simplest to hardest.
var examples = []Example{
	{
		Name:    "basics",
		Summary: "a variable and a pointer to it",
		Source:  "int x = 42;\nint* p = &x;\n",
	},
	{
		Name:    "reference",
		Summary: "a reference aliasing a variable",
		Source:  "double pi = 3.14;\ndouble& alias = pi;\n",
	},
	{
		Name:    "chain",
		Summary: "a pointer-to-pointer chain",
		Source:  "int v = 7;\nint* p = &v;\nint** pp = &p;\n",
	},
	{
		Name:    "nullptr",
		Summary: "a null pointer next to a bound one",
		Source:  "int a = 1;\nint* p = &a;\nint* q = nullptr;\n",
	},
	{
		Name:    "const",
		Summary: "const values and const pointers",
		Source:  "const int limit = 100;\nint n = 5;\nint* const fixed = &n;\nconst int* view = &limit;\n",
	},
	{
		Name:    "fanout",
		Summary: "several pointers sharing a target",
		Source:  "int shared = 9;\nint* p1 = &shared;\nint* p2 = &shared;\nint& r = shared;\n",
	},
	{
		Name:    "dangling",
		Summary: "a pointer to a name that was never declared",
		Source:  "int x = 3;\nint* bad = &missing;\n",
	},
}

// exampleByName returns the named example, if it exists.
func exampleByName(name string) (Example, bool) {
	for _, ex := range examples {
		if ex.Name == name {
			return ex, true
		}
	}
	return Example{}, false
}

// examplesCommand creates the examples command for browsing built-in
// snippets.
func (c *CLI) examplesCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "examples [name]",
		Short: "Browse built-in declaration snippets",
		Long: `Browse built-in declaration snippets.

Without arguments the command lists all snippets. With a name it prints
that snippet's source, ready to pipe into render:

  memviz examples chain | memviz render -

With --pick an interactive list opens; the chosen snippet's source is
printed to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				ex, ok := exampleByName(args[0])
				if !ok {
					return fmt.Errorf("unknown example: %q (run 'memviz examples' to list)", args[0])
				}
				fmt.Print(ex.Source)
				return nil
			}
			if pick {
				return runExamplePicker()
			}
			listExamples()
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "pick a snippet interactively")

	return cmd
}

func listExamples() {
	fmt.Println(StyleTitle.Render("Built-in examples"))
	for _, ex := range examples {
		fmt.Printf("  %s  %s\n", StyleHighlight.Render(fmt.Sprintf("%-10s", ex.Name)), StyleDim.Render(ex.Summary))
	}
	fmt.Println()
	printNextStep("Show one", "memviz examples chain")
}

func runExamplePicker() error {
	model := newExampleListModel(examples)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}
	m, ok := final.(exampleListModel)
	if !ok || m.selected == nil {
		return nil
	}
	fmt.Print(m.selected.Source)
	return nil
}

// List styles.
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exampleListModel is the bubbletea model for interactive snippet
// selection.
type exampleListModel struct {
	items    []Example
	cursor   int
	offset   int
	height   int
	selected *Example
}

func newExampleListModel(items []Example) exampleListModel {
	return exampleListModel{items: items, height: 10}
}

func (m exampleListModel) Init() tea.Cmd {
	return nil
}

func (m exampleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			ex := m.items[m.cursor]
			m.selected = &ex
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m exampleListModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Pick an example") + "\n\n")

	end := m.offset + m.height
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.offset; i < end; i++ {
		ex := m.items[i]
		line := fmt.Sprintf("%-10s %s", ex.Name, ex.Summary)
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(listNormalStyle.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + listDimStyle.Render("↑/↓ move · enter select · q quit") + "\n")
	return b.String()
}
