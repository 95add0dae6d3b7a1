package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/errors"
	pkgio "github.com/matzehuels/classviz/pkg/io"
	"github.com/matzehuels/classviz/pkg/observability"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// delayStep is how far +/- move the participation threshold, in minutes.
const delayStep = 5

var (
	browseDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	browseErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Sort a dataset interactively in the terminal",
		Long: `Show the ranked rows of a dataset in a table and re-sort them with the
keyboard. Pressing a column key twice flips its direction.

Keys:
  n        toggle sort by name
  s        toggle sort by the metric column
  1-9      toggle sort by column number
  + / -    raise or lower the participation delay (timelines)
  ↑/↓      move the cursor
  q        quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := flags.options(c, args[0])
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			ds, l, err := runner.Rank(ctx, opts)
			if err != nil {
				return err
			}

			m := NewBrowseModel(ctx, ds, l, opts.Delay)
			final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if bm, ok := final.(BrowseModel); ok {
				printInfo("Final order: %s", StyleValue.Render(bm.Layout.State().String()))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// BrowseModel - Interactive sorting
// =============================================================================

// BrowseModel is the bubbletea model for interactive sorting. All sorting
// goes through Layout, so the table shows exactly what render would draw.
type BrowseModel struct {
	Layout   *rowlayout.Layout
	Timeline *engagement.Timeline // nil unless the dataset is a timeline
	Delay    float64

	Cursor int
	Offset int
	Height int

	ctx    context.Context
	status string
	err    error
}

// NewBrowseModel creates a browse model over an already ranked layout.
func NewBrowseModel(ctx context.Context, ds *pkgio.Dataset, l *rowlayout.Layout, delay float64) BrowseModel {
	if delay <= 0 {
		delay = engagement.DefaultDelay
	}
	return BrowseModel{
		Layout:   l,
		Timeline: ds.Timeline,
		Delay:    delay,
		Height:   15,
		ctx:      ctx,
		status:   "sorted by " + l.State().String(),
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Layout.CurrentOrder())-1 {
				m.Cursor++
			}
		case "n":
			m = m.toggle(engagement.ColumnName)
		case "s":
			if cols := m.Layout.Columns(); len(cols) > 1 {
				m = m.toggle(cols[1])
			}
		case "+", "=":
			m = m.adjustDelay(delayStep)
		case "-":
			m = m.adjustDelay(-delayStep)
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				idx := int(key[0] - '1')
				cols := m.Layout.Columns()
				if idx < len(cols) {
					m = m.toggle(cols[idx])
				} else {
					m = m.toggle(key)
				}
			}
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

// toggle re-sorts by column and keeps the cursor on the same student.
func (m BrowseModel) toggle(column string) BrowseModel {
	if err := m.Layout.ToggleSort(column); err != nil {
		observability.Sort().OnInvalidColumn(m.ctx, column)
		m.err = errors.Wrap(errors.ErrCodeInvalidSortColumn, err, "toggle %q", column)
		return m
	}
	m.err = nil

	moved := 0
	cursor := m.Cursor
	for _, mv := range m.Layout.LastMoves() {
		if mv.Moved() {
			moved++
		}
		if mv.From == m.Cursor {
			cursor = mv.To
		}
	}
	m.Cursor = cursor

	state := m.Layout.State()
	observability.Sort().OnToggle(m.ctx, state.Column, state.Direction.String(), moved)
	m.status = fmt.Sprintf("sorted by %s, %d rows moved", state, moved)
	return m
}

func (m BrowseModel) adjustDelay(delta float64) BrowseModel {
	if m.Timeline == nil {
		m.status = "delay applies to timelines only"
		return m
	}
	m.Delay = max(0, m.Delay+delta)
	m.status = fmt.Sprintf("delay %s", engagement.FormatMinutes(m.Delay))
	return m
}

func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse"))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("n/s sort  1-9 column  +/- delay  ↑/↓ move  q quit"))
	b.WriteString("\n\n")

	rows, state := m.Layout.Snapshot()
	end := min(m.Offset+m.Height, len(rows))
	start := min(m.Offset, end)

	var annotate func(rowlayout.Row) string
	if m.Timeline != nil {
		participation := m.Timeline.Participations(m.Delay)
		annotate = func(r rowlayout.Row) string { return participation[r.ID].String() }
	}
	b.WriteString(orderTable(rows[start:end], m.Layout.Columns(), state, m.Cursor-start, annotate))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(browseErrorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(browseStatusStyle.Render(m.status))
	}
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(rows))))

	return b.String()
}

// Err returns the error of the last toggle, if any.
func (m BrowseModel) Err() error {
	return m.err
}
