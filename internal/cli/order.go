package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		flags renderFlags
		ids   bool
	)

	cmd := &cobra.Command{
		Use:   "order [file]",
		Short: "Print the ranked rows of a dataset",
		Long: `Rank a dataset the way render would and print the result as a table.

With --ids only the row IDs are printed, one per line, in rank order. Those
orders are cached per dataset and sort.`,
		Example: `  classviz order class.json --sort stats --dir desc
  classviz order quiz.json -s name --lang de --ids`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c, args[0])
			runner, err := c.newRunner(cmd.Context(), flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if ids {
				order, cached, err := runner.Order(cmd.Context(), opts)
				if err != nil {
					return err
				}
				loggerFromContext(cmd.Context()).Debug("ranked rows", "rows", len(order), "cached", cached)
				fmt.Println(strings.Join(order, "\n"))
				return nil
			}
			_, l, err := runner.Rank(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Println(orderTable(l.Rows(), l.Columns(), l.State(), -1, nil))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&ids, "ids", false, "print row IDs only")

	return cmd
}

// orderTable renders ranked rows as a table with one column per sort key.
// The active sort column carries an arrow. cursor highlights one table row;
// pass -1 for none. A non-nil annotate adds an attendance column colored by
// participation.
func orderTable(rows []rowlayout.Row, columns []string, state rowlayout.SortState, cursor int, annotate func(rowlayout.Row) string) string {
	headers := []string{"#", "ID"}
	for _, col := range columns {
		headers = append(headers, columnHeader(col, state))
	}
	if annotate != nil {
		headers = append(headers, "attendance")
	}

	data := make([][]string, len(rows))
	for i, r := range rows {
		cells := []string{strconv.Itoa(r.Rank + 1), r.ID}
		for _, col := range columns {
			cells = append(cells, r.Keys[col].String())
		}
		if annotate != nil {
			cells = append(cells, annotate(r))
		}
		data[i] = cells
	}

	active := -1
	for i, col := range columns {
		if state.IsSet() && col == state.Column {
			active = i + 2
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				if col == active {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Inherit(styleHeader)
			case row == cursor:
				return base.Foreground(colorGreen).Bold(true)
			case col == 0:
				return base.Foreground(colorDim)
			case annotate != nil && col == len(headers)-1:
				if st, ok := participationStyles[data[row][col]]; ok {
					return base.Inherit(st)
				}
			case rowlayout.Striped(rows[row].Rank):
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

func columnHeader(col string, state rowlayout.SortState) string {
	if !state.IsSet() || col != state.Column {
		return col
	}
	if state.Direction == rowlayout.Descending {
		return col + " " + iconDesc
	}
	return col + " " + iconAsc
}
