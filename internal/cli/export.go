package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/classviz/pkg/engagement"
	pkgio "github.com/matzehuels/classviz/pkg/io"
	"github.com/matzehuels/classviz/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		kind   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Validate a dataset and write it in canonical form",
		Long: `Read a dataset, validate it and write it back as indented JSON with an
explicit "kind" field and RFC 3339 timestamps. Bare weight arrays become
{"items": [...]} documents.

Use - as the file to read from standard input. Without -o the dataset is
written to standard output.`,
		Example: `  classviz export class.json -o class.canonical.json
  classviz export weights.json --kind weights
  cat class.json | classviz export -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			var (
				ds  *pkgio.Dataset
				err error
			)
			if args[0] == stdoutPath {
				ds, err = pkgio.ReadDataset(cmd.InOrStdin())
			} else {
				ds, err = pkgio.ImportDataset(args[0])
			}
			if err != nil {
				return err
			}
			if err := pipeline.CheckKind(ds, engagement.Kind(kind)); err != nil {
				return err
			}
			logger.Debug("imported dataset", "kind", ds.Kind, "rows", ds.Len())

			if output == "" || output == stdoutPath {
				return pkgio.WriteDataset(ds, cmd.OutOrStdout())
			}
			if err := pkgio.ExportDataset(ds, output); err != nil {
				return err
			}
			printSuccess("Exported %s dataset %s", ds.Kind, StyleValue.Render(filepath.Base(args[0])))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "expected dataset kind (default: detect)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
