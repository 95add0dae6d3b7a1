package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/pipeline"
)

// stdoutPath selects standard output for a single-format render.
const stdoutPath = "-"

// renderFlags holds the command-line flags shared by render, order, browse
// and serve. Zero values fall back to the config file, then to built-in
// defaults.
type renderFlags struct {
	kind      string
	sort      string
	dir       string
	lang      string
	delay     float64
	rowHeight float64
	width     float64
	basePath  string
	noCache   bool
	refresh   bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "", "expected dataset kind: timeline, performance, interactions, activity, weights (default: detect)")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "initial sort column")
	cmd.Flags().StringVar(&f.dir, "dir", "", "initial sort direction: asc (default), desc")
	cmd.Flags().StringVar(&f.lang, "lang", "", "collation language for name columns (BCP 47, default und)")
	cmd.Flags().Float64Var(&f.delay, "delay", 0, "participation delay threshold in minutes (default 15)")
	cmd.Flags().Float64Var(&f.rowHeight, "row-height", 0, "row height in pixels (default depends on kind)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "chart width in pixels")
	cmd.Flags().StringVar(&f.basePath, "base-path", "", "base path prepended to avatar and icon URLs")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results and recompute")
}

// options converts the flags into pipeline options, layering cfg below them.
func (f *renderFlags) options(c *CLI, input string) pipeline.Options {
	opts := pipeline.Options{
		Input:         input,
		Kind:          engagement.Kind(f.kind),
		SortColumn:    f.sort,
		SortDirection: f.dir,
		Language:      f.lang,
		Delay:         f.delay,
		RowHeight:     f.rowHeight,
		Width:         f.width,
		BasePath:      f.basePath,
		Refresh:       f.refresh,
	}
	opts.ApplyConfig(c.Config)
	return opts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   renderFlags
		output  string
		formats string
		scale   float64
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a dashboard dataset to SVG, PNG, PDF or JSON",
		Long: `Render a timeline, performance, interactions, activity or weights dataset
as a chart whose rows are ranked by the chosen sort column.

Output files are named after the input unless -o is given. With a single
format, -o - writes to standard output.`,
		Example: `  classviz render class.json
  classviz render class.json --sort stats --dir desc -f svg,png
  classviz render quiz.json -s answered -f json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c, args[0])
			opts.Formats = parseFormats(formats)
			opts.Scale = scale
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	if output == stdoutPath && len(opts.Formats) != 1 {
		return fmt.Errorf("-o %s needs exactly one format, got %d", stdoutPath, len(opts.Formats))
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spinner *Spinner
	if needsConverter(opts.Formats) && output != stdoutPath {
		spinner = newSpinnerWithContext(ctx, "Converting with rsvg-convert...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if output == stdoutPath {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths := outputPaths(output, opts.Input, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", format, "path", paths[format], "bytes", len(result.Artifacts[format]))
	}

	printSuccess("Rendered %s", StyleValue.Render(filepath.Base(opts.Input)))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.Rows, result.Layout.State().String(), result.CacheHit)
	printNextStep("Sort interactively", appName+" browse "+opts.Input)
	return nil
}

// needsConverter reports whether any format goes through rsvg-convert.
func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}

// outputPaths maps each format to its file. A single format writes to
// output verbatim when given; otherwise files are base.format.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == stdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
